package engine

import "container/list"

// lfuItem là payload của mỗi element trong một frequency list.
type lfuItem struct {
	key  string
	ent  *Entry
	freq int
}

// LFU giữ một doubly linked list cho mỗi mức frequency. Trong một mức, thứ tự
// là least-recently-touched ở đầu (nạn nhân) tới most-recently-touched ở cuối,
// nên tie-break giữa các key cùng frequency là LRU thuần.
//
// minFreq luôn trỏ tới mức frequency không rỗng nhỏ nhất (0 khi policy rỗng).
type LFU struct {
	capacity int
	items    map[string]*list.Element
	freqs    map[int]*list.List
	minFreq  int
	maxFreq  int
}

func NewLFU(capacity int) *LFU {
	return &LFU{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		freqs:    make(map[int]*list.List),
	}
}

func (c *LFU) Get(key string) (*Entry, bool) {
	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.promote(elem)
	return elem.Value.(*lfuItem).ent, true
}

func (c *LFU) Set(key string, ent *Entry) (string, bool) {
	if c.capacity == 0 {
		return "", false
	}

	if elem, ok := c.items[key]; ok {
		elem.Value.(*lfuItem).ent = ent
		c.promote(elem)
		return "", false
	}

	var victim string
	evicted := false
	if len(c.items) >= c.capacity {
		victim, evicted = c.Evict()
	}

	// Key mới vào mức frequency 1, ở cuối list của mức đó.
	item := &lfuItem{key: key, ent: ent, freq: 1}
	c.items[key] = c.pushToFreq(1, item)
	c.minFreq = 1
	if c.maxFreq < 1 {
		c.maxFreq = 1
	}

	return victim, evicted
}

func (c *LFU) Delete(key string) bool {
	elem, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElem(elem)
	return true
}

func (c *LFU) Has(key string) bool {
	_, ok := c.items[key]
	return ok
}

// Evict gỡ phần tử ở đầu list tại minFreq: trong số các key có frequency thấp
// nhất, chọn key được chạm lâu nhất.
func (c *LFU) Evict() (string, bool) {
	ll := c.freqs[c.minFreq]
	if ll == nil || ll.Len() == 0 {
		return "", false
	}
	front := ll.Front()
	key := front.Value.(*lfuItem).key
	c.removeElem(front)
	return key, true
}

func (c *LFU) Len() int {
	return len(c.items)
}

func (c *LFU) Keys() []string {
	keys := make([]string, 0, len(c.items))
	for f := c.minFreq; f <= c.maxFreq; f++ {
		ll := c.freqs[f]
		if ll == nil {
			continue
		}
		for elem := ll.Front(); elem != nil; elem = elem.Next() {
			keys = append(keys, elem.Value.(*lfuItem).key)
		}
	}
	return keys
}

func (c *LFU) Clear() {
	c.items = make(map[string]*list.Element)
	c.freqs = make(map[int]*list.List)
	c.minFreq = 0
	c.maxFreq = 0
}

// promote tăng frequency của element lên 1 và chuyển nó xuống cuối list của
// mức mới. Chỉ khi việc promote làm rỗng mức minFreq hiện tại thì minFreq mới
// được đẩy lên theo.
func (c *LFU) promote(elem *list.Element) {
	item := elem.Value.(*lfuItem)
	oldFreq := item.freq

	ll := c.freqs[oldFreq]
	ll.Remove(elem)
	if ll.Len() == 0 {
		delete(c.freqs, oldFreq)
		if c.minFreq == oldFreq {
			c.minFreq = oldFreq + 1
		}
	}

	item.freq = oldFreq + 1
	c.items[item.key] = c.pushToFreq(item.freq, item)
	if item.freq > c.maxFreq {
		c.maxFreq = item.freq
	}
}

// removeElem gỡ một element khỏi frequency list và index của nó, rồi chỉnh lại
// minFreq nếu mức vừa gỡ trở nên rỗng.
func (c *LFU) removeElem(elem *list.Element) {
	item := elem.Value.(*lfuItem)

	ll := c.freqs[item.freq]
	ll.Remove(elem)
	delete(c.items, item.key)

	if ll.Len() == 0 {
		delete(c.freqs, item.freq)
		if len(c.items) == 0 {
			c.minFreq = 0
			c.maxFreq = 0
			return
		}
		if c.minFreq == item.freq {
			c.advanceMinFreq()
		}
	}
}

// advanceMinFreq dời minFreq tới mức không rỗng kế tiếp. Chỉ chạy khi mức
// minFreq vừa bị rỗng do xóa hoặc evict (kể cả evict trong Set khi đầy
// capacity); promote trong get/set không gọi tới nó.
func (c *LFU) advanceMinFreq() {
	for f := c.minFreq + 1; f <= c.maxFreq; f++ {
		if ll, ok := c.freqs[f]; ok && ll.Len() > 0 {
			c.minFreq = f
			return
		}
	}
	c.minFreq = 0
}

func (c *LFU) pushToFreq(freq int, item *lfuItem) *list.Element {
	ll, ok := c.freqs[freq]
	if !ok {
		ll = list.New()
		c.freqs[freq] = ll
	}
	return ll.PushBack(item)
}
