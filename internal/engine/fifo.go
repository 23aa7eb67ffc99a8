package engine

import "container/list"

// fifoItem là payload của mỗi list element.
type fifoItem struct {
	key string
	ent *Entry
}

// FIFO giữ danh sách từ oldest-inserted (front, nạn nhân) tới newest (back).
// Get không đổi thứ tự; update value giữ nguyên vị trí chèn ban đầu.
type FIFO struct {
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

func NewFIFO(capacity int) *FIFO {
	return &FIFO{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

func (c *FIFO) Get(key string) (*Entry, bool) {
	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	return elem.Value.(*fifoItem).ent, true
}

func (c *FIFO) Set(key string, ent *Entry) (string, bool) {
	if c.capacity == 0 {
		return "", false
	}

	if elem, ok := c.items[key]; ok {
		// Update tại chỗ, không reorder.
		elem.Value.(*fifoItem).ent = ent
		return "", false
	}

	var victim string
	evicted := false
	if c.ll.Len() >= c.capacity {
		victim, evicted = c.Evict()
	}

	elem := c.ll.PushBack(&fifoItem{key: key, ent: ent})
	c.items[key] = elem

	return victim, evicted
}

func (c *FIFO) Delete(key string) bool {
	elem, ok := c.items[key]
	if !ok {
		return false
	}
	delete(c.items, key)
	c.ll.Remove(elem)
	return true
}

func (c *FIFO) Has(key string) bool {
	_, ok := c.items[key]
	return ok
}

// Evict gỡ phần tử chèn sớm nhất còn cư trú.
func (c *FIFO) Evict() (string, bool) {
	front := c.ll.Front()
	if front == nil {
		return "", false
	}
	item := front.Value.(*fifoItem)
	delete(c.items, item.key)
	c.ll.Remove(front)
	return item.key, true
}

func (c *FIFO) Len() int {
	return c.ll.Len()
}

func (c *FIFO) Keys() []string {
	keys := make([]string, 0, c.ll.Len())
	for elem := c.ll.Front(); elem != nil; elem = elem.Next() {
		keys = append(keys, elem.Value.(*fifoItem).key)
	}
	return keys
}

func (c *FIFO) Clear() {
	c.ll = list.New()
	c.items = make(map[string]*list.Element)
}
