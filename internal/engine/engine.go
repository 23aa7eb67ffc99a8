package engine

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrValueNotNumeric báo INCREMENT chạm phải value không phải số.
	ErrValueNotNumeric = errors.New("value is not numeric")
)

// Config cấu hình một Engine. Bất biến sau khi khởi tạo.
type Config struct {
	Policy      string
	MaxKeys     int
	MaxMemoryMB int

	// Now là nguồn thời gian, inject được để test deterministic.
	// Mặc định time.Now.
	Now func() time.Time
}

// BatchEntry là một phần tử của BATCH SET.
type BatchEntry struct {
	Key   string
	Value any
	TTLMs int64
}

// Engine là state machine trung tâm: primary map key -> entry, memory
// accounting và replacement policy. Mọi public operation chạy trọn vẹn dưới
// một exclusive lock; critical section ngắn, không I/O, không callback.
type Engine struct {
	mu sync.Mutex

	items  map[string]*Entry
	policy Policy

	maxKeys      int
	maxBytes     int64
	threshold    int64
	currentBytes int64

	stats *statsTracker
	now   func() time.Time
}

// New tạo Engine theo config. threshold = 90% maxBytes: SET dọn chỗ về dưới
// mức này trước khi chèn, nên currentBytes không bao giờ vượt maxBytes trong
// vận hành bình thường.
func New(cfg Config) (*Engine, error) {
	policy, err := NewPolicy(cfg.Policy, cfg.MaxKeys)
	if err != nil {
		return nil, err
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	maxBytes := int64(cfg.MaxMemoryMB) * 1024 * 1024

	return &Engine{
		items:     make(map[string]*Entry),
		policy:    policy,
		maxKeys:   cfg.MaxKeys,
		maxBytes:  maxBytes,
		threshold: maxBytes * 9 / 10,
		stats:     newStatsTracker(),
		now:       now,
	}, nil
}

func (e *Engine) nowMs() int64 {
	return e.now().UnixMilli()
}

// Get trả về value còn sống của key. Miss khi key vắng mặt hoặc đã hết hạn
// (hết hạn thì gỡ luôn và đếm một expiration).
func (e *Engine) Get(key string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.getLocked(key)
}

func (e *Engine) getLocked(key string) (any, bool) {
	nowMs := e.nowMs()

	ent, ok := e.items[key]
	if !ok {
		e.stats.recordMiss(nowMs)
		return nil, false
	}

	if ent.Expired(nowMs) {
		e.removeLocked(key, ent)
		e.stats.expirations++
		e.stats.recordMiss(nowMs)
		return nil, false
	}

	// Ghi nhận truy cập: LRU/LFU promote, FIFO noop.
	e.policy.Get(key)
	e.stats.recordHit(nowMs)

	return ent.Value, true
}

// Set lưu value dưới key với TTL tùy chọn (ttlMs <= 0 nghĩa là vĩnh viễn).
// Với MaxKeys 0 cache bị tắt: Set thành công nhưng không lưu gì.
func (e *Engine) Set(key string, value any, ttlMs int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setLocked(key, value, ttlMs)
}

func (e *Engine) setLocked(key string, value any, ttlMs int64) {
	if e.maxKeys == 0 {
		return
	}

	size := EntrySize(key, value)

	// Dọn chỗ theo memory bound: evict tới khi vừa đủ dưới threshold hoặc
	// map rỗng. Mỗi nạn nhân là một eviction.
	for e.currentBytes+size > e.threshold && len(e.items) > 0 {
		victim, ok := e.policy.Evict()
		if !ok {
			break
		}
		if vent, resident := e.items[victim]; resident {
			delete(e.items, victim)
			e.currentBytes -= vent.Size
		}
		e.stats.evictions++
	}

	nowMs := e.nowMs()
	var expiresAt int64
	if ttlMs > 0 {
		expiresAt = nowMs + ttlMs
	}

	if ent, ok := e.items[key]; ok {
		// Update tại chỗ: hoán đổi size cũ/mới, policy coi như một lần chạm.
		e.currentBytes -= ent.Size
		ent.Value = value
		ent.ExpiresAt = expiresAt
		ent.Size = size
		e.currentBytes += size
		e.policy.Set(key, ent)
		return
	}

	ent := &Entry{Value: value, ExpiresAt: expiresAt, Size: size}
	e.items[key] = ent
	e.currentBytes += size

	// Key-count bound nằm trong policy: chèn mới có thể đẩy một nạn nhân ra.
	if victim, evicted := e.policy.Set(key, ent); evicted {
		if vent, resident := e.items[victim]; resident {
			delete(e.items, victim)
			e.currentBytes -= vent.Size
		}
		e.stats.evictions++
	}
}

// Delete gỡ key nếu có. Do operator chủ động nên không đếm vào evictions.
func (e *Engine) Delete(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.items[key]
	if !ok {
		return false
	}
	e.removeLocked(key, ent)
	return true
}

// Exists như Get nhưng không trả value, không đụng hit/miss và không promote.
// Vẫn tôn trọng lazy expiration: gặp entry hết hạn thì gỡ và đếm expiration.
func (e *Engine) Exists(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.items[key]
	if !ok {
		return false
	}
	if ent.Expired(e.nowMs()) {
		e.removeLocked(key, ent)
		e.stats.expirations++
		return false
	}
	return true
}

// Increment cộng amount vào value số của key. Key vắng mặt thì khởi tạo bằng
// amount. Value không phải số thì trả ErrValueNotNumeric và không đổi state.
//
// Đường đi qua đúng một GET và một SET nội bộ, nên mỗi Increment ghi một
// hit-hoặc-miss vào statistics giống như nguồn gốc của nó.
func (e *Engine) Increment(key string, amount float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.getLocked(key)
	if !ok {
		e.setLocked(key, amount, 0)
		return amount, nil
	}

	num, numeric := toNumber(current)
	if !numeric {
		return 0, ErrValueNotNumeric
	}

	next := num + amount
	e.setLocked(key, next, 0)
	return next, nil
}

// UpdateTTL ghi đè hạn sống của key thành now + ttlMs mà không đổi vị trí
// trong replacement policy. Trả về false nếu key vắng mặt hoặc đã hết hạn.
func (e *Engine) UpdateTTL(key string, ttlMs int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.items[key]
	if !ok {
		return false
	}

	nowMs := e.nowMs()
	if ent.Expired(nowMs) {
		e.removeLocked(key, ent)
		e.stats.expirations++
		return false
	}

	ent.ExpiresAt = nowMs + ttlMs
	return true
}

// BatchSet áp semantics của SET cho từng phần tử theo thứ tự. Không atomic
// toàn batch: mỗi phần tử là một operation riêng.
func (e *Engine) BatchSet(entries []BatchEntry) int {
	for _, item := range entries {
		e.Set(item.Key, item.Value, item.TTLMs)
	}
	return len(entries)
}

// BatchGet trả về map key -> value cho các key tìm thấy.
func (e *Engine) BatchGet(keys []string) map[string]any {
	result := make(map[string]any, len(keys))
	for _, key := range keys {
		if v, ok := e.Get(key); ok {
			result[key] = v
		}
	}
	return result
}

// BatchDelete gỡ từng key và trả về danh sách những key thực sự bị gỡ.
func (e *Engine) BatchDelete(keys []string) []string {
	deleted := make([]string, 0, len(keys))
	for _, key := range keys {
		if e.Delete(key) {
			deleted = append(deleted, key)
		}
	}
	return deleted
}

// Keys snapshot toàn bộ key rồi trả về lát [offset, offset+limit) cùng tổng
// số key. Thứ tự ổn định trong một lần gọi, không đảm bảo giữa các lần.
func (e *Engine) Keys(limit, offset int) ([]string, int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	all := make([]string, 0, len(e.items))
	for key := range e.items {
		all = append(all, key)
	}
	total := len(all)

	if offset >= total {
		return []string{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total
}

// Clear bỏ toàn bộ entries và policy state. Statistics giữ nguyên.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = make(map[string]*Entry)
	e.policy.Clear()
	e.currentBytes = 0
}

// DrainExpired quét một lượt toàn bộ entries và gỡ những entry đã hết hạn,
// đếm mỗi lần gỡ là một expiration. Sweeper gọi định kỳ.
func (e *Engine) DrainExpired() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	nowMs := e.nowMs()
	drained := 0
	for key, ent := range e.items {
		if ent.Expired(nowMs) {
			e.removeLocked(key, ent)
			e.stats.expirations++
			drained++
		}
	}
	return drained
}

// Stats tổng hợp snapshot thống kê hiện tại.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	usage := float64(0)
	if e.maxBytes > 0 {
		usage = float64(e.currentBytes) / float64(e.maxBytes) * 100
	}

	return Stats{
		Hits:               e.stats.hits,
		Misses:             e.stats.misses,
		Evictions:          e.stats.evictions,
		Expirations:        e.stats.expirations,
		HitRate:            e.stats.hitRate(),
		OpsPerSecond:       e.stats.opsPerSecond(e.nowMs()),
		ItemCount:          len(e.items),
		CurrentBytes:       e.currentBytes,
		MaxBytes:           e.maxBytes,
		MaxKeys:            e.maxKeys,
		MemoryUsagePercent: usage,
	}
}

// ResetStats xóa counters và ops buffer; entries không bị đụng tới.
func (e *Engine) ResetStats() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.reset()
}

// Len trả về số entry đang cư trú.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.items)
}

// Bytes trả về tổng size hiện tại.
func (e *Engine) Bytes() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentBytes
}

// MaxBytes trả về memory bound đã cấu hình.
func (e *Engine) MaxBytes() int64 {
	return e.maxBytes
}

// removeLocked gỡ entry khỏi primary map lẫn policy và trừ size.
func (e *Engine) removeLocked(key string, ent *Entry) {
	delete(e.items, key)
	e.policy.Delete(key)
	e.currentBytes -= ent.Size
}

// toNumber chấp nhận mọi dạng số mà JSON decode có thể sinh ra.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
