package engine

import "math"

// opsWindowMs là độ rộng cửa sổ trượt dùng để tính ops/sec.
const opsWindowMs = 10_000

// Stats là snapshot trả về qua API /api/stats.
type Stats struct {
	Hits               uint64  `json:"hits"`
	Misses             uint64  `json:"misses"`
	Evictions          uint64  `json:"evictions"`
	Expirations        uint64  `json:"expirations"`
	HitRate            float64 `json:"hitRate"`
	OpsPerSecond       int     `json:"opsPerSecond"`
	ItemCount          int     `json:"itemCount"`
	CurrentBytes       int64   `json:"currentBytes"`
	MaxBytes           int64   `json:"maxBytes"`
	MaxKeys            int     `json:"maxKeys"`
	MemoryUsagePercent float64 `json:"memoryUsagePercent"`
}

// statsTracker đếm hits/misses/evictions/expirations và giữ buffer timestamp
// của các lần truy cập trong cửa sổ 10 giây. Mọi truy cập đều diễn ra dưới
// lock của Engine nên tracker không tự lock.
type statsTracker struct {
	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
	window      []int64 // unix millis, tăng dần
}

func newStatsTracker() *statsTracker {
	return &statsTracker{
		window: make([]int64, 0, 1024),
	}
}

func (t *statsTracker) recordHit(nowMs int64) {
	t.hits++
	t.recordOp(nowMs)
}

func (t *statsTracker) recordMiss(nowMs int64) {
	t.misses++
	t.recordOp(nowMs)
}

// recordOp append timestamp và cắt bỏ phần đã rơi ra ngoài cửa sổ.
func (t *statsTracker) recordOp(nowMs int64) {
	cutoff := nowMs - opsWindowMs
	i := 0
	for i < len(t.window) && t.window[i] <= cutoff {
		i++
	}
	if i > 0 {
		t.window = append(t.window[:0], t.window[i:]...)
	}
	t.window = append(t.window, nowMs)
}

// opsPerSecond = |buffer| / 10 làm tròn tới số nguyên gần nhất.
func (t *statsTracker) opsPerSecond(nowMs int64) int {
	cutoff := nowMs - opsWindowMs
	n := 0
	for i := len(t.window) - 1; i >= 0 && t.window[i] > cutoff; i-- {
		n++
	}
	return int(math.Round(float64(n) / 10))
}

// hitRate trả về phần trăm hit, làm tròn hai chữ số thập phân, 0 khi chưa có
// truy cập nào.
func (t *statsTracker) hitRate() float64 {
	total := t.hits + t.misses
	if total == 0 {
		return 0
	}
	return math.Round(float64(t.hits)/float64(total)*10000) / 100
}

// reset xóa counters và buffer; không đụng tới entries.
func (t *statsTracker) reset() {
	t.hits = 0
	t.misses = 0
	t.evictions = 0
	t.expirations = 0
	t.window = t.window[:0]
}
