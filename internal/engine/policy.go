package engine

import "fmt"

// Tên các replacement policy được hỗ trợ.
const (
	PolicyLRU  = "LRU"
	PolicyLFU  = "LFU"
	PolicyFIFO = "FIFO"
)

// Policy giữ thứ tự eviction của toàn bộ key đang cư trú và chọn nạn nhân khi
// vượt capacity. Mọi thao tác phải là O(1); không được quét trên hot path.
//
// Capacity semantics:
//   - capacity 0: Set không lưu gì và không báo eviction; Get/Has luôn fail.
//   - chèn key mới khi Len() >= capacity: policy tự chọn một nạn nhân, gỡ nó
//     ra và trả về key của nó.
//   - update key đã tồn tại không bao giờ gây eviction.
type Policy interface {
	// Get trả về entry và ghi nhận một lần truy cập (promote với LRU/LFU).
	Get(key string) (*Entry, bool)

	// Set chèn hoặc update. Trả về (victimKey, true) nếu việc chèn làm tràn
	// capacity và một key khác bị đẩy ra.
	Set(key string, ent *Entry) (string, bool)

	// Delete gỡ key nếu có, không tính là eviction.
	Delete(key string) bool

	// Has kiểm tra key mà không ghi nhận truy cập.
	Has(key string) bool

	// Evict gỡ và trả về nạn nhân theo luật của policy, độc lập với capacity.
	// Engine dùng khi memory (chứ không phải key count) là ràng buộc.
	Evict() (string, bool)

	Len() int
	Keys() []string
	Clear()
}

// NewPolicy tạo policy theo tên (LRU, LFU, FIFO).
func NewPolicy(name string, capacity int) (Policy, error) {
	switch name {
	case PolicyLRU:
		return NewLRU(capacity), nil
	case PolicyLFU:
		return NewLFU(capacity), nil
	case PolicyFIFO:
		return NewFIFO(capacity), nil
	default:
		return nil, fmt.Errorf("unknown eviction policy: %s", name)
	}
}
