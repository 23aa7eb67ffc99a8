package engine

// Entry là đơn vị lưu trữ cơ bản: value đã decode từ JSON, hạn sống tuyệt đối
// và size xấp xỉ dùng cho memory accounting.
type Entry struct {
	Value     any
	ExpiresAt int64 // unix millis, 0 = never expires
	Size      int64
}

// Expired reports whether the entry's deadline has passed at nowMs.
func (e *Entry) Expired(nowMs int64) bool {
	return e.ExpiresAt != 0 && nowMs > e.ExpiresAt
}
