package engine

// entryOverhead là chi phí cố định cho mỗi entry (map slot, list node, metadata).
const entryOverhead = 64

// EstimateValueSize walks a decoded JSON value and returns its approximate
// footprint in bytes. The formula is deliberately coarse; it exists so the
// memory bound behaves the same across deployments, not to match the Go
// heap byte-for-byte.
func EstimateValueSize(v any) int64 {
	switch val := v.(type) {
	case nil:
		return 8
	case bool:
		return 1
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return 8
	case string:
		return int64(len(val))
	case []any:
		size := int64(16)
		for _, item := range val {
			size += EstimateValueSize(item)
		}
		return size
	case map[string]any:
		size := int64(16)
		for k, item := range val {
			size += int64(len(k)) + EstimateValueSize(item)
		}
		return size
	default:
		return 16
	}
}

// EntrySize tính tổng kích thước một entry: key bytes + value ước lượng + overhead.
func EntrySize(key string, value any) int64 {
	return int64(len(key)) + EstimateValueSize(value) + entryOverhead
}
