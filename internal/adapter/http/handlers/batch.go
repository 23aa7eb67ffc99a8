package handlers

import (
	"net/http"

	"github.com/khanhvu-dev/mango-cache/internal/engine"
)

// HandleBatchSet POST /api/batch/set
//
// Áp semantics đơn lẻ cho từng phần tử theo thứ tự; không atomic toàn batch.
func (h *HTTPHandlers) HandleBatchSet(w http.ResponseWriter, r *http.Request) {
	var req BatchSetRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	entries := make([]engine.BatchEntry, 0, len(req.Entries))
	for _, item := range req.Entries {
		if !validKey(item.Key) {
			writeError(w, http.StatusBadRequest, "key must be 1-256 bytes")
			return
		}
		var ttl int64
		if item.TTL != nil {
			ttl = *item.TTL
		}
		entries = append(entries, engine.BatchEntry{Key: item.Key, Value: item.Value, TTLMs: ttl})
	}

	count := h.Engine.BatchSet(entries)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   count,
	})
}

// HandleBatchGet POST /api/batch/get
func (h *HTTPHandlers) HandleBatchGet(w http.ResponseWriter, r *http.Request) {
	var req BatchKeysRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if !h.validBatchKeys(w, req.Keys) {
		return
	}

	result := h.Engine.BatchGet(req.Keys)
	writeJSON(w, http.StatusOK, map[string]any{
		"result":    result,
		"requested": len(req.Keys),
		"found":     len(result),
	})
}

// HandleBatchDelete POST /api/batch/delete
func (h *HTTPHandlers) HandleBatchDelete(w http.ResponseWriter, r *http.Request) {
	var req BatchKeysRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if !h.validBatchKeys(w, req.Keys) {
		return
	}

	deleted := h.Engine.BatchDelete(req.Keys)
	writeJSON(w, http.StatusOK, map[string]any{
		"deleted":      deleted,
		"requested":    len(req.Keys),
		"deletedCount": len(deleted),
	})
}

func (h *HTTPHandlers) validBatchKeys(w http.ResponseWriter, keys []string) bool {
	for _, key := range keys {
		if !validKey(key) {
			writeError(w, http.StatusBadRequest, "key must be 1-256 bytes")
			return false
		}
	}
	return true
}
