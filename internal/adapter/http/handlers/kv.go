package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/khanhvu-dev/mango-cache/internal/engine"
)

// HandleGet GET /api/get/{key}
func (h *HTTPHandlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if !validKey(key) {
		writeError(w, http.StatusBadRequest, "key must be 1-256 bytes")
		return
	}

	value, exists := h.Engine.Get(key)
	writeJSON(w, http.StatusOK, map[string]any{
		"key":    key,
		"value":  value,
		"exists": exists,
	})
}

// HandleSet POST /api/set
func (h *HTTPHandlers) HandleSet(w http.ResponseWriter, r *http.Request) {
	var req SetRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if !validKey(req.Key) {
		writeError(w, http.StatusBadRequest, "key must be 1-256 bytes")
		return
	}

	var ttl int64
	if req.TTL != nil {
		ttl = *req.TTL
	}
	h.Engine.Set(req.Key, req.Value, ttl)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"key":     req.Key,
		"ttl":     req.TTL,
	})
}

// HandleDelete DELETE /api/delete/{key}
func (h *HTTPHandlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if !validKey(key) {
		writeError(w, http.StatusBadRequest, "key must be 1-256 bytes")
		return
	}

	deleted := h.Engine.Delete(key)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": deleted,
		"key":     key,
	})
}

// HandleExists GET /api/exists/{key}
func (h *HTTPHandlers) HandleExists(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if !validKey(key) {
		writeError(w, http.StatusBadRequest, "key must be 1-256 bytes")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"key":    key,
		"exists": h.Engine.Exists(key),
	})
}

// HandleIncrement POST /api/increment/{key}
func (h *HTTPHandlers) HandleIncrement(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if !validKey(key) {
		writeError(w, http.StatusBadRequest, "key must be 1-256 bytes")
		return
	}

	// Body rỗng là hợp lệ: amount mặc định 1.
	amount := float64(1)
	if r.Body != nil && r.ContentLength != 0 {
		var req IncrementRequest
		if !h.decodeBody(w, r, &req) {
			return
		}
		if req.Amount != nil {
			amount = *req.Amount
		}
	}

	value, err := h.Engine.Increment(key, amount)
	if err != nil {
		if errors.Is(err, engine.ErrValueNotNumeric) {
			writeError(w, http.StatusBadRequest, "value is not numeric")
			return
		}
		writeError(w, http.StatusInternalServerError, "increment failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"key":    key,
		"value":  value,
		"amount": amount,
	})
}

// HandleUpdateTTL POST /api/update-ttl/{key}
func (h *HTTPHandlers) HandleUpdateTTL(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if !validKey(key) {
		writeError(w, http.StatusBadRequest, "key must be 1-256 bytes")
		return
	}

	var req UpdateTTLRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	ok := h.Engine.UpdateTTL(key, req.TTL)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": ok,
		"key":     key,
		"ttl":     req.TTL,
	})
}

// HandleKeys GET /api/keys?limit=&offset=
func (h *HTTPHandlers) HandleKeys(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", KeysLimitDefault)
	if limit < 1 {
		limit = 1
	}
	if limit > KeysLimitMax {
		limit = KeysLimitMax
	}

	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	keys, total := h.Engine.Keys(limit, offset)
	writeJSON(w, http.StatusOK, map[string]any{
		"keys":   keys,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func queryInt(r *http.Request, name string, def int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return def
}
