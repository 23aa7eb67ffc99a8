package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/khanhvu-dev/mango-cache/internal/config"
	"github.com/khanhvu-dev/mango-cache/internal/engine"
)

func newTestRouter(t *testing.T) (*mux.Router, *engine.Engine) {
	t.Helper()

	eng, err := engine.New(engine.Config{Policy: engine.PolicyLRU, MaxKeys: 1000, MaxMemoryMB: 64})
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               3000,
		Env:                "test",
		EvictionPolicy:     "LRU",
		MaxMemoryMB:        64,
		MaxKeys:            1000,
		RateLimitPerMinute: 100,
	}

	h := NewHTTPHandlers(eng, cfg)

	r := mux.NewRouter()
	r.HandleFunc("/api/get/{key}", h.HandleGet).Methods(http.MethodGet)
	r.HandleFunc("/api/set", h.HandleSet).Methods(http.MethodPost)
	r.HandleFunc("/api/delete/{key}", h.HandleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/api/exists/{key}", h.HandleExists).Methods(http.MethodGet)
	r.HandleFunc("/api/increment/{key}", h.HandleIncrement).Methods(http.MethodPost)
	r.HandleFunc("/api/update-ttl/{key}", h.HandleUpdateTTL).Methods(http.MethodPost)
	r.HandleFunc("/api/keys", h.HandleKeys).Methods(http.MethodGet)
	r.HandleFunc("/api/batch/set", h.HandleBatchSet).Methods(http.MethodPost)
	r.HandleFunc("/api/batch/get", h.HandleBatchGet).Methods(http.MethodPost)
	r.HandleFunc("/api/batch/delete", h.HandleBatchDelete).Methods(http.MethodPost)
	r.HandleFunc("/api/stats", h.HandleStats).Methods(http.MethodGet)
	r.HandleFunc("/api/stats/reset", h.HandleStatsReset).Methods(http.MethodPost)
	r.HandleFunc("/api/config", h.HandleConfig).Methods(http.MethodGet)
	r.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/health/detailed", h.HandleHealthDetailed).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(h.HandleNotFound)

	return r, eng
}

func doJSON(t *testing.T, r *mux.Router, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestSetThenGet(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/set", map[string]any{
		"key":   "greeting",
		"value": "hello",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, resp["success"])
	require.Equal(t, "greeting", resp["key"])

	w, resp = doJSON(t, r, http.MethodGet, "/api/get/greeting", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, resp["exists"])
	require.Equal(t, "hello", resp["value"])
}

func TestGetMissReturnsExistsFalse(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/get/missing", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, false, resp["exists"])
	require.Nil(t, resp["value"])
}

func TestSetValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	// key quá dài
	w, _ := doJSON(t, r, http.MethodPost, "/api/set", map[string]any{
		"key":   strings.Repeat("k", 257),
		"value": 1,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// ttl ngoài khoảng
	w, _ = doJSON(t, r, http.MethodPost, "/api/set", map[string]any{
		"key":   "k",
		"value": 1,
		"ttl":   90_000_000,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// body hỏng
	req := httptest.NewRequest(http.MethodPost, "/api/set", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteStrictSemantics(t *testing.T) {
	r, _ := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/set", map[string]any{"key": "k", "value": 1})

	w, resp := doJSON(t, r, http.MethodDelete, "/api/delete/k", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, resp["success"])

	// Key vắng mặt: success=false.
	w, resp = doJSON(t, r, http.MethodDelete, "/api/delete/k", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, false, resp["success"])
}

func TestExists(t *testing.T) {
	r, _ := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/set", map[string]any{"key": "k", "value": 1})

	_, resp := doJSON(t, r, http.MethodGet, "/api/exists/k", nil)
	require.Equal(t, true, resp["exists"])

	_, resp = doJSON(t, r, http.MethodGet, "/api/exists/other", nil)
	require.Equal(t, false, resp["exists"])
}

func TestIncrementFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	// Body rỗng: amount mặc định 1.
	w, resp := doJSON(t, r, http.MethodPost, "/api/increment/counter", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), resp["value"])

	w, resp = doJSON(t, r, http.MethodPost, "/api/increment/counter", map[string]any{"amount": 3})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(4), resp["value"])

	// Non-numeric -> 400, giá trị giữ nguyên.
	doJSON(t, r, http.MethodPost, "/api/set", map[string]any{"key": "counter", "value": "x"})
	w, _ = doJSON(t, r, http.MethodPost, "/api/increment/counter", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	_, resp = doJSON(t, r, http.MethodGet, "/api/get/counter", nil)
	require.Equal(t, "x", resp["value"])
}

func TestUpdateTTLEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/set", map[string]any{"key": "k", "value": 1})

	w, resp := doJSON(t, r, http.MethodPost, "/api/update-ttl/k", map[string]any{"ttl": 5000})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, resp["success"])

	w, resp = doJSON(t, r, http.MethodPost, "/api/update-ttl/absent", map[string]any{"ttl": 5000})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, false, resp["success"])

	// ttl thiếu -> 400.
	w, _ = doJSON(t, r, http.MethodPost, "/api/update-ttl/k", map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKeysEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, k := range []string{"a", "b", "c"} {
		doJSON(t, r, http.MethodPost, "/api/set", map[string]any{"key": k, "value": 1})
	}

	_, resp := doJSON(t, r, http.MethodGet, "/api/keys?limit=2&offset=0", nil)
	require.Equal(t, float64(3), resp["total"])
	require.Len(t, resp["keys"], 2)

	// limit ngoài khoảng bị clamp, không lỗi.
	w, resp := doJSON(t, r, http.MethodGet, "/api/keys?limit=99999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1000), resp["limit"])
}

func TestBatchEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/batch/set", map[string]any{
		"entries": []map[string]any{
			{"key": "a", "value": 1},
			{"key": "b", "value": 2, "ttl": 60000},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(2), resp["count"])

	w, resp = doJSON(t, r, http.MethodPost, "/api/batch/get", map[string]any{
		"keys": []string{"a", "b", "missing"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(3), resp["requested"])
	require.Equal(t, float64(2), resp["found"])
	result := resp["result"].(map[string]any)
	require.Equal(t, float64(1), result["a"])

	w, resp = doJSON(t, r, http.MethodPost, "/api/batch/delete", map[string]any{
		"keys": []string{"a", "missing"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), resp["deletedCount"])

	// Batch rỗng -> 400.
	w, _ = doJSON(t, r, http.MethodPost, "/api/batch/get", map[string]any{"keys": []string{}})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsAndReset(t *testing.T) {
	r, _ := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/set", map[string]any{"key": "a", "value": 1})
	doJSON(t, r, http.MethodGet, "/api/get/a", nil)
	doJSON(t, r, http.MethodGet, "/api/get/missing", nil)

	_, resp := doJSON(t, r, http.MethodGet, "/api/stats", nil)
	require.Equal(t, float64(1), resp["hits"])
	require.Equal(t, float64(1), resp["misses"])
	require.Contains(t, resp, "memoryUsagePercent")
	require.Contains(t, resp, "timestamp")

	w, resp := doJSON(t, r, http.MethodPost, "/api/stats/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, resp["success"])

	_, resp = doJSON(t, r, http.MethodGet, "/api/stats", nil)
	require.Equal(t, float64(0), resp["hits"])
	// Entry còn nguyên sau reset.
	require.Equal(t, float64(1), resp["itemCount"])
}

func TestConfigAndHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	_, resp := doJSON(t, r, http.MethodGet, "/api/config", nil)
	require.Equal(t, "LRU", resp["evictionPolicy"])

	w, resp := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", resp["status"])

	w, resp = doJSON(t, r, http.MethodGet, "/health/detailed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, resp, "system")
	require.Contains(t, resp, "cache")
}

func TestUnknownRouteReturns404JSON(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/unknown", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, resp, "error")
}
