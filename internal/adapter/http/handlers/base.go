package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/khanhvu-dev/mango-cache/internal/config"
	"github.com/khanhvu-dev/mango-cache/internal/engine"
	"github.com/khanhvu-dev/mango-cache/internal/logging"
)

// HTTPHandlers chứa dependencies cho việc xử lý request.
type HTTPHandlers struct {
	Engine    *engine.Engine
	Cfg       *config.Config
	StartedAt time.Time

	validate *validator.Validate
	log      *logging.Tagged
}

func NewHTTPHandlers(eng *engine.Engine, cfg *config.Config) *HTTPHandlers {
	return &HTTPHandlers{
		Engine:    eng,
		Cfg:       cfg,
		StartedAt: time.Now(),
		validate:  validator.New(),
		log:       logging.WithTag("http"),
	}
}

// writeJSON encode body và set Content-Type. Mọi response của API đi qua đây.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError trả về lỗi dạng {"error": ...}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// decodeBody đọc và validate JSON body. Trả về false nếu đã ghi response lỗi.
func (h *HTTPHandlers) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}
