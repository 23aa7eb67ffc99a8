package http

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/khanhvu-dev/mango-cache/internal/logging"
	"github.com/khanhvu-dev/mango-cache/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// statusRecorder giữ lại status code để logging và metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestIDMiddleware gắn một request ID vào header (tôn trọng ID client gửi).
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware log mỗi request: client error ở warn, server error ở error
// kèm user agent, còn lại ở info.
func LoggingMiddleware(next http.Handler) http.Handler {
	log := logging.WithTag("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		metrics.RequestDuration.Observe(elapsed.Seconds())

		ip := clientIP(r)
		switch {
		case rec.status >= 500:
			log.Errorf("%s %s -> %d (%s) ip=%s ua=%q id=%s",
				r.Method, r.URL.Path, rec.status, elapsed, ip, r.UserAgent(), w.Header().Get(requestIDHeader))
		case rec.status >= 400:
			log.Warnf("%s %s -> %d (%s) ip=%s id=%s",
				r.Method, r.URL.Path, rec.status, elapsed, ip, w.Header().Get(requestIDHeader))
		default:
			log.Infof("%s %s -> %d (%s) ip=%s id=%s",
				r.Method, r.URL.Path, rec.status, elapsed, ip, w.Header().Get(requestIDHeader))
		}
	})
}

// RecoverMiddleware chặn panic, trả 500. Message chi tiết bị redact khi chạy
// production.
func RecoverMiddleware(production bool) func(http.Handler) http.Handler {
	log := logging.WithTag("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Errorf("panic serving %s %s: %v ip=%s ua=%q",
						r.Method, r.URL.Path, rec, clientIP(r), r.UserAgent())

					message := "Internal Server Error"
					if !production {
						message = "internal error: " + toString(rec)
					}
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]any{"error": message})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware trả CORS headers theo danh sách origins cấu hình ("*" cho
// phép mọi nguồn).
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	allowAll := len(origins) == 1 && origins[0] == "*"
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || allowed[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, HEAD")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, X-Requested-With, X-Request-ID")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ipRateLimiter giữ một token bucket cho mỗi IP client.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiterEntry
	limit    rate.Limit
	burst    int
}

type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPRateLimiter(perMinute int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*ipLimiterEntry),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[ip]
	if !ok {
		// Chặn map phình vô hạn: dọn những IP nguội trước khi thêm mới.
		if len(l.limiters) > 8192 {
			cutoff := time.Now().Add(-10 * time.Minute)
			for k, v := range l.limiters {
				if v.lastSeen.Before(cutoff) {
					delete(l.limiters, k)
				}
			}
		}
		entry = &ipLimiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

// RateLimitMiddleware áp quota per-IP per-minute lên cây /api.
func RateLimitMiddleware(perMinute int) func(http.Handler) http.Handler {
	limiter := newIPRateLimiter(perMinute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.allow(clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func toString(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return "unexpected failure"
}
