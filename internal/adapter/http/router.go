package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khanhvu-dev/mango-cache/internal/adapter/http/handlers"
)

func (s *Server) setupRoutes() {
	h := handlers.NewHTTPHandlers(s.engine, s.cfg)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(RateLimitMiddleware(s.cfg.RateLimitPerMinute))

	api.HandleFunc("/get/{key}", h.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/set", h.HandleSet).Methods(http.MethodPost)
	api.HandleFunc("/delete/{key}", h.HandleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/exists/{key}", h.HandleExists).Methods(http.MethodGet)
	api.HandleFunc("/increment/{key}", h.HandleIncrement).Methods(http.MethodPost)
	api.HandleFunc("/update-ttl/{key}", h.HandleUpdateTTL).Methods(http.MethodPost)
	api.HandleFunc("/keys", h.HandleKeys).Methods(http.MethodGet)

	api.HandleFunc("/batch/set", h.HandleBatchSet).Methods(http.MethodPost)
	api.HandleFunc("/batch/get", h.HandleBatchGet).Methods(http.MethodPost)
	api.HandleFunc("/batch/delete", h.HandleBatchDelete).Methods(http.MethodPost)

	api.HandleFunc("/stats", h.HandleStats).Methods(http.MethodGet)
	api.HandleFunc("/stats/reset", h.HandleStatsReset).Methods(http.MethodPost)
	api.HandleFunc("/config", h.HandleConfig).Methods(http.MethodGet)

	// Health và metrics nằm ngoài cây /api, không bị rate limit.
	s.router.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/health/detailed", h.HandleHealthDetailed).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(h.HandleNotFound)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(h.HandleNotFound)
}
