package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/khanhvu-dev/mango-cache/internal/config"
	"github.com/khanhvu-dev/mango-cache/internal/engine"
)

// ServerConfig chỉnh timeouts cho http.Server.
type ServerConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// Server là transport adapter mỏng trên Engine.
type Server struct {
	engine *engine.Engine
	cfg    *config.Config
	router *mux.Router
	srv    *http.Server
}

func NewServer(eng *engine.Engine, cfg *config.Config) *Server {
	return NewServerWithConfig(eng, cfg, DefaultServerConfig())
}

func NewServerWithConfig(eng *engine.Engine, cfg *config.Config, srvCfg ServerConfig) *Server {
	s := &Server{
		engine: eng,
		cfg:    cfg,
		router: mux.NewRouter(),
	}
	s.setupRoutes()

	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  srvCfg.ReadTimeout,
		WriteTimeout: srvCfg.WriteTimeout,
		IdleTimeout:  srvCfg.IdleTimeout,
	}

	return s
}

// Handler dựng middleware chain quanh router. Thứ tự: request ID ngoài cùng,
// rồi logging, recovery, CORS, và compression sát handler.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.router

	if s.cfg.EnableCompression {
		handler = gorillahandlers.CompressHandler(handler)
	}
	handler = CORSMiddleware(s.cfg.CORSOrigins)(handler)
	handler = RecoverMiddleware(s.cfg.IsProduction())(handler)
	handler = LoggingMiddleware(handler)
	handler = RequestIDMiddleware(handler)

	return handler
}

func (s *Server) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown ngừng nhận request mới và drain những request đang bay.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
