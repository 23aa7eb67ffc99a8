// File: cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/khanhvu-dev/mango-cache/internal/adapter/http"
	"github.com/khanhvu-dev/mango-cache/internal/config"
	"github.com/khanhvu-dev/mango-cache/internal/engine"
	"github.com/khanhvu-dev/mango-cache/internal/logging"
	"github.com/khanhvu-dev/mango-cache/internal/metrics"
)

const (
	Version     = "1.0.0"
	ServiceName = "Mango Cache"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logging.SetLevel(logging.ParseLevel(cfg.LogLevel))

	printBanner(cfg)

	log.Println("Initializing components...")

	eng, err := engine.New(engine.Config{
		Policy:      cfg.EvictionPolicy,
		MaxKeys:     cfg.MaxKeys,
		MaxMemoryMB: cfg.MaxMemoryMB,
	})
	if err != nil {
		log.Fatalf("Engine error: %v", err)
	}

	metrics.Register(eng)

	sweeper := engine.NewSweeper(eng, cfg.CleanupInterval)
	sweeper.Start(context.Background())

	srv := httpAdapter.NewServer(eng, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("HTTP server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Signal received, starting graceful shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP shutdown error: %v", err)
		} else {
			log.Println("HTTP server stopped")
		}

		sweeper.Stop()
		log.Println("Sweeper stopped")

		printFinalStats(eng)
		eng.Clear()

		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Shutdown complete. Goodbye!")
}

func printBanner(cfg *config.Config) {
	banner := `
========================================
   MANGO CACHE v%s
========================================
  In-Memory JSON Key/Value Cache

System:
  Go:             %s
  CPU:            %d cores
  Platform:       %s/%s

Config:
  HTTP:           :%d
  Policy:         %s
  Max Memory:     %d MB
  Max Keys:       %d
  Sweep Interval: %s

Endpoints:
  Health:         http://localhost:%d/health
  Stats:          http://localhost:%d/api/stats
  Metrics:        http://localhost:%d/metrics

========================================
`
	fmt.Printf(banner,
		Version,
		runtime.Version(),
		runtime.NumCPU(),
		runtime.GOOS,
		runtime.GOARCH,
		cfg.Port,
		cfg.EvictionPolicy,
		cfg.MaxMemoryMB,
		cfg.MaxKeys,
		cfg.CleanupInterval,
		cfg.Port,
		cfg.Port,
		cfg.Port,
	)
}

func printFinalStats(eng *engine.Engine) {
	stats := eng.Stats()
	log.Println("Final Statistics:")
	log.Printf("  items=%d bytes=%s hits=%d misses=%d evictions=%d expirations=%d",
		stats.ItemCount, formatBytes(stats.CurrentBytes),
		stats.Hits, stats.Misses, stats.Evictions, stats.Expirations)
}

func formatBytes(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}

	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
