package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// HandleStats GET /api/stats
func (h *HTTPHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.Engine.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"hits":               stats.Hits,
		"misses":             stats.Misses,
		"evictions":          stats.Evictions,
		"expirations":        stats.Expirations,
		"hitRate":            stats.HitRate,
		"opsPerSecond":       stats.OpsPerSecond,
		"itemCount":          stats.ItemCount,
		"currentBytes":       stats.CurrentBytes,
		"maxBytes":           stats.MaxBytes,
		"memoryUsagePercent": stats.MemoryUsagePercent,
		"timestamp":          time.Now().UnixMilli(),
	})
}

// HandleStatsReset POST /api/stats/reset
func (h *HTTPHandlers) HandleStatsReset(w http.ResponseWriter, r *http.Request) {
	h.Engine.ResetStats()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "statistics reset",
		"timestamp": time.Now().UnixMilli(),
	})
}

// HandleConfig GET /api/config
func (h *HTTPHandlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Cfg.Snapshot())
}

// HandleHealth GET /health
func (h *HTTPHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"uptimeSeconds": int64(time.Since(h.StartedAt).Seconds()),
		"memory": map[string]any{
			"allocBytes": m.Alloc,
			"sysBytes":   m.Sys,
			"numGC":      m.NumGC,
		},
		"config": map[string]any{
			"evictionPolicy": h.Cfg.EvictionPolicy,
			"maxMemoryMB":    h.Cfg.MaxMemoryMB,
			"maxKeys":        h.Cfg.MaxKeys,
		},
	})
}

// HandleHealthDetailed GET /health/detailed
func (h *HTTPHandlers) HandleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	system := map[string]any{
		"goVersion":  runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
		"numCPU":     runtime.NumCPU(),
		"platform":   runtime.GOOS + "/" + runtime.GOARCH,
	}

	// Số liệu host là best-effort; lỗi đọc không làm fail health check.
	if vm, err := mem.VirtualMemory(); err == nil {
		system["hostMemory"] = map[string]any{
			"totalBytes":  vm.Total,
			"usedPercent": vm.UsedPercent,
		}
	}
	if counts, err := cpu.Counts(true); err == nil {
		system["logicalCores"] = counts
	}
	if uptime, err := host.Uptime(); err == nil {
		system["hostUptimeSeconds"] = uptime
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"uptimeSeconds": int64(time.Since(h.StartedAt).Seconds()),
		"memory": map[string]any{
			"allocBytes": m.Alloc,
			"sysBytes":   m.Sys,
			"numGC":      m.NumGC,
		},
		"config": h.Cfg.Snapshot(),
		"cache":  h.Engine.Stats(),
		"system": system,
	})
}

// HandleNotFound trả 404 JSON cho route lạ.
func (h *HTTPHandlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error": "route not found",
		"path":  r.URL.Path,
	})
}
