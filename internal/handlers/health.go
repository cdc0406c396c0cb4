// internal/handlers/health.go
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/stockroomhq/stockroom-be/internal/core/ports"
	"github.com/stockroomhq/stockroom-be/internal/pkg/config"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db        ports.Database // nil for the in-memory backend
	config    *config.Config
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler. database is nil when the
// in-memory backend is active.
func NewHealthHandler(database ports.Database, cfg *config.Config, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:        database,
		config:    cfg,
		logger:    logger.With(slog.String("handler", "health")),
		startTime: time.Now(),
	}
}

// HealthStatus represents the health status of the application
type HealthStatus struct {
	Status      string                 `json:"status"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Backend     string                 `json:"backend"`
	Uptime      string                 `json:"uptime"`
	Timestamp   time.Time              `json:"timestamp"`
	Services    map[string]ServiceInfo `json:"services"`
	System      SystemInfo             `json:"system"`
}

// ServiceInfo represents the status of a service dependency
type ServiceInfo struct {
	Status       string                 `json:"status"`
	Message      string                 `json:"message,omitempty"`
	ResponseTime string                 `json:"response_time,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// SystemInfo represents system-level information
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	MemoryAllocMB uint64 `json:"memory_alloc_mb"`
	NumGC         uint32 `json:"num_gc"`
}

// Health handles the /health endpoint
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := HealthStatus{
		Status:      "healthy",
		Version:     h.config.App.Version,
		Environment: h.config.App.Environment,
		Backend:     h.config.Storage.Backend,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:   time.Now(),
		Services:    make(map[string]ServiceInfo),
		System:      h.getSystemInfo(),
	}

	if h.db != nil {
		dbStatus := h.checkDatabase(ctx)
		health.Services["database"] = dbStatus
		if dbStatus.Status != "healthy" {
			health.Status = "degraded"
		}
	}

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(health); err != nil {
		h.logger.Error("failed to encode health response",
			slog.String("error", err.Error()))
	}
}

// Readiness handles the /ready endpoint. The in-memory backend is always
// ready; the postgres backend is ready when the pool responds to a ping.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	ready := true
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			ready = false
			h.logger.WarnContext(ctx, "readiness check failed",
				slog.String("error", err.Error()))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) ServiceInfo {
	start := time.Now()
	details := h.db.Health(ctx)
	elapsed := time.Since(start)

	info := ServiceInfo{
		Status:       "healthy",
		ResponseTime: elapsed.String(),
		Details:      details,
	}

	if status, ok := details["status"].(string); ok && status != "healthy" {
		info.Status = "unhealthy"
		if msg, ok := details["error"].(string); ok {
			info.Message = msg
		}
	}

	return info
}

func (h *HealthHandler) getSystemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		MemoryAllocMB: m.Alloc / 1024 / 1024,
		NumGC:         m.NumGC,
	}
}
