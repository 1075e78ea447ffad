package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickgao/captainup-firehose/internal/connection"
	"github.com/rickgao/captainup-firehose/internal/version"
)

// supervisorView is the read-only part of the supervisor the ops server needs.
type supervisorView interface {
	Stats() connection.SupervisorStats
	Acknowledged() []string
}

type healthResponse struct {
	Status          string     `json:"status"`
	State           string     `json:"state"`
	SessionID       string     `json:"session_id,omitempty"`
	Connects        int64      `json:"connects"`
	ConnectFailures int64      `json:"connect_failures"`
	Frames          int64      `json:"frames"`
	Batches         int64      `json:"batches"`
	LastFrameAt     *time.Time `json:"last_frame_at,omitempty"`
	Version         string     `json:"version"`
}

type acksResponse struct {
	Count int      `json:"count"`
	IDs   []string `json:"ids"`
}

// newOpsHandler serves /health, the Prometheus endpoint and /debug/acks.
func newOpsHandler(sup supervisorView, gatherer prometheus.Gatherer, metricsPath string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		stats := sup.Stats()

		health := healthResponse{
			Status:          "healthy",
			State:           stats.State.String(),
			SessionID:       stats.SessionID,
			Connects:        stats.Connects,
			ConnectFailures: stats.ConnectFailures,
			Frames:          stats.Frames,
			Batches:         stats.Batches,
			Version:         version.Version,
		}
		if !stats.LastFrameAt.IsZero() {
			health.LastFrameAt = &stats.LastFrameAt
		}

		status := http.StatusOK
		if stats.State != connection.StateConnected {
			health.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, logger, status, health)
	})

	r.Get("/debug/acks", func(w http.ResponseWriter, r *http.Request) {
		ids := sup.Acknowledged()
		if ids == nil {
			ids = []string{}
		}
		writeJSON(w, logger, http.StatusOK, acksResponse{Count: len(ids), IDs: ids})
	})

	r.Handle(metricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("failed to write response", "error", err)
	}
}
