// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"context"
	"net/http"
	"time"
)

// storePingTimeout bounds the readiness check of the user data store.
const storePingTimeout = 2 * time.Second

// HealthStatus is the body of the health endpoints.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version,omitempty"`
	UptimeSeconds float64 `json:"uptime_seconds"`

	IndexLoaded  bool   `json:"index_loaded"`
	IndexVersion string `json:"index_version,omitempty"`
	IndexBooks   int    `json:"index_books,omitempty"`
	HasMatrix    bool   `json:"has_matrix"`

	StoreBackend   string `json:"store_backend,omitempty"`
	StoreConnected bool   `json:"store_connected"`
}

// HealthLive handles GET /health/live.
//
// @Summary Liveness probe
// @Description Reports that the process is serving HTTP.
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus} "Alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, HealthStatus{
		Status:        "alive",
		Version:       h.config.Version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		IndexLoaded:   h.holder.Ready(),
	})
}

// HealthReady handles GET /health/ready.
//
// @Summary Readiness probe
// @Description Ready once a similarity index is loaded. A failing user data store degrades the status but does not fail readiness, since ranking works without it.
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus} "Ready"
// @Failure 503 {object} APIResponse "No index loaded"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := HealthStatus{
		Status:        "ready",
		Version:       h.config.Version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	ix := h.holder.Current()
	if ix == nil {
		rw.ServiceUnavailable("Similarity index not loaded")
		return
	}
	status.IndexLoaded = true
	status.IndexVersion = ix.Version()
	status.IndexBooks = ix.Len()
	status.HasMatrix = ix.HasMatrix()

	if h.store != nil {
		status.StoreBackend = h.store.Backend()
		ctx, cancel := context.WithTimeout(r.Context(), storePingTimeout)
		status.StoreConnected = h.store.Ping(ctx) == nil
		cancel()
		if !status.StoreConnected {
			status.Status = "degraded"
		}
	}

	rw.Success(status)
}
