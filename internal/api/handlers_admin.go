// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/shelfwise/internal/logging"
)

// ReloadResponse describes the index installed by a forced reload.
type ReloadResponse struct {
	Version   string    `json:"version"`
	Books     int       `json:"books"`
	HasMatrix bool      `json:"has_matrix"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// ReloadArtifacts handles POST /api/v1/admin/artifacts/reload.
//
// @Summary Reload similarity artifacts
// @Description Loads the metadata table and similarity matrix again and swaps them in atomically. On failure the previous index keeps serving. Reloads are throttled.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=ReloadResponse} "Installed index"
// @Failure 401 {object} APIResponse "Missing or invalid token"
// @Failure 403 {object} APIResponse "Caller may not reload artifacts"
// @Failure 429 {object} APIResponse "Reload throttled"
// @Failure 503 {object} APIResponse "Load failed; previous index kept"
// @Router /api/v1/admin/artifacts/reload [post]
func (h *Handler) ReloadArtifacts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	reservation := h.reloadLimiter.Reserve()
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		w.Header().Set("Retry-After", strconv.Itoa(int(delay.Seconds())+1))
		rw.TooManyRequests("Artifact reload throttled")
		return
	}

	ix, err := h.holder.Reload(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Forced artifact reload failed")
		rw.ServiceUnavailable("Artifact reload failed; previous index kept")
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("version", ix.Version()).
		Int("books", ix.Len()).
		Msg("Artifacts reloaded")

	rw.Success(ReloadResponse{
		Version:   ix.Version(),
		Books:     ix.Len(),
		HasMatrix: ix.HasMatrix(),
		LoadedAt:  ix.LoadedAt(),
	})
}
