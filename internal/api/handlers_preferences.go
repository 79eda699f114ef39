// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/shelfwise/internal/auth"
	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/validation"
)

// callerID returns the authenticated user ID, writing 401 when absent.
func callerID(rw *ResponseWriter, r *http.Request) (int, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok || claims.UserID <= 0 {
		rw.Error(http.StatusUnauthorized, ErrCodeUnauthorized, "Authenticated user required")
		return 0, false
	}
	return claims.UserID, true
}

// GetPreferences handles GET /api/v1/preferences.
//
// @Summary Get the caller's preferences
// @Description Returns the stored preferred books, authors and genres of the authenticated user. Users with nothing saved get empty lists.
// @Tags Preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=recommend.Preferences} "Stored preferences"
// @Failure 401 {object} APIResponse "Missing or invalid token"
// @Failure 503 {object} APIResponse "User data store unavailable"
// @Router /api/v1/preferences [get]
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.store == nil {
		rw.ServiceUnavailable("User data store is disabled")
		return
	}
	userID, ok := callerID(rw, r)
	if !ok {
		return
	}

	prefs, err := h.store.GetPreferences(r.Context(), userID)
	if errors.Is(err, database.ErrNotFound) {
		rw.Success(&recommend.Preferences{
			UserID:  userID,
			Books:   []recommend.ItemRef{},
			Authors: recommend.Terms{},
			Genres:  recommend.Terms{},
		})
		return
	}
	if err != nil {
		writeStoreError(rw, err)
		return
	}
	rw.Success(prefs)
}

// PutPreferences handles PUT /api/v1/preferences.
//
// @Summary Save the caller's preferences
// @Description Replaces the preferred books, authors and genres of the authenticated user. Omitted lists are stored empty.
// @Tags Preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PreferencesRequest true "Preferences"
// @Success 200 {object} APIResponse{data=recommend.Preferences} "Saved preferences"
// @Failure 400 {object} APIResponse "Malformed body or invalid field"
// @Failure 401 {object} APIResponse "Missing or invalid token"
// @Failure 503 {object} APIResponse "User data store unavailable"
// @Router /api/v1/preferences [put]
func (h *Handler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.store == nil {
		rw.ServiceUnavailable("User data store is disabled")
		return
	}
	userID, ok := callerID(rw, r)
	if !ok {
		return
	}

	var body PreferencesRequest
	if err := decodeJSON(w, r, &body); err != nil && !errors.Is(err, errEmptyBody) {
		writeDecodeError(rw, err)
		return
	}
	if errs := validation.Check(&body); errs != nil {
		rw.ValidationError(errs)
		return
	}

	prefs := &recommend.Preferences{
		UserID:    userID,
		Books:     body.Books,
		Authors:   body.Authors,
		Genres:    body.Genres,
		UpdatedAt: time.Now().UTC(),
	}
	if prefs.Books == nil {
		prefs.Books = []recommend.ItemRef{}
	}
	if prefs.Authors == nil {
		prefs.Authors = recommend.Terms{}
	}
	if prefs.Genres == nil {
		prefs.Genres = recommend.Terms{}
	}

	if err := h.store.SavePreferences(r.Context(), prefs); err != nil {
		writeStoreError(rw, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int("user_id", userID).Msg("Preferences saved")
	rw.Success(prefs)
}
