// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/validation"
)

// ProfileInfo describes one ranking profile.
type ProfileInfo struct {
	Name     string             `json:"name"`
	Default  bool               `json:"default"`
	Settings *recommend.Profile `json:"settings"`
	Stats    recommend.Stats    `json:"stats"`
}

// ProfilesResponse lists the configured profiles.
type ProfilesResponse struct {
	Default  string        `json:"default"`
	Profiles []ProfileInfo `json:"profiles"`
}

// Recommend handles POST /api/v1/recommendations.
//
// @Summary Rank books for a request
// @Description Ranks the catalog for liked books, searches, authors and genres. With user_id, stored preferences and recent searches are merged behind the explicit input. Pipeline failures are served as the popular fallback list; the cause is reported in metadata.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body RecommendationRequest true "Ranking input"
// @Success 200 {object} APIResponse{data=recommend.Response} "Ranked books"
// @Failure 400 {object} APIResponse "Malformed body, invalid field or unknown profile"
// @Failure 413 {object} APIResponse "Body too large"
// @Router /api/v1/recommendations [post]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var body RecommendationRequest
	if err := decodeJSON(w, r, &body); err != nil && !errors.Is(err, errEmptyBody) {
		writeDecodeError(rw, err)
		return
	}
	if errs := validation.Check(&body); errs != nil {
		rw.ValidationError(errs)
		return
	}

	h.serveRecommendation(rw, r, body.ToRequest(logging.RequestIDFromContext(r.Context())))
}

// UserRecommendations handles GET /api/v1/recommendations/users/{userID}.
//
// @Summary Rank books from stored user data
// @Description Ranks the catalog from the stored preferences and recent searches of a user.
// @Tags Recommendations
// @Produce json
// @Param userID path int true "User ID"
// @Param profile query string false "Profile name"
// @Param limit query int false "Maximum results (1-100)"
// @Success 200 {object} APIResponse{data=recommend.Response} "Ranked books"
// @Failure 400 {object} APIResponse "Invalid user ID, limit or profile"
// @Router /api/v1/recommendations/users/{userID} [get]
func (h *Handler) UserRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, "userID must be an integer")
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}

	params := UserRecommendationParams{
		UserID:  userID,
		Profile: r.URL.Query().Get("profile"),
		Limit:   limit,
	}
	if errs := validation.Check(&params); errs != nil {
		rw.ValidationError(errs)
		return
	}

	h.serveRecommendation(rw, r, recommend.Request{
		UserID:    params.UserID,
		Profile:   params.Profile,
		Limit:     params.Limit,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
}

// serveRecommendation resolves the profile and runs the engine. The engine
// never fails, so every accepted request is answered with 200.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (h *Handler) serveRecommendation(rw *ResponseWriter, r *http.Request, req recommend.Request) {
	eng, err := h.engines.Get(req.Profile)
	if err != nil {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, err.Error(), map[string]interface{}{
			"field":     "profile",
			"available": h.engines.Names(),
		})
		return
	}

	ctx, cancel := h.rankingContext(r.Context())
	defer cancel()

	resp := eng.Recommend(ctx, req)

	logging.Ctx(r.Context()).Debug().
		Str("profile", resp.Metadata.Profile).
		Int("user_id", req.UserID).
		Int("items", len(resp.Items)).
		Bool("fallback", resp.Metadata.Fallback).
		Str("fallback_cause", resp.Metadata.FallbackCause).
		Msg("Recommendation served")

	rw.Success(resp)
}

// Profiles handles GET /api/v1/recommendations/profiles.
//
// @Summary List ranking profiles
// @Description Returns every configured profile with its effective settings and request counters.
// @Tags Recommendations
// @Produce json
// @Success 200 {object} APIResponse{data=ProfilesResponse} "Profiles"
// @Router /api/v1/recommendations/profiles [get]
func (h *Handler) Profiles(w http.ResponseWriter, r *http.Request) {
	out := ProfilesResponse{
		Default:  h.engines.DefaultName(),
		Profiles: make([]ProfileInfo, 0, len(h.engines.Names())),
	}
	h.engines.Each(func(eng *recommend.Engine) {
		out.Profiles = append(out.Profiles, ProfileInfo{
			Name:     eng.Name(),
			Default:  eng.Name() == out.Default,
			Settings: eng.Profile(),
			Stats:    eng.Stats(),
		})
	})
	WriteSuccess(w, r, out)
}
