// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/search"
	"github.com/tomtom215/shelfwise/internal/validation"
)

// BookSearchResponse is the result of a catalog search.
type BookSearchResponse struct {
	Query        string       `json:"query"`
	Hits         []search.Hit `json:"hits"`
	IndexVersion string       `json:"index_version,omitempty"`
}

// LogSearch handles POST /api/v1/search/log.
//
// @Summary Record a search query
// @Description Appends a query to the search history of a user. Recent searches boost later recommendations.
// @Tags Search
// @Accept json
// @Produce json
// @Param request body SearchLogRequest true "Search to record"
// @Success 200 {object} APIResponse "Search recorded"
// @Failure 400 {object} APIResponse "Missing user_id or blank query"
// @Failure 503 {object} APIResponse "User data store unavailable"
// @Router /api/v1/search/log [post]
func (h *Handler) LogSearch(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.store == nil {
		rw.ServiceUnavailable("User data store is disabled")
		return
	}

	var body SearchLogRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeDecodeError(rw, err)
		return
	}
	if errs := validation.Check(&body); errs != nil {
		rw.ValidationError(errs)
		return
	}

	if err := h.store.LogSearch(r.Context(), body.UserID, body.Query); err != nil {
		writeStoreError(rw, err)
		return
	}

	logging.Ctx(r.Context()).Debug().Int("user_id", body.UserID).Msg("Search logged")
	rw.Success(map[string]string{"message": "Logged successfully"})
}

// SearchBooks handles GET /api/v1/books/search.
//
// @Summary Search the catalog
// @Description Fuzzy title search over the loaded catalog. When user_id is given the query is also recorded in that user's search history.
// @Tags Search
// @Produce json
// @Param q query string true "Search text"
// @Param limit query int false "Maximum hits (1-100)"
// @Param user_id query int false "Record the query for this user"
// @Success 200 {object} APIResponse{data=BookSearchResponse} "Matching books"
// @Failure 400 {object} APIResponse "Missing or invalid parameters"
// @Failure 503 {object} APIResponse "Search disabled or index not built"
// @Router /api/v1/books/search [get]
func (h *Handler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.searcher == nil {
		rw.ServiceUnavailable("Catalog search is disabled")
		return
	}

	limit, err := intParam(r, "limit", 0)
	if err != nil {
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}
	userID, err := intParam(r, "user_id", 0)
	if err != nil {
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}
	params := BookSearchParams{
		Query:  r.URL.Query().Get("q"),
		Limit:  limit,
		UserID: userID,
	}
	if errs := validation.Check(&params); errs != nil {
		rw.ValidationError(errs)
		return
	}
	if params.Limit == 0 {
		params.Limit = h.config.SearchDefaultLimit
	}

	hits, err := h.searcher.Search(r.Context(), params.Query, params.Limit)
	if err != nil {
		if errors.Is(err, search.ErrNotReady) {
			rw.ServiceUnavailable("Catalog not loaded yet")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("Catalog search failed")
		rw.InternalError("Search failed")
		return
	}

	// History is best effort; the search result is still served.
	if params.UserID > 0 && h.store != nil {
		if err := h.store.LogSearch(r.Context(), params.UserID, params.Query); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Int("user_id", params.UserID).Msg("Failed to record search")
		}
	}

	resp := BookSearchResponse{Query: strings.TrimSpace(params.Query), Hits: hits}
	if ix := h.holder.Current(); ix != nil {
		resp.IndexVersion = ix.Version()
	}
	rw.Success(resp)
}

// writeStoreError maps store errors to responses.
func writeStoreError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrInvalidUser), errors.Is(err, database.ErrEmptyQuery):
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
	case errors.Is(err, database.ErrCircuitOpen):
		rw.ServiceUnavailable("User data store temporarily unavailable")
	default:
		rw.DatabaseError(err)
	}
}
