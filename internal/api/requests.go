// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

// MaxBodyBytes bounds every JSON request body.
const MaxBodyBytes = 1 << 20

var (
	errEmptyBody       = errors.New("request body is required")
	errBodyTooLarge    = errors.New("request body too large")
	errMalformedBody   = errors.New("malformed JSON body")
	errInvalidIntParam = errors.New("must be an integer")
)

// RecommendationRequest is the body of POST /api/v1/recommendations.
// Elements of searches, authors and genres that are not strings decode as
// empty strings and are ignored by the pipeline.
type RecommendationRequest struct {
	UserID   int                 `json:"user_id,omitempty" validate:"gte=0"`
	Books    []recommend.ItemRef `json:"books" validate:"max=500,dive,max=512"`
	Searches recommend.Terms     `json:"searches" validate:"max=100,dive,max=255"`
	Authors  recommend.Terms     `json:"authors" validate:"max=100,dive,max=255"`
	Genres   recommend.Terms     `json:"genres" validate:"max=100,dive,max=255"`
	Profile  string              `json:"profile,omitempty" validate:"omitempty,profilename"`
	Limit    int                 `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

// ToRequest converts the body into an engine request.
//
//nolint:gocritic // hugeParam: value receiver keeps the DTO immutable
func (r RecommendationRequest) ToRequest(requestID string) recommend.Request {
	return recommend.Request{
		UserID:    r.UserID,
		Liked:     r.Books,
		Searches:  r.Searches,
		Authors:   r.Authors,
		Genres:    r.Genres,
		Profile:   r.Profile,
		Limit:     r.Limit,
		RequestID: requestID,
	}
}

// SearchLogRequest is the body of POST /api/v1/search/log.
type SearchLogRequest struct {
	UserID int    `json:"user_id" validate:"required,gt=0"`
	Query  string `json:"query" validate:"notblank,max=255"`
}

// PreferencesRequest is the body of PUT /api/v1/preferences.
type PreferencesRequest struct {
	Books   []recommend.ItemRef `json:"preferred_books" validate:"max=500,dive,max=512"`
	Authors recommend.Terms     `json:"preferred_authors" validate:"max=100,dive,max=255"`
	Genres  recommend.Terms     `json:"preferred_genres" validate:"max=100,dive,max=255"`
}

// BookSearchParams are the query parameters of GET /api/v1/books/search.
type BookSearchParams struct {
	Query  string `json:"q" validate:"notblank,max=255"`
	Limit  int    `json:"limit" validate:"min=0,max=100"`
	UserID int    `json:"user_id" validate:"gte=0"`
}

// UserRecommendationParams are the path and query parameters of
// GET /api/v1/recommendations/users/{userID}.
type UserRecommendationParams struct {
	UserID  int    `json:"userID" validate:"gt=0"`
	Profile string `json:"profile" validate:"omitempty,profilename"`
	Limit   int    `json:"limit" validate:"min=0,max=100"`
}

// decodeJSON reads a bounded body into dst. An empty body returns
// errEmptyBody and leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	return nil
}

// writeDecodeError maps a decodeJSON error to a response.
func writeDecodeError(rw *ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		rw.Error(http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge, "Request body too large")
		return
	}
	rw.BadRequest(err.Error())
}

// intParam parses an optional integer query parameter.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %w", name, errInvalidIntParam)
	}
	return v, nil
}
