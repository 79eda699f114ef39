// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/validation"
)

// APIResponse is the envelope of every /api/v1 and /health response.
// Exactly one of Data and Error is set.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *APIMeta  `json:"meta,omitempty"`
}

// APIError is the error half of the envelope.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// APIMeta carries the request ID and server-side duration.
type APIMeta struct {
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"duration_ms"`
}

// Machine-readable error codes.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeValidationFailed   = "VALIDATION_ERROR"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeRequestTooLarge    = "REQUEST_TOO_LARGE"
)

// statusCodes is the default error code of a status.
var statusCodes = map[int]string{
	http.StatusBadRequest:            ErrCodeBadRequest,
	http.StatusUnauthorized:          ErrCodeUnauthorized,
	http.StatusForbidden:             ErrCodeForbidden,
	http.StatusNotFound:              ErrCodeNotFound,
	http.StatusRequestEntityTooLarge: ErrCodeRequestTooLarge,
	http.StatusTooManyRequests:       ErrCodeTooManyRequests,
	http.StatusInternalServerError:   ErrCodeInternalError,
	http.StatusServiceUnavailable:    ErrCodeServiceUnavailable,
}

// ResponseWriter writes envelopes for one request. Create it at the top of
// the handler so DurationMs covers the handler's work.
type ResponseWriter struct {
	w     http.ResponseWriter
	r     *http.Request
	start time.Time
}

// NewResponseWriter starts timing a response.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r, start: time.Now()}
}

// Success writes 200 with data.
func (rw *ResponseWriter) Success(data any) {
	rw.send(http.StatusOK, APIResponse{Success: true, Data: data})
}

// Error writes an error envelope.
func (rw *ResponseWriter) Error(status int, code, message string) {
	rw.ErrorWithDetails(status, code, message, nil)
}

// ErrorWithDetails writes an error envelope with a details object.
func (rw *ResponseWriter) ErrorWithDetails(status int, code, message string, details any) {
	rw.send(status, APIResponse{Error: &APIError{Code: code, Message: message, Details: details}})
}

func (rw *ResponseWriter) fail(status int, message string) {
	rw.Error(status, statusCodes[status], message)
}

// BadRequest writes 400.
func (rw *ResponseWriter) BadRequest(message string) { rw.fail(http.StatusBadRequest, message) }

// NotFound writes 404.
func (rw *ResponseWriter) NotFound(message string) { rw.fail(http.StatusNotFound, message) }

// TooManyRequests writes 429.
func (rw *ResponseWriter) TooManyRequests(message string) {
	rw.fail(http.StatusTooManyRequests, message)
}

// InternalError writes 500.
func (rw *ResponseWriter) InternalError(message string) {
	rw.fail(http.StatusInternalServerError, message)
}

// ServiceUnavailable writes 503.
func (rw *ResponseWriter) ServiceUnavailable(message string) {
	rw.fail(http.StatusServiceUnavailable, message)
}

// ValidationError writes 400 listing every failed field.
func (rw *ResponseWriter) ValidationError(errs validation.Errors) {
	msg := "Validation failed"
	if len(errs) > 0 {
		msg = errs.Error()
	}
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, msg, map[string]any{"fields": errs})
}

// DatabaseError logs err and writes a generic 500; store errors never reach
// the client.
func (rw *ResponseWriter) DatabaseError(err error) {
	logging.Ctx(rw.r.Context()).Error().Err(err).Msg("User data store failed")
	rw.Error(http.StatusInternalServerError, ErrCodeDatabaseError, "A database error occurred")
}

func (rw *ResponseWriter) send(status int, body APIResponse) {
	body.Meta = &APIMeta{
		RequestID:  logging.RequestIDFromContext(rw.r.Context()),
		Timestamp:  time.Now().UTC(),
		DurationMs: time.Since(rw.start).Milliseconds(),
	}
	if body.Error != nil {
		body.Error.RequestID = body.Meta.RequestID
	}

	data, err := json.Marshal(body)
	if err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Failed to encode response")
		status = http.StatusInternalServerError
		data = []byte(`{"success":false,"error":{"code":"INTERNAL_ERROR","message":"Response encoding failed"}}`)
	}
	data = append(data, '\n')

	h := rw.w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(len(data)))
	rw.w.WriteHeader(status)
	rw.w.Write(data) //nolint:errcheck // client went away
}

// WriteSuccess writes a 200 envelope.
func WriteSuccess(w http.ResponseWriter, r *http.Request, data any) {
	NewResponseWriter(w, r).Success(data)
}

// WriteError matches auth.ErrorWriter so the auth and authz middleware
// answer with the same envelope.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	NewResponseWriter(w, r).Error(status, code, message)
}
