// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors returned by the ranking stages.
var (
	// ErrArtifactsUnavailable means the similarity matrix or metadata table is missing.
	ErrArtifactsUnavailable = errors.New("similarity artifacts unavailable")

	// ErrNoCandidates means no book cleared the inclusion threshold.
	ErrNoCandidates = errors.New("no book cleared the inclusion threshold")

	// ErrMatrixShape means the similarity matrix does not match the metadata table.
	ErrMatrixShape = errors.New("similarity matrix shape does not match metadata")

	// ErrUnexpected wraps recovered panics.
	ErrUnexpected = errors.New("unexpected ranking failure")

	// ErrUnknownProfile is returned when a profile name is not registered.
	ErrUnknownProfile = errors.New("unknown recommendation profile")
)

// Stage identifies a step of the ranking pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageLoad    Stage = "load"
	StageProfile Stage = "profile"
	StageScore   Stage = "score"
	StageSearch  Stage = "search"
	StageRank    Stage = "rank"
	StageRerank  Stage = "rerank"
	StageFormat  Stage = "format"
)

// StageError records the stage a ranking failure happened in.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements error.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// Fallback causes reported in ResponseMetadata.FallbackCause and metrics.
const (
	CauseNone                 = ""
	CauseArtifactsUnavailable = "artifacts_unavailable"
	CauseNoCandidates         = "no_candidates"
	CauseCanceled             = "canceled"
	CauseUnexpected           = "unexpected"
)

// FallbackCause classifies err into one of the Cause constants.
func FallbackCause(err error) string {
	switch {
	case err == nil:
		return CauseNone
	case errors.Is(err, ErrArtifactsUnavailable), errors.Is(err, ErrMatrixShape):
		return CauseArtifactsUnavailable
	case errors.Is(err, ErrNoCandidates):
		return CauseNoCandidates
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CauseCanceled
	default:
		return CauseUnexpected
	}
}
