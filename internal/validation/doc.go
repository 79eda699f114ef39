// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package validation checks request structs with go-playground/validator.
//
// Fields are reported by their JSON names:
//
//	type SearchLogRequest struct {
//	    UserID int    `json:"user_id" validate:"required,gt=0"`
//	    Query  string `json:"query" validate:"notblank,max=255"`
//	}
//
//	if errs := validation.Check(&req); errs != nil {
//	    rw.ValidationError(errs)
//	    return
//	}
package validation
