// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package validation

import (
	"strings"
	"testing"
)

type testRequest struct {
	UserID  int      `json:"user_id" validate:"gte=0"`
	Query   string   `json:"query" validate:"notblank,max=10"`
	Profile string   `json:"profile" validate:"omitempty,profilename"`
	Books   []string `json:"books" validate:"max=3,dive,max=5"`
	Limit   int      `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Mode    string   `json:"mode" validate:"omitempty,oneof=fast slow"`
	NoJSON  int      `validate:"lte=5"`
}

func validRequest() testRequest {
	return testRequest{Query: "dune"}
}

func TestValidator_Shared(t *testing.T) {
	t.Parallel()
	if Validator() != Validator() {
		t.Error("Validator() built a second instance")
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modify    func(*testRequest)
		wantField string
		wantMsg   string
	}{
		{"valid", func(*testRequest) {}, "", ""},
		{"valid full", func(r *testRequest) {
			r.Profile = "survey_v2"
			r.Books = []string{"a", "b"}
			r.Limit = 100
			r.Mode = "fast"
		}, "", ""},
		{"blank query", func(r *testRequest) { r.Query = "   " }, "query", "query must not be blank"},
		{"long query", func(r *testRequest) { r.Query = strings.Repeat("x", 11) }, "query", "query must be at most 10 characters"},
		{"negative user", func(r *testRequest) { r.UserID = -1 }, "user_id", "user_id must be greater than or equal to 0"},
		{"bad profile", func(r *testRequest) { r.Profile = "Survey!" }, "profile", "profile must be a lower-case profile name"},
		{"too many books", func(r *testRequest) { r.Books = []string{"a", "b", "c", "d"} }, "books", "books must be at most 3 items"},
		{"long book", func(r *testRequest) { r.Books = []string{"ok", "toolong"} }, "books[1]", "books[1] must be at most 5 characters"},
		{"limit", func(r *testRequest) { r.Limit = 101 }, "limit", "limit must be at most 100"},
		{"oneof", func(r *testRequest) { r.Mode = "medium" }, "mode", "mode must be one of: fast slow"},
		{"go name", func(r *testRequest) { r.NoJSON = 6 }, "NoJSON", "NoJSON must be less than or equal to 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := validRequest()
			tt.modify(&req)

			errs := Check(&req)
			if tt.wantField == "" {
				if errs != nil {
					t.Fatalf("Check() = %v, want nil", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.wantField)
			}
			if errs[0].Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", errs[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestErrors_Error(t *testing.T) {
	t.Parallel()
	req := testRequest{Query: "", UserID: -5}
	errs := Check(&req)
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
	if got := errs.Error(); !strings.Contains(got, "; ") {
		t.Errorf("Error() = %q, want joined messages", got)
	}
	if errs[0].Rule == "" {
		t.Errorf("rule missing from %+v", errs[0])
	}
}
