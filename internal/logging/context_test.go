// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	if len(a) != 36 || a == b {
		t.Errorf("request ids %q and %q", a, b)
	}
}

func TestRequestIDFromContext(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("empty context id = %q", got)
	}
	ctx := ContextWithRequestID(context.Background(), "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("request id = %q, want req-1", got)
	}
}

func TestCtx(t *testing.T) {
	tests := []struct {
		name      string
		requestID string
		want      string
		absent    string
	}{
		{name: "tagged", requestID: "req-42", want: `"request_id":"req-42"`},
		{name: "untagged", absent: `"request_id"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
			if tt.requestID != "" {
				ctx = ContextWithRequestID(ctx, tt.requestID)
			}

			Ctx(ctx).Info().Msg("hello")

			out := buf.String()
			if !strings.Contains(out, `"message":"hello"`) {
				t.Errorf("output %q missing message", out)
			}
			if tt.want != "" && !strings.Contains(out, tt.want) {
				t.Errorf("output %q missing %s", out, tt.want)
			}
			if tt.absent != "" && strings.Contains(out, tt.absent) {
				t.Errorf("output %q should not contain %s", out, tt.absent)
			}
		})
	}
}
