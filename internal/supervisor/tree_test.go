// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestPolicy_Spec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		policy        Policy
		wantThreshold float64
		wantDecay     float64
		wantBackoff   time.Duration
		wantTimeout   time.Duration
	}{
		{
			name:          "zero takes defaults",
			wantThreshold: 5,
			wantDecay:     30,
			wantBackoff:   15 * time.Second,
			wantTimeout:   10 * time.Second,
		},
		{
			name:          "explicit values kept",
			policy:        Policy{Threshold: 2, Decay: 5 * time.Second, Backoff: time.Second, Timeout: 3 * time.Second},
			wantThreshold: 2,
			wantDecay:     5,
			wantBackoff:   time.Second,
			wantTimeout:   3 * time.Second,
		},
		{
			name:          "partial fills the gaps",
			policy:        Policy{Timeout: time.Second, Decay: 1500 * time.Millisecond},
			wantThreshold: 5,
			wantDecay:     1.5,
			wantBackoff:   15 * time.Second,
			wantTimeout:   time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			spec := New(quietLogger(), tt.policy).spec
			if spec.FailureThreshold != tt.wantThreshold || spec.FailureDecay != tt.wantDecay ||
				spec.FailureBackoff != tt.wantBackoff || spec.Timeout != tt.wantTimeout {
				t.Errorf("spec = %+v", spec)
			}
		})
	}
}

func TestTree_StartsEachLayer(t *testing.T) {
	t.Parallel()

	tree := New(quietLogger(), Policy{Timeout: time.Second})

	reloader := newMockService("artifact-reloader")
	server := newMockService("http-server")
	tree.AddDataService(reloader)
	tree.AddAPIService(server)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	if !waitFor(t, time.Second, func() bool { return reloader.startCount() > 0 && server.startCount() > 0 }) {
		t.Errorf("starts: reloader=%d server=%d, want both > 0", reloader.startCount(), server.startCount())
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop after cancel")
	}

	if reloader.startCount() != 1 || server.startCount() != 1 {
		t.Errorf("services restarted: reloader=%d server=%d", reloader.startCount(), server.startCount())
	}
}

func TestTree_RestartsFailingServiceInIsolation(t *testing.T) {
	t.Parallel()

	tree := New(quietLogger(), Policy{
		Threshold: 10,
		Backoff:   10 * time.Millisecond,
		Timeout:   time.Second,
	})

	flaky := newMockService("flaky-reloader")
	flaky.failTimes(2)
	stable := newMockService("http-server")

	tree.AddDataService(flaky)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	if !waitFor(t, time.Second, func() bool { return flaky.startCount() >= 3 }) {
		t.Errorf("flaky starts = %d, want >= 3", flaky.startCount())
	}
	if got := stable.startCount(); got != 1 {
		t.Errorf("stable starts = %d, want 1", got)
	}

	cancel()
	<-errCh
}
