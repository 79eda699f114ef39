// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

var errMockFailure = errors.New("mock service failure")

// mockService counts starts and can fail a fixed number of times before
// blocking until its context ends.
type mockService struct {
	name      string
	starts    atomic.Int32
	failsLeft atomic.Int32
}

func newMockService(name string) *mockService {
	return &mockService{name: name}
}

func (m *mockService) failTimes(n int) {
	m.failsLeft.Store(int32(n))
}

func (m *mockService) Serve(ctx context.Context) error {
	m.starts.Add(1)
	if m.failsLeft.Load() > 0 {
		m.failsLeft.Add(-1)
		return errMockFailure
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) startCount() int {
	return int(m.starts.Load())
}

func (m *mockService) String() string {
	return m.name
}
