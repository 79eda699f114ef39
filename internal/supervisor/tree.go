// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Policy is the restart policy shared by every supervisor in the tree.
// Zero fields take DefaultPolicy's values.
type Policy struct {
	// Threshold is the failure count that triggers Backoff.
	Threshold float64
	// Decay is how long one failure takes to be forgotten.
	Decay   time.Duration
	Backoff time.Duration
	// Timeout bounds how long a stopping service may take.
	Timeout time.Duration
}

// DefaultPolicy mirrors suture's own defaults.
func DefaultPolicy() Policy {
	return Policy{
		Threshold: 5,
		Decay:     30 * time.Second,
		Backoff:   15 * time.Second,
		Timeout:   10 * time.Second,
	}
}

func (p Policy) spec() suture.Spec {
	d := DefaultPolicy()
	if p.Threshold <= 0 {
		p.Threshold = d.Threshold
	}
	if p.Decay <= 0 {
		p.Decay = d.Decay
	}
	if p.Backoff <= 0 {
		p.Backoff = d.Backoff
	}
	if p.Timeout <= 0 {
		p.Timeout = d.Timeout
	}
	return suture.Spec{
		FailureThreshold: p.Threshold,
		FailureDecay:     p.Decay.Seconds(),
		FailureBackoff:   p.Backoff,
		Timeout:          p.Timeout,
	}
}

// Tree is the root supervisor with a data layer (artifact reloading) and an
// API layer (HTTP). Layers restart independently, so a crashing reloader
// leaves the server answering from the index it already holds.
type Tree struct {
	root *suture.Supervisor
	data *suture.Supervisor
	api  *suture.Supervisor
	spec suture.Spec
}

// New builds the tree. Supervisor events go to logger via sutureslog.
func New(logger *slog.Logger, p Policy) *Tree {
	spec := p.spec()

	rootSpec := spec
	hook := &sutureslog.Handler{Logger: logger}
	rootSpec.EventHook = hook.MustHook()

	t := &Tree{
		root: suture.New("shelfwise", rootSpec),
		// Children report through the root's hook.
		data: suture.New("data-layer", spec),
		api:  suture.New("api-layer", spec),
		spec: spec,
	}
	t.root.Add(t.data)
	t.root.Add(t.api)
	return t
}

// AddDataService supervises svc in the data layer.
func (t *Tree) AddDataService(svc suture.Service) suture.ServiceToken {
	return t.data.Add(svc)
}

// AddAPIService supervises svc in the API layer.
func (t *Tree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// ServeBackground runs the tree until ctx ends; the channel yields the
// result and is then closed.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that outlived Policy.Timeout.
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
