// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Engines holds one Engine per named profile. All engines share the same
// collaborators; only their parameters differ.
type Engines struct {
	byName      map[string]*Engine
	names       []string
	defaultName string
}

// NewEngines builds an engine for each profile. defaultName must be one of
// the profile names.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngines(profiles map[string]*Profile, defaultName string, logger zerolog.Logger) (*Engines, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("at least one profile is required")
	}
	if _, ok := profiles[defaultName]; !ok {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownProfile, defaultName)
	}

	set := &Engines{
		byName:      make(map[string]*Engine, len(profiles)),
		names:       ProfileNames(profiles),
		defaultName: defaultName,
	}
	for _, name := range set.names {
		p := profiles[name].Clone()
		p.Name = name
		eng, err := NewEngine(p, logger)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		set.byName[name] = eng
	}
	return set, nil
}

// Get returns the engine for name; empty selects the default profile.
func (s *Engines) Get(name string) (*Engine, error) {
	if name == "" {
		name = s.defaultName
	}
	eng, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return eng, nil
}

// Default returns the engine of the default profile.
func (s *Engines) Default() *Engine {
	return s.byName[s.defaultName]
}

// DefaultName returns the default profile name.
func (s *Engines) DefaultName() string {
	return s.defaultName
}

// Names returns the sorted profile names.
func (s *Engines) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Recommend routes req to the engine of req.Profile. An unknown profile is
// served by the default engine so the call still returns a list.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (s *Engines) Recommend(ctx context.Context, req Request) *Response {
	eng, err := s.Get(req.Profile)
	if err != nil {
		eng = s.Default()
	}
	return eng.Recommend(ctx, req)
}

// Each calls fn for every engine in name order.
func (s *Engines) Each(fn func(*Engine)) {
	for _, name := range s.names {
		fn(s.byName[name])
	}
}

// SetDataProvider sets dp on every engine.
func (s *Engines) SetDataProvider(dp DataProvider) {
	s.Each(func(e *Engine) { e.SetDataProvider(dp) })
}

// SetIndexProvider sets ip on every engine.
func (s *Engines) SetIndexProvider(ip IndexProvider) {
	s.Each(func(e *Engine) { e.SetIndexProvider(ip) })
}

// SetObserver sets o on every engine.
func (s *Engines) SetObserver(o Observer) {
	s.Each(func(e *Engine) { e.SetObserver(o) })
}

// SetSearchHistoryLimit sets n on every engine.
func (s *Engines) SetSearchHistoryLimit(n int) {
	s.Each(func(e *Engine) { e.SetSearchHistoryLimit(n) })
}
