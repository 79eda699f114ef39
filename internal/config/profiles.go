// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

// profileBaseKey names the built-in profile an override starts from.
const profileBaseKey = "base"

// ResolveProfiles returns the built-in profiles with the configured
// overrides applied. Each override is decoded onto a copy of its base
// profile, so only the fields it names change. Unknown fields are errors.
func (r RecommendConfig) ResolveProfiles() (map[string]*recommend.Profile, error) {
	profiles := recommend.BuiltinProfiles()

	for name, override := range r.Profiles {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("recommend.profiles: profile name must not be empty")
		}

		p, err := applyOverride(profiles, name, override)
		if err != nil {
			return nil, fmt.Errorf("recommend.profiles.%s: %w", name, err)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("recommend.profiles.%s: %w", name, err)
		}
		profiles[name] = p
	}

	return profiles, nil
}

func applyOverride(profiles map[string]*recommend.Profile, name string, override map[string]any) (*recommend.Profile, error) {
	fields := make(map[string]any, len(override))
	for k, v := range override {
		fields[strings.ToLower(k)] = v
	}

	var base *recommend.Profile
	if baseName, ok := fields[profileBaseKey]; ok {
		s, _ := baseName.(string)
		b, found := recommend.BuiltinProfiles()[s]
		if !found {
			return nil, fmt.Errorf("unknown base profile %v", baseName)
		}
		base = b
		delete(fields, profileBaseKey)
	} else if b, found := profiles[name]; found {
		base = b.Clone()
	} else {
		base = recommend.DefaultProfile()
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode override: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(base); err != nil {
		return nil, fmt.Errorf("decode override: %w", err)
	}
	base.Name = name
	return base, nil
}
