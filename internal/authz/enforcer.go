// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package authz

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
)

var (
	//go:embed model.conf
	rbacModel string

	//go:embed policy.csv
	defaultPolicy string
)

// Objects and actions guarded by the API.
const (
	ObjectPreferences = "preferences"
	ObjectArtifacts   = "artifacts"

	ActionRead   = "read"
	ActionWrite  = "write"
	ActionReload = "reload"
)

// Enforcer answers role-based permission checks.
type Enforcer struct {
	casbin *casbin.SyncedEnforcer
}

// NewEnforcer loads the RBAC policy from policyPath, or the built-in policy
// when policyPath is empty. The model is fixed.
func NewEnforcer(policyPath string) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("casbin model: %w", err)
	}

	var adapter persist.Adapter = stringadapter.NewAdapter(defaultPolicy)
	if policyPath != "" {
		if _, err := os.Stat(policyPath); err != nil {
			return nil, fmt.Errorf("casbin policy: %w", err)
		}
		adapter = fileadapter.NewAdapter(policyPath)
	}

	e, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}
	return &Enforcer{casbin: e}, nil
}

// Allowed reports whether subject, or failing that its role, may perform
// action on object. Subjects are "user:<id>" so policies can grant single
// users extra roles.
func (e *Enforcer) Allowed(subject, role, object, action string) (bool, error) {
	reqs := [][]interface{}{{subject, object, action}}
	if role != "" {
		reqs = append(reqs, []interface{}{role, object, action})
	}
	results, err := e.casbin.BatchEnforce(reqs)
	if err != nil {
		return false, fmt.Errorf("enforce %s %s: %w", action, object, err)
	}
	for _, ok := range results {
		if ok {
			return true, nil
		}
	}
	return false, nil
}
