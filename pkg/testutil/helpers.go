// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/shelter-proposal/internal/config"
	"github.com/iwvelando/shelter-proposal/internal/recompute"
	"github.com/iwvelando/shelter-proposal/pkg/adapters"
)

// DefaultModel builds the model of the embedded default proposal.
func DefaultModel(tb testing.TB) recompute.Model {
	tb.Helper()
	model, err := adapters.ModelFromConfig(config.Default())
	if err != nil {
		tb.Fatalf("ModelFromConfig() error = %v", err)
	}
	return model
}

// FindField finds an input field by key in the fields slice.
// Returns a pointer to the field if found, nil otherwise.
func FindField(fields []recompute.Field, key string) *recompute.Field {
	for i := range fields {
		if fields[i].Key() == key {
			return &fields[i]
		}
	}
	return nil
}

// MustField is FindField on the model's inputs, failing the test when the key is unknown.
func MustField(tb testing.TB, model recompute.Model, key string) recompute.Field {
	tb.Helper()
	f := FindField(model.Fields(), key)
	if f == nil {
		tb.Fatalf("no field %q", key)
		return recompute.Field{}
	}
	return *f
}

// Run recomputes the model after letting mutate adjust its default snapshot.
// A nil mutate runs the defaults.
func Run(tb testing.TB, model recompute.Model, mutate func(recompute.Snapshot) recompute.Snapshot) recompute.Derived {
	tb.Helper()
	snapshot := model.DefaultSnapshot()
	if mutate != nil {
		snapshot = mutate(snapshot)
	}
	derived, err := recompute.Run(nil, model, snapshot)
	if err != nil {
		tb.Fatalf("Run() error = %v", err)
	}
	return derived
}
