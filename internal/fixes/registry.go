// Package fixes holds the catalog of named fixes srcfix knows how to apply.
package fixes

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sevigo/srcfix/internal/core"
)

// ErrUnknownFix is returned when a selection names a fix that is not registered.
var ErrUnknownFix = errors.New("unknown fix")

// Registry is an ordered, validated set of fixes. Order is application order.
type Registry struct {
	fixes []core.Fix
	index map[string]int
}

// NewRegistry validates every definition and rejects duplicate ids.
func NewRegistry(fixes ...core.Fix) (*Registry, error) {
	r := &Registry{index: make(map[string]int, len(fixes))}
	for _, f := range fixes {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.index[f.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate fix id %q", core.ErrInvalidFix, f.ID)
		}
		r.index[f.ID] = len(r.fixes)
		r.fixes = append(r.fixes, f)
	}
	return r, nil
}

// Default returns the built-in catalog. nextui comes after menu because its diff
// carries the menu edits as context.
func Default() (*Registry, error) {
	return NewRegistry(DRMInit(), Perf(), Menu(), NextUI(), DummyResolution())
}

// All returns the fixes in catalog order.
func (r *Registry) All() []core.Fix {
	out := make([]core.Fix, len(r.fixes))
	copy(out, r.fixes)
	return out
}

// Lookup returns the fix registered under id.
func (r *Registry) Lookup(id string) (core.Fix, error) {
	i, ok := r.index[id]
	if !ok {
		return core.Fix{}, fmt.Errorf("%w: %q", ErrUnknownFix, id)
	}
	return r.fixes[i], nil
}

// ForTarget returns the fixes that edit a file with the same base name as path.
func (r *Registry) ForTarget(path string) []core.Fix {
	base := filepath.Base(path)
	var out []core.Fix
	for _, f := range r.fixes {
		if f.TargetsFile(base) {
			out = append(out, f)
		}
	}
	return out
}

// Select narrows candidates to only (in catalog order) minus skip. Every id in
// only and skip must be registered.
func (r *Registry) Select(candidates []core.Fix, only, skip []string) ([]core.Fix, error) {
	for _, id := range append(append([]string{}, only...), skip...) {
		if _, ok := r.index[id]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFix, id)
		}
	}
	want := toSet(only)
	drop := toSet(skip)

	var out []core.Fix
	for _, f := range candidates {
		if len(want) > 0 {
			if _, ok := want[f.ID]; !ok {
				continue
			}
		}
		if _, ok := drop[f.ID]; ok {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
