// Package core defines the essential interfaces and data structures shared by the
// matcher, the fix catalog, the runner and the reporter. Concrete tiers live in the
// engine package; core only knows the contract every tier fulfils.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFix is returned for a malformed fix definition. It is a configuration
// error and must be reported before any file I/O happens.
var ErrInvalidFix = errors.New("invalid fix definition")

// Strategy enumerates the matching tiers in their fallback order.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyExact
	StrategyStructural
	StrategyLine
	StrategyExternal
)

func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "exact"
	case StrategyStructural:
		return "structural"
	case StrategyLine:
		return "line-heuristic"
	case StrategyExternal:
		return "external"
	default:
		return "none"
	}
}

// MarshalText lets strategies appear by name in JSON reports.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Decision is what a single tier concluded about the corpus.
type Decision int

const (
	// DecisionPass means the tier found none of its anchors; the next tier runs.
	DecisionPass Decision = iota
	// DecisionMatched means the tier rewrote the corpus.
	DecisionMatched
	// DecisionAlreadyApplied means the replacement is already in place.
	DecisionAlreadyApplied
	// DecisionAmbiguous means anchors were found but could not be bound safely.
	DecisionAmbiguous
)

// Span is a half-open byte range in a corpus.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Attempt is the result of running one tier against one corpus.
type Attempt struct {
	Decision Decision
	// Corpus holds the rewritten text when Decision is DecisionMatched.
	Corpus string
	// Span covers the first inserted region in Corpus.
	Span   Span
	Count  int
	Detail string
}

// Tier is one matching strategy of a rule. Attempt must not mutate anything and
// must return the corpus untouched unless it reports DecisionMatched.
type Tier interface {
	Strategy() Strategy
	Attempt(corpus string) Attempt
}

// PostCondition is a secondary literal edit anchored to text that exists only
// after its rule's primary rewrite succeeded. It is searched for in the updated
// corpus, starting at the region the primary rewrite inserted.
type PostCondition struct {
	Name        string
	Locator     string
	Replacement string
}

// Rule is an ordered chain of tiers tried until one is decisive.
type Rule struct {
	Name           string
	Tiers          []Tier
	PostConditions []PostCondition
}

// Validate checks that tiers are present and strictly ordered by strategy.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: rule without a name", ErrInvalidFix)
	}
	if len(r.Tiers) == 0 {
		return fmt.Errorf("%w: rule %q has no tiers", ErrInvalidFix, r.Name)
	}
	last := StrategyNone
	for i, t := range r.Tiers {
		if t == nil {
			return fmt.Errorf("%w: rule %q tier %d is nil", ErrInvalidFix, r.Name, i)
		}
		s := t.Strategy()
		if s <= last || s == StrategyExternal {
			return fmt.Errorf("%w: rule %q tier %d (%s) out of order after %s", ErrInvalidFix, r.Name, i, s, last)
		}
		last = s
	}
	for _, pc := range r.PostConditions {
		if pc.Locator == "" {
			return fmt.Errorf("%w: rule %q post-condition %q has an empty locator", ErrInvalidFix, r.Name, pc.Name)
		}
	}
	return nil
}

// PatchSpec describes a fix expressed as a unified diff handed to an external tool.
type PatchSpec struct {
	// File is the diff file name, resolved against the configured patch directory.
	File string
	// Strip is the -p level passed to the tool.
	Strip int
}

// Fix is a named bundle of rules, or a delegated diff. Exactly one of Rules and
// Patch is set.
type Fix struct {
	ID      string
	Summary string
	// Doc is markdown shown by `srcfix explain`.
	Doc string
	// Targets lists the base names of the source files the fix edits.
	Targets []string
	Rules   []Rule
	Patch   *PatchSpec
}

// TargetsFile reports whether the fix edits files named base.
func (f Fix) TargetsFile(base string) bool {
	for _, t := range f.Targets {
		if t == base {
			return true
		}
	}
	return false
}

// Delegated reports whether the fix is applied by the external patch tool.
func (f Fix) Delegated() bool {
	return f.Patch != nil
}

// Validate rejects definitions that cannot run.
func (f Fix) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("%w: fix without an id", ErrInvalidFix)
	}
	if f.Patch != nil {
		if len(f.Rules) > 0 {
			return fmt.Errorf("%w: fix %q has both rules and a patch", ErrInvalidFix, f.ID)
		}
		if strings.TrimSpace(f.Patch.File) == "" {
			return fmt.Errorf("%w: fix %q has an empty patch file name", ErrInvalidFix, f.ID)
		}
		return nil
	}
	if len(f.Rules) == 0 {
		return fmt.Errorf("%w: fix %q has an empty rule list", ErrInvalidFix, f.ID)
	}
	seen := make(map[string]struct{}, len(f.Rules))
	for _, r := range f.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("fix %q: %w", f.ID, err)
		}
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("%w: fix %q has duplicate rule %q", ErrInvalidFix, f.ID, r.Name)
		}
		seen[r.Name] = struct{}{}
	}
	return nil
}

// PatchRequest asks a delegate to apply one diff.
type PatchRequest struct {
	DiffPath string
	// WorkDir is the directory the diff's paths resolve from.
	WorkDir string
	Strip   int
	DryRun  bool
}

// PatchDelegate applies a unified diff with an external tool against the file on
// disk.
type PatchDelegate interface {
	Apply(ctx context.Context, req PatchRequest) Outcome
}
