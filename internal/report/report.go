// Package report aggregates fix outcomes of a run into a summary, a run decision
// and a process exit code.
package report

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/zeebo/blake3"

	"github.com/sevigo/srcfix/internal/core"
)

// Decision is the verdict for a whole run.
type Decision string

const (
	DecisionSuccess Decision = "success"
	DecisionPartial Decision = "partial"
	DecisionFailure Decision = "failure"
)

// Report is everything a run did to one target.
type Report struct {
	RunID    string `json:"run_id"`
	Target   string `json:"target"`
	Revision string `json:"revision,omitempty"`
	Dirty    bool   `json:"dirty,omitempty"`
	// TargetModified is set when the target itself differed from HEAD before the run.
	TargetModified bool             `json:"target_modified,omitempty"`
	StartedAt      time.Time        `json:"started_at"`
	Duration       time.Duration    `json:"duration_ns"`
	DigestBefore   string           `json:"digest_before,omitempty"`
	DigestAfter    string           `json:"digest_after,omitempty"`
	Fixes          []core.FixResult `json:"fixes"`
	Skipped        []string         `json:"skipped,omitempty"`
	Written        bool             `json:"written"`
	DryRun         bool             `json:"dry_run"`
	// Err is the condition that stopped the run: an unreadable target or a failed write.
	Err string `json:"error,omitempty"`
}

// New starts a report with a fresh run id.
func New(target string) *Report {
	return &Report{
		RunID:     NewRunID(),
		Target:    target,
		StartedAt: time.Now(),
	}
}

// NewRunID returns a sortable unique run id.
func NewRunID() string {
	return ulid.Make().String()
}

// Digest returns the hex BLAKE3 digest of a corpus.
func Digest(corpus string) string {
	sum := blake3.Sum256([]byte(corpus))
	return hex.EncodeToString(sum[:])
}

// Add records the result of one fix.
func (r *Report) Add(res core.FixResult) {
	r.Fixes = append(r.Fixes, res)
}

// Finish stamps the duration.
func (r *Report) Finish() {
	r.Duration = time.Since(r.StartedAt)
}

// Summary counts rule outcomes. A delegated fix counts as one rule.
type Summary struct {
	Applied        int `json:"applied"`
	AlreadyApplied int `json:"already_applied"`
	NotFound       int `json:"not_found"`
	Failed         int `json:"failed"`
	Skipped        int `json:"skipped"`
	Warnings       int `json:"warnings"`
}

func (s Summary) String() string {
	return fmt.Sprintf("%d applied, %d already applied, %d not found, %d failed, %d skipped, %d warnings",
		s.Applied, s.AlreadyApplied, s.NotFound, s.Failed, s.Skipped, s.Warnings)
}

func (s *Summary) count(o core.Outcome) {
	switch o.Status {
	case core.StatusApplied:
		s.Applied++
	case core.StatusAlreadyApplied:
		s.AlreadyApplied++
	case core.StatusNotFound:
		s.NotFound++
	case core.StatusToolFailure, core.StatusConfigError:
		s.Failed++
	}
}

// Summary tallies the run.
func (r *Report) Summary() Summary {
	s := Summary{Skipped: len(r.Skipped)}
	for _, f := range r.Fixes {
		if len(f.Rules) == 0 {
			s.count(f.Outcome)
			continue
		}
		for _, rule := range f.Rules {
			s.count(rule.Outcome)
			s.Warnings += rule.Warnings()
		}
	}
	// a run that could not start or finish its write is one failure
	if r.Err != "" {
		s.Failed++
	}
	return s
}

// Decision is failure when any fix failed hard or the run could not start,
// partial when something was not found, success otherwise.
func (r *Report) Decision() Decision {
	if r.Err != "" {
		return DecisionFailure
	}
	partial := false
	for _, f := range r.Fixes {
		if f.Outcome.Hard() {
			return DecisionFailure
		}
		if f.Outcome.Status == core.StatusNotFound {
			partial = true
		}
		for _, rule := range f.Rules {
			if rule.Outcome.Status == core.StatusNotFound || rule.Warnings() > 0 {
				partial = true
			}
		}
	}
	if partial {
		return DecisionPartial
	}
	return DecisionSuccess
}

// ExitCode maps the decision to a process exit status. NotFound alone never
// fails a run.
func (r *Report) ExitCode() int {
	if r.Decision() == DecisionFailure {
		return 1
	}
	return 0
}

type jsonReport struct {
	*Report
	Decision Decision `json:"decision"`
	Summary  Summary  `json:"summary"`
}

// WriteJSON encodes the report with its decision and summary.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonReport{Report: r, Decision: r.Decision(), Summary: r.Summary()}); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
