package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/srcfix/internal/core"
)

func fix(id string, rules ...core.RuleResult) core.FixResult {
	return core.FixResult{FixID: id, Outcome: core.Aggregate(rules), Rules: rules}
}

func rule(name string, o core.Outcome) core.RuleResult {
	return core.RuleResult{Rule: name, Outcome: o}
}

func TestReport_Decision(t *testing.T) {
	applied := core.Applied(core.StrategyExact, 1, "1 occurrence")
	already := core.AlreadyApplied(core.StrategyExact, "")
	missing := core.NotFound("exact: locator not found")

	tests := []struct {
		name     string
		fixes    []core.FixResult
		want     Decision
		wantExit int
	}{
		{"All applied or already applied", []core.FixResult{fix("a", rule("r", applied)), fix("b", rule("r", already))}, DecisionSuccess, 0},
		{"Not found is partial", []core.FixResult{fix("a", rule("r1", applied), rule("r2", missing))}, DecisionPartial, 0},
		{"Tool failure fails", []core.FixResult{fix("a", rule("r", applied)), {FixID: "nextui", Outcome: core.ToolFailure(core.StrategyExternal, 1, "", "")}}, DecisionFailure, 1},
		{"Config error fails", []core.FixResult{{FixID: "nextui", Outcome: core.ConfigError("patch file missing")}}, DecisionFailure, 1},
		{
			"Missing post-condition anchor is partial",
			[]core.FixResult{fix("perf", core.RuleResult{Rule: "r", Outcome: applied, Post: []core.RuleResult{rule("close", missing)}})},
			DecisionPartial, 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New("drastic_video.c")
			for _, f := range tt.fixes {
				r.Add(f)
			}
			assert.Equal(t, tt.want, r.Decision())
			assert.Equal(t, tt.wantExit, r.ExitCode())
		})
	}
}

func TestReport_Summary(t *testing.T) {
	r := New("drastic_video.c")
	r.Add(fix("menu",
		rule("version-label", core.NotFound("")),
		rule("exit-label", core.Applied(core.StrategyExact, 1, "")),
		rule("screenshot-position", core.AlreadyApplied(core.StrategyExact, "")),
	))
	r.Add(core.FixResult{FixID: "nextui", Outcome: core.ToolFailure(core.StrategyExternal, 1, "", "")})
	r.Skipped = []string{"dummy-resolution"}

	s := r.Summary()
	assert.Equal(t, Summary{Applied: 1, AlreadyApplied: 1, NotFound: 1, Failed: 1, Skipped: 1}, s)
	assert.Equal(t, "1 applied, 1 already applied, 1 not found, 1 failed, 1 skipped, 0 warnings", s.String())
}

func TestReport_StartErrorFails(t *testing.T) {
	r := New("missing.c")
	r.Err = "target not found"
	assert.Equal(t, 1, r.ExitCode())
	assert.Equal(t, DecisionFailure, r.Decision())

	s := r.Summary()
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, "0 applied, 0 already applied, 0 not found, 1 failed, 0 skipped, 0 warnings", s.String())
}

func TestReport_WriteJSON(t *testing.T) {
	r := New("drastic_video.c")
	r.Add(fix("drm-init", rule("drm_init", core.Applied(core.StrategyStructural, 1, ""))))
	r.Finish()

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, r.RunID, got["run_id"])
	assert.Equal(t, "success", got["decision"])
	fixes := got["fixes"].([]any)
	outcome := fixes[0].(map[string]any)["outcome"].(map[string]any)
	assert.Equal(t, "structural", outcome["tier"])
	assert.Equal(t, "applied", outcome["status"])
}

func TestDigestAndRunID(t *testing.T) {
	assert.Equal(t, Digest("abc"), Digest("abc"))
	assert.NotEqual(t, Digest("abc"), Digest("abd"))
	assert.Len(t, Digest(""), 64)

	a, b := NewRunID(), NewRunID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}
