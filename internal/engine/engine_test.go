package engine

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/srcfix/internal/core"
)

func quietEngine() *Engine {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func initFix() core.Fix {
	return core.Fix{
		ID: "init",
		Rules: []core.Rule{{
			Name: "init-body",
			Tiers: []core.Tier{
				Once("int init()\n{\n\told();\n\t// MARK\n}", newInit),
				Braces("int init()", "// MARK", newInit),
				LineHeuristic{Windows: []Window{{
					Name: "call", Trigger: "old();", IncludeTrigger: true, MaxLines: 1,
					Subs: []LineSub{{Old: "old();", New: "fresh();"}},
				}}},
			},
		}},
	}
}

func TestEngine_TierFallback(t *testing.T) {
	tests := []struct {
		name     string
		corpus   string
		wantTier core.Strategy
		want     core.Status
	}{
		{"Exact text", "int init()\n{\n\told();\n\t// MARK\n}\n", core.StrategyExact, core.StatusApplied},
		{"Drifted formatting falls back to structural", "int init() {\n    old();\n    // MARK\n}\n", core.StrategyStructural, core.StatusApplied},
		{"No block falls back to line heuristic", "#define X old();\n", core.StrategyLine, core.StatusApplied},
		{"Nothing matches", "unrelated\n", core.StrategyNone, core.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res := quietEngine().ApplyFix(initFix(), tt.corpus)
			require.Len(t, res.Rules, 1)
			assert.Equal(t, tt.want, res.Outcome.Status, res.Outcome.Detail)
			assert.Equal(t, tt.wantTier, res.Outcome.Tier)
		})
	}
}

func TestEngine_Idempotence(t *testing.T) {
	corpora := []string{
		"int init()\n{\n\told();\n\t// MARK\n}\n",
		"int init() {\n    old();\n    // MARK\n}\n",
	}
	for _, corpus := range corpora {
		e := quietEngine()
		once, first := e.ApplyFix(initFix(), corpus)
		require.Equal(t, core.StatusApplied, first.Outcome.Status)

		twice, second := e.ApplyFix(initFix(), once)
		assert.Equal(t, once, twice)
		for _, r := range second.Rules {
			assert.Equal(t, core.StatusAlreadyApplied, r.Outcome.Status)
		}
	}
}

func TestEngine_PostConditionAnchoredToUpdatedCorpus(t *testing.T) {
	fix := core.Fix{
		ID: "perf",
		Rules: []core.Rule{{
			Name:  "flip",
			Tiers: []core.Tier{Once("lock();\nswap();\n", "swap();\n{\nlock();\n")},
			PostConditions: []core.PostCondition{
				{Name: "close-scope", Locator: "done();\n", Replacement: "done();\n}\n"},
			},
		}},
	}

	t.Run("Anchor before the primary edit is not used", func(t *testing.T) {
		corpus := "done();\nlock();\nswap();\nwork();\ndone();\n"
		out, res := quietEngine().ApplyFix(fix, corpus)

		require.Len(t, res.Rules[0].Post, 1)
		assert.Equal(t, core.StatusApplied, res.Rules[0].Post[0].Outcome.Status)
		assert.Equal(t, "done();\nswap();\n{\nlock();\nwork();\ndone();\n}\n", out)
	})

	t.Run("Missing anchor keeps primary edit and warns", func(t *testing.T) {
		out, res := quietEngine().ApplyFix(fix, "lock();\nswap();\n")

		assert.Equal(t, "swap();\n{\nlock();\n", out)
		assert.Equal(t, core.StatusApplied, res.Outcome.Status)
		assert.Equal(t, 1, res.Rules[0].Warnings())
	})

	t.Run("Not attempted when the primary rule did not apply", func(t *testing.T) {
		corpus := "swap();\n{\nlock();\ndone();\n}\n"
		out, res := quietEngine().ApplyFix(fix, corpus)

		assert.Equal(t, corpus, out)
		assert.Equal(t, core.StatusAlreadyApplied, res.Outcome.Status)
		assert.Empty(t, res.Rules[0].Post)
	})
}

func TestEngine_AmbiguousLeavesCorpusUntouched(t *testing.T) {
	fix := core.Fix{ID: "amb", Rules: []core.Rule{{Name: "r", Tiers: []core.Tier{Once("x;", "y;")}}}}
	corpus := "x;\nx;\n"

	out, res := quietEngine().ApplyFix(fix, corpus)
	assert.Equal(t, corpus, out)
	assert.Equal(t, core.StatusToolFailure, res.Outcome.Status)
	assert.True(t, res.Outcome.Hard())
}

func TestEngine_InvalidFixIsConfigError(t *testing.T) {
	out, res := quietEngine().ApplyFix(core.Fix{ID: "empty"}, "text")
	assert.Equal(t, "text", out)
	assert.Equal(t, core.StatusConfigError, res.Outcome.Status)
}

func TestEngine_LogsTierDecisions(t *testing.T) {
	var buf bytes.Buffer
	e := New(slog.New(slog.NewTextHandler(&buf, nil)))

	e.ApplyFix(initFix(), "int init() {\n    old();\n    // MARK\n}\n")

	out := buf.String()
	assert.Contains(t, out, "msg=\"tier fallback\"")
	assert.Contains(t, out, "fix=init")
	assert.Contains(t, out, "rule=init-body")
	assert.Contains(t, out, "tier=structural")
	assert.Contains(t, out, "outcome=applied")
}
