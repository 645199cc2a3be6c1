package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/srcfix/internal/core"
)

func TestExactText_Attempt(t *testing.T) {
	tests := []struct {
		name         string
		tier         ExactText
		corpus       string
		wantDecision core.Decision
		wantCorpus   string
		wantCount    int
	}{
		{
			name:         "Single occurrence",
			tier:         Once("conn_id = res->connectors[1];", "conn_id = pick();"),
			corpus:       "a\nconn_id = res->connectors[1];\nb",
			wantDecision: core.DecisionMatched,
			wantCorpus:   "a\nconn_id = pick();\nb",
			wantCount:    1,
		},
		{
			name:         "Locator absent falls through",
			tier:         Once("foo();", "bar();"),
			corpus:       "baz();",
			wantDecision: core.DecisionPass,
		},
		{
			name:         "Replacement present is already applied",
			tier:         Once("foo();", "bar();"),
			corpus:       "bar();",
			wantDecision: core.DecisionAlreadyApplied,
		},
		{
			name:         "Replacement embedding its locator stays idempotent",
			tier:         Once(`#include "SDL_hints.h"`, "#include \"SDL_hints.h\"\n#include <fcntl.h>"),
			corpus:       "#include \"SDL_hints.h\"\n#include <fcntl.h>\n",
			wantDecision: core.DecisionAlreadyApplied,
		},
		{
			name:         "Replacement that prefixes its locator still applies",
			tier:         Everywhere("Exit DraStic-trngaje", "Exit DraStic"),
			corpus:       `"Exit DraStic-trngaje"`,
			wantDecision: core.DecisionMatched,
			wantCorpus:   `"Exit DraStic"`,
			wantCount:    1,
		},
		{
			name:         "Too many occurrences is ambiguous",
			tier:         Once("x = 1;", "x = 2;"),
			corpus:       "x = 1;\nx = 1;\n",
			wantDecision: core.DecisionAmbiguous,
			wantCount:    2,
		},
		{
			name:         "Everywhere counts every occurrence including variants",
			tier:         Everywhere("w - (N + w * 10 / 640)", "w - w * 90 / 640 - N", "w - (N + w  * 10 / 640)"),
			corpus:       "a = w - (N + w * 10 / 640);\nb = w - (N + w  * 10 / 640);\nc = w - (N + w * 10 / 640);",
			wantDecision: core.DecisionMatched,
			wantCorpus:   "a = w - w * 90 / 640 - N;\nb = w - w * 90 / 640 - N;\nc = w - w * 90 / 640 - N;",
			wantCount:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att := tt.tier.Attempt(tt.corpus)
			assert.Equal(t, tt.wantDecision, att.Decision, att.Detail)
			assert.Equal(t, tt.wantCount, att.Count)
			if tt.wantDecision == core.DecisionMatched {
				assert.Equal(t, tt.wantCorpus, att.Corpus)
			} else {
				assert.Empty(t, att.Corpus)
			}
		})
	}
}

func TestExactText_SpanCoversFirstReplacement(t *testing.T) {
	tier := Once("old", "brand new")
	att := tier.Attempt("prefix old suffix")

	assert.Equal(t, core.DecisionMatched, att.Decision)
	assert.Equal(t, "brand new", att.Corpus[att.Span.Start:att.Span.End])
}

func TestExactText_ReportsOccurrenceCount(t *testing.T) {
	tier := Everywhere("A", "B")
	att := tier.Attempt("A A")

	assert.Equal(t, "2 occurrences", att.Detail)
}
