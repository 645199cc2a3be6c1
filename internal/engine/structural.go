package engine

import (
	"fmt"
	"strings"

	"github.com/sevigo/srcfix/internal/core"
)

// StructuralBlock replaces a delimiter-bounded block that starts at Start and
// whose body contains Marker. The Start anchor is whitespace tolerant, the end of
// the block is found by delimiter depth, so a block never extends into the next
// function even when that function repeats the start text.
type StructuralBlock struct {
	Start string
	// Marker must appear inside the block body. Empty accepts the first block.
	Marker      string
	Open, Close byte
	Replacement string
}

// Braces is a StructuralBlock bounded by { and }.
func Braces(start, marker, replacement string) StructuralBlock {
	return StructuralBlock{Start: start, Marker: marker, Open: '{', Close: '}', Replacement: replacement}
}

func (t StructuralBlock) Strategy() core.Strategy { return core.StrategyStructural }

func (t StructuralBlock) delims() (byte, byte) {
	if t.Open == 0 || t.Close == 0 {
		return '{', '}'
	}
	return t.Open, t.Close
}

func (t StructuralBlock) Attempt(corpus string) core.Attempt {
	if t.Replacement != "" && strings.Contains(corpus, t.Replacement) {
		return core.Attempt{Decision: core.DecisionAlreadyApplied, Detail: "replacement block already present"}
	}
	open, closing := t.delims()
	starts := anchorPattern(t.Start).FindAllStringIndex(corpus, -1)
	if len(starts) == 0 {
		return core.Attempt{Decision: core.DecisionPass, Detail: fmt.Sprintf("start anchor %q not found", t.Start)}
	}

	unclosed := 0
	for _, loc := range starts {
		openIdx := findOpen(corpus, loc[1], open)
		if openIdx < 0 {
			// declaration or call, not a definition
			continue
		}
		closeIdx := matchClose(corpus, openIdx, open, closing)
		if closeIdx < 0 {
			unclosed++
			continue
		}
		body := corpus[openIdx : closeIdx+1]
		if t.Marker != "" && !strings.Contains(body, t.Marker) {
			continue
		}
		updated := corpus[:loc[0]] + t.Replacement + corpus[closeIdx+1:]
		return core.Attempt{
			Decision: core.DecisionMatched,
			Corpus:   updated,
			Span:     core.Span{Start: loc[0], End: loc[0] + len(t.Replacement)},
			Count:    1,
			Detail:   fmt.Sprintf("replaced block at offset %d (%d bytes)", loc[0], closeIdx+1-loc[0]),
		}
	}
	if unclosed > 0 {
		return core.Attempt{
			Decision: core.DecisionAmbiguous,
			Detail:   fmt.Sprintf("start anchor %q found but its block never closes", t.Start),
		}
	}
	if t.Marker != "" {
		return core.Attempt{Decision: core.DecisionPass, Detail: fmt.Sprintf("no %q block contains %q", t.Start, t.Marker)}
	}
	return core.Attempt{Decision: core.DecisionPass, Detail: fmt.Sprintf("start anchor %q has no body", t.Start)}
}
