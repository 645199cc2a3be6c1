package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sevigo/srcfix/internal/core"
)

// ExactText replaces literal occurrences of Locator (and its Variants) with
// Replacement.
//
// Occurrences of a locator that sit inside an occurrence of the replacement are
// not live: they are what a previous run produced. This keeps a replacement that
// embeds its locator idempotent, and still lets a locator that merely starts with
// its replacement ("Exit DraStic-trngaje" -> "Exit DraStic") be applied.
type ExactText struct {
	Locator     string
	Variants    []string
	Replacement string
	// Limit is the largest number of live occurrences the rule accepts; more is
	// treated as ambiguous. Zero means every occurrence is replaced.
	Limit int
}

// Once is an ExactText that expects its locator exactly once.
func Once(locator, replacement string) ExactText {
	return ExactText{Locator: locator, Replacement: replacement, Limit: 1}
}

// Everywhere is an ExactText that replaces every occurrence.
func Everywhere(locator, replacement string, variants ...string) ExactText {
	return ExactText{Locator: locator, Variants: variants, Replacement: replacement}
}

func (t ExactText) Strategy() core.Strategy { return core.StrategyExact }

type hit struct {
	pos, n int
}

func (t ExactText) liveHits(corpus string) []hit {
	done := occurrences(corpus, t.Replacement)
	var hits []hit
	for _, loc := range append([]string{t.Locator}, t.Variants...) {
		for _, p := range occurrences(corpus, loc) {
			if coveredBy(p, len(loc), done, len(t.Replacement)) {
				continue
			}
			hits = append(hits, hit{pos: p, n: len(loc)})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	// drop hits overlapping an earlier one (a variant can share text with the locator)
	out := hits[:0]
	end := -1
	for _, h := range hits {
		if h.pos < end {
			continue
		}
		out = append(out, h)
		end = h.pos + h.n
	}
	return out
}

func (t ExactText) Attempt(corpus string) core.Attempt {
	hits := t.liveHits(corpus)
	if len(hits) == 0 {
		if strings.Contains(corpus, t.Replacement) {
			return core.Attempt{Decision: core.DecisionAlreadyApplied, Detail: "replacement already present"}
		}
		return core.Attempt{Decision: core.DecisionPass, Detail: "locator not found"}
	}
	if t.Limit > 0 && len(hits) > t.Limit {
		return core.Attempt{
			Decision: core.DecisionAmbiguous,
			Count:    len(hits),
			Detail:   fmt.Sprintf("locator found %d times, expected at most %d", len(hits), t.Limit),
		}
	}

	var b strings.Builder
	b.Grow(len(corpus) + len(hits)*(len(t.Replacement)))
	last := 0
	first := core.Span{Start: -1}
	for _, h := range hits {
		b.WriteString(corpus[last:h.pos])
		if first.Start < 0 {
			first.Start = b.Len()
			first.End = first.Start + len(t.Replacement)
		}
		b.WriteString(t.Replacement)
		last = h.pos + h.n
	}
	b.WriteString(corpus[last:])

	return core.Attempt{
		Decision: core.DecisionMatched,
		Corpus:   b.String(),
		Span:     first,
		Count:    len(hits),
		Detail:   occurrenceLabel(len(hits)),
	}
}

func occurrenceLabel(n int) string {
	if n == 1 {
		return "1 occurrence"
	}
	return fmt.Sprintf("%d occurrences", n)
}
