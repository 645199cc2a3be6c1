package engine

import (
	"fmt"
	"strings"

	"github.com/sevigo/srcfix/internal/core"
)

// DefaultMaxLines bounds a window that does not set MaxLines.
const DefaultMaxLines = 16

// LineSub replaces Old with New on a single line of a window. With Token set, Old
// only matches where it is not part of a longer identifier or number.
type LineSub struct {
	Old   string
	New   string
	Token bool
}

// Window is a bounded run of lines after (or starting at) a trigger line.
type Window struct {
	Name           string
	Trigger        string
	IncludeTrigger bool
	// Sentinel ends the window on the first line containing it. When it does not
	// show up within MaxLines the window is rejected.
	Sentinel string
	MaxLines int
	Subs     []LineSub
	// Done is text whose presence anywhere in the corpus means the window's edit
	// was made by an earlier run, used when the trigger itself was rewritten.
	Done string
}

// LineHeuristic is the least precise tier: narrow literal substitutions inside
// windows of lines. A substitution is made only when its literal occurs exactly
// once in the window.
type LineHeuristic struct {
	Windows []Window
}

func (t LineHeuristic) Strategy() core.Strategy { return core.StrategyLine }

type windowResult struct {
	applied  int
	settled  bool
	reasons  []string
	firstRow int
}

func (t LineHeuristic) Attempt(corpus string) core.Attempt {
	lines := strings.Split(corpus, "\n")
	applied := 0
	settled := len(t.Windows) > 0
	firstRow := -1
	var reasons []string

	for _, w := range t.Windows {
		res := w.apply(lines, corpus)
		applied += res.applied
		// every window must be done for the tier to count as applied
		settled = settled && res.settled && len(res.reasons) == 0
		reasons = append(reasons, res.reasons...)
		if res.applied > 0 && (firstRow < 0 || res.firstRow < firstRow) {
			firstRow = res.firstRow
		}
	}

	if applied > 0 {
		updated := strings.Join(lines, "\n")
		start := rowOffset(lines, firstRow)
		return core.Attempt{
			Decision: core.DecisionMatched,
			Corpus:   updated,
			Span:     core.Span{Start: start, End: start + len(lines[firstRow])},
			Count:    applied,
			Detail:   fmt.Sprintf("%d line edit(s)", applied),
		}
	}
	if settled {
		return core.Attempt{Decision: core.DecisionAlreadyApplied, Detail: "line edits already present"}
	}
	return core.Attempt{Decision: core.DecisionPass, Detail: strings.Join(reasons, "; ")}
}

// apply edits lines in place and reports what happened.
func (w Window) apply(lines []string, corpus string) windowResult {
	res := windowResult{firstRow: -1}
	maxLines := w.MaxLines
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	triggered := false
	for i := 0; i < len(lines); i++ {
		if !strings.Contains(lines[i], w.Trigger) {
			continue
		}
		triggered = true
		from := i + 1
		if w.IncludeTrigger {
			from = i
		}
		to := min(from+maxLines, len(lines))
		if w.Sentinel != "" {
			end := -1
			for j := from; j < to; j++ {
				if strings.Contains(lines[j], w.Sentinel) {
					end = j + 1
					break
				}
			}
			if end < 0 {
				res.reasons = append(res.reasons, fmt.Sprintf("%s: sentinel %q not within %d lines of line %d", w.Name, w.Sentinel, maxLines, i+1))
				continue
			}
			to = end
		}

		n, settled, reasons := w.substitute(lines, from, to)
		res.reasons = append(res.reasons, reasons...)
		if n > 0 && (res.firstRow < 0 || from < res.firstRow) {
			res.firstRow = from
		}
		res.applied += n
		res.settled = res.settled || settled
		i = max(to-1, i)
	}

	if !triggered {
		if w.Done != "" && strings.Contains(corpus, w.Done) {
			res.settled = true
			return res
		}
		res.reasons = append(res.reasons, fmt.Sprintf("%s: trigger %q not found", w.Name, w.Trigger))
	}
	return res
}

// substitute applies the window's subs to lines[from:to]. settled is true when no
// sub had anything to do because every replacement is already there.
func (w Window) substitute(lines []string, from, to int) (int, bool, []string) {
	applied := 0
	pending := 0
	var reasons []string
	for _, sub := range w.Subs {
		row, col, count := -1, -1, 0
		for r := from; r < to; r++ {
			idx := findAll(lines[r], sub.Old, sub.Token)
			if len(idx) > 0 && row < 0 {
				row, col = r, idx[0]
			}
			count += len(idx)
		}
		switch {
		case count == 1:
			lines[row] = spliceLine(lines[row], col, sub)
			applied++
		case count > 1:
			pending++
			reasons = append(reasons, fmt.Sprintf("%s: %q occurs %d times in window, left alone", w.Name, sub.Old, count))
		default:
			head, _, _ := strings.Cut(sub.New, "\n")
			if !windowContains(lines[from:to], strings.TrimSpace(head)) {
				pending++
				reasons = append(reasons, fmt.Sprintf("%s: %q not in window", w.Name, sub.Old))
			}
		}
	}
	return applied, applied == 0 && pending == 0 && len(w.Subs) > 0, reasons
}

// spliceLine replaces the match at col; continuation lines of a multi-line New
// get the indentation of the edited line.
func spliceLine(line string, col int, sub LineSub) string {
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	repl := strings.ReplaceAll(sub.New, "\n", "\n"+indent)
	return line[:col] + repl + line[col+len(sub.Old):]
}

func findAll(line, old string, token bool) []int {
	var out []int
	for _, p := range occurrences(line, old) {
		if token && !isTokenBoundary(line, p, len(old)) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func isTokenBoundary(line string, pos, n int) bool {
	if pos > 0 && isIdentByte(line[pos-1]) {
		return false
	}
	if end := pos + n; end < len(line) && isIdentByte(line[end]) {
		return false
	}
	return true
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func windowContains(lines []string, s string) bool {
	if s == "" {
		return false
	}
	for _, l := range lines {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

func rowOffset(lines []string, row int) int {
	off := 0
	for _, l := range lines[:row] {
		off += len(l) + 1
	}
	return off
}
