package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/sevigo/srcfix/internal/core"
	"github.com/sevigo/srcfix/internal/report"
)

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

func statusColor(s core.Status) *color.Color {
	switch s {
	case core.StatusApplied:
		return successColor
	case core.StatusAlreadyApplied:
		return dimColor
	case core.StatusNotFound:
		return warnColor
	default:
		return errorColor
	}
}

func printReport(w io.Writer, rep *report.Report) {
	titleColor.Fprintf(w, "srcfix %s\n", rep.Target)
	if rep.Revision != "" {
		dirty := ""
		switch {
		case rep.TargetModified:
			dirty = " (target modified)"
		case rep.Dirty:
			dirty = " (dirty)"
		}
		dimColor.Fprintf(w, "   revision %.12s%s\n", rep.Revision, dirty)
	}
	if rep.Err != "" {
		errorColor.Fprintf(w, "   %s\n", rep.Err)
	}

	for _, f := range rep.Fixes {
		c := statusColor(f.Outcome.Status)
		c.Fprintf(w, "   %-18s %-16s", f.FixID, f.Outcome.Status)
		dimColor.Fprintf(w, " %s\n", describe(f.Outcome))
		for _, r := range f.Rules {
			statusColor(r.Outcome.Status).Fprintf(w, "     - %-22s %s", r.Rule, r.Outcome.Status)
			dimColor.Fprintf(w, " %s\n", describe(r.Outcome))
			for _, p := range r.Post {
				statusColor(p.Outcome.Status).Fprintf(w, "         post %-16s %s\n", p.Rule, p.Outcome.Status)
			}
		}
		if f.Outcome.Stderr != "" {
			errorColor.Fprintf(w, "     %s\n", strings.TrimSpace(f.Outcome.Stderr))
		}
	}
	for _, id := range rep.Skipped {
		dimColor.Fprintf(w, "   %-18s skipped\n", id)
	}

	summary := rep.Summary()
	var verdict *color.Color
	switch rep.Decision() {
	case report.DecisionSuccess:
		verdict = successColor
	case report.DecisionPartial:
		verdict = warnColor
	default:
		verdict = errorColor
	}
	boldColor.Fprint(w, "   result: ")
	verdict.Fprintf(w, "%s", rep.Decision())
	fmt.Fprintf(w, " (%s)", summary)
	switch {
	case rep.DryRun:
		dimColor.Fprint(w, " dry run, nothing written\n")
	case rep.Written:
		dimColor.Fprint(w, " file updated\n")
	default:
		dimColor.Fprint(w, " file unchanged\n")
	}
}

func describe(o core.Outcome) string {
	var parts []string
	if o.Tier != core.StrategyNone {
		parts = append(parts, "["+o.Tier.String()+"]")
	}
	if o.Detail != "" {
		parts = append(parts, o.Detail)
	}
	if o.Status == core.StatusToolFailure && o.ExitCode != 0 {
		parts = append(parts, fmt.Sprintf("exit %d", o.ExitCode))
	}
	return strings.Join(parts, " ")
}

// emit prints the report and turns a failed run into errRunFailed.
func emit(rep *report.Report, asJSON bool) error {
	if asJSON {
		if err := rep.WriteJSON(os.Stdout); err != nil {
			return err
		}
	} else {
		printReport(os.Stdout, rep)
	}
	if rep.ExitCode() != 0 {
		return errRunFailed
	}
	return nil
}
