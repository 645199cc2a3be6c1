// Package engine implements the tiered matcher and the transformation applier.
// A rule's tiers form a chain of responsibility: each tier either decides
// (matched, already applied, ambiguous) or passes the corpus on unchanged.
package engine

import (
	"log/slog"
	"strings"

	"github.com/sevigo/srcfix/internal/core"
)

// Engine applies fix definitions to an in-memory corpus.
type Engine struct {
	logger *slog.Logger
}

// New returns an Engine that reports every tier decision on logger.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// With returns an Engine that reports on logger instead, so tier decisions carry
// the caller's attributes.
func (e *Engine) With(logger *slog.Logger) *Engine {
	if logger == nil {
		return e
	}
	return &Engine{logger: logger}
}

// ApplyFix threads corpus through every rule of fix in order and returns the
// updated corpus. Later rules see the edits of earlier ones.
func (e *Engine) ApplyFix(fix core.Fix, corpus string) (string, core.FixResult) {
	result := core.FixResult{FixID: fix.ID}
	if err := fix.Validate(); err != nil {
		result.Outcome = core.ConfigError(err.Error())
		e.logger.Error("fix definition rejected", "fix", fix.ID, "outcome", result.Outcome.Status, "error", err)
		return corpus, result
	}
	if fix.Delegated() {
		result.Outcome = core.ConfigError("delegated fix cannot run in-process")
		return corpus, result
	}

	for _, rule := range fix.Rules {
		var rr core.RuleResult
		corpus, rr = e.ApplyRule(fix.ID, rule, corpus)
		result.Rules = append(result.Rules, rr)
	}
	result.Outcome = core.Aggregate(result.Rules)
	return corpus, result
}

// ApplyRule runs the tier chain of one rule and, after a successful rewrite, its
// post-conditions against the updated corpus.
func (e *Engine) ApplyRule(fixID string, rule core.Rule, corpus string) (string, core.RuleResult) {
	log := e.logger.With("fix", fixID, "rule", rule.Name)
	rr := core.RuleResult{Rule: rule.Name}

	var reasons []string
	for _, tier := range rule.Tiers {
		strategy := tier.Strategy()
		att := tier.Attempt(corpus)

		switch att.Decision {
		case core.DecisionPass:
			reasons = append(reasons, strategy.String()+": "+att.Detail)
			log.Info("tier fallback", "tier", strategy, "reason", att.Detail)
			continue

		case core.DecisionAlreadyApplied:
			rr.Outcome = core.AlreadyApplied(strategy, att.Detail)
			log.Info("rule already applied", "tier", strategy, "outcome", rr.Outcome.Status)
			return corpus, rr

		case core.DecisionAmbiguous:
			rr.Outcome = core.ToolFailure(strategy, 0, "", att.Detail)
			log.Error("rule anchors ambiguous, corpus left untouched", "tier", strategy, "outcome", rr.Outcome.Status, "detail", att.Detail)
			return corpus, rr

		case core.DecisionMatched:
			rr.Outcome = core.Applied(strategy, att.Count, att.Detail)
			log.Info("rule applied", "tier", strategy, "outcome", rr.Outcome.Status, "detail", att.Detail)
			corpus = att.Corpus
			for _, pc := range rule.PostConditions {
				var post core.RuleResult
				corpus, post = e.applyPost(log, pc, corpus, att.Span.Start)
				rr.Post = append(rr.Post, post)
			}
			return corpus, rr
		}
	}

	rr.Outcome = core.NotFound(strings.Join(reasons, "; "))
	log.Warn("rule not found", "outcome", rr.Outcome.Status, "reason", rr.Outcome.Detail)
	return corpus, rr
}

// applyPost replaces the first occurrence of the post-condition's locator at or
// after from. A missing anchor keeps the primary edit and yields a warning.
func (e *Engine) applyPost(log *slog.Logger, pc core.PostCondition, corpus string, from int) (string, core.RuleResult) {
	res := core.RuleResult{Rule: pc.Name}
	from = max(0, min(from, len(corpus)))
	i := strings.Index(corpus[from:], pc.Locator)
	if i < 0 {
		res.Outcome = core.NotFound("post-condition anchor not found after primary edit")
		log.Warn("post-condition not found, primary edit kept", "post_condition", pc.Name, "outcome", res.Outcome.Status)
		return corpus, res
	}
	at := from + i
	corpus = corpus[:at] + pc.Replacement + corpus[at+len(pc.Locator):]
	res.Outcome = core.Applied(core.StrategyExact, 1, "1 occurrence")
	log.Info("post-condition applied", "post_condition", pc.Name, "outcome", res.Outcome.Status)
	return corpus, res
}
