package core

// Status is the outcome vocabulary shared by rule-based and delegated fixes.
type Status string

const (
	StatusApplied        Status = "applied"
	StatusAlreadyApplied Status = "already-applied"
	StatusNotFound       Status = "not-found"
	StatusToolFailure    Status = "tool-failure"
	StatusConfigError    Status = "config-error"
)

// Outcome is the classified result of a rule, a post-condition or a whole fix.
type Outcome struct {
	Status Status   `json:"status"`
	Tier   Strategy `json:"tier"`
	Detail string   `json:"detail,omitempty"`
	Count  int      `json:"count,omitempty"`
	// ExitCode and Stderr are set for ToolFailure outcomes of the delegate.
	ExitCode int    `json:"exit_code,omitempty"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
}

// Hard reports whether the outcome must fail the run.
func (o Outcome) Hard() bool {
	return o.Status == StatusToolFailure || o.Status == StatusConfigError
}

// OK reports whether the outcome counts as success.
func (o Outcome) OK() bool {
	return o.Status == StatusApplied || o.Status == StatusAlreadyApplied
}

func Applied(tier Strategy, count int, detail string) Outcome {
	return Outcome{Status: StatusApplied, Tier: tier, Count: count, Detail: detail}
}

func AlreadyApplied(tier Strategy, detail string) Outcome {
	return Outcome{Status: StatusAlreadyApplied, Tier: tier, Detail: detail}
}

func NotFound(reason string) Outcome {
	return Outcome{Status: StatusNotFound, Detail: reason}
}

func ToolFailure(tier Strategy, exitCode int, stderr, detail string) Outcome {
	return Outcome{Status: StatusToolFailure, Tier: tier, ExitCode: exitCode, Stderr: stderr, Detail: detail}
}

func ConfigError(detail string) Outcome {
	return Outcome{Status: StatusConfigError, Detail: detail}
}

// RuleResult records the outcome of one rule and of its post-conditions.
type RuleResult struct {
	Rule    string       `json:"rule"`
	Outcome Outcome      `json:"outcome"`
	Post    []RuleResult `json:"post_conditions,omitempty"`
}

// Warnings counts post-conditions that did not find their anchor.
func (r RuleResult) Warnings() int {
	n := 0
	for _, p := range r.Post {
		if p.Outcome.Status == StatusNotFound {
			n++
		}
	}
	return n
}

// FixResult is what one fix did to the corpus.
type FixResult struct {
	FixID   string       `json:"fix"`
	Outcome Outcome      `json:"outcome"`
	Rules   []RuleResult `json:"rules"`
}

// Changed reports whether any rule of the fix rewrote the corpus.
func (f FixResult) Changed() bool {
	for _, r := range f.Rules {
		if r.Outcome.Status == StatusApplied {
			return true
		}
	}
	return false
}

// Aggregate folds rule outcomes into the fix outcome: a hard failure dominates,
// otherwise the first rule that is not NotFound decides, otherwise NotFound.
func Aggregate(rules []RuleResult) Outcome {
	for _, r := range rules {
		if r.Outcome.Hard() {
			return r.Outcome
		}
	}
	for _, r := range rules {
		if r.Outcome.Status != StatusNotFound {
			return r.Outcome
		}
	}
	if len(rules) == 1 {
		return rules[0].Outcome
	}
	return NotFound("no rule matched")
}
