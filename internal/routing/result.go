package routing

import "time"

// RoutingDecision summarizes the net effect of a matched rule.
type RoutingDecision string

const (
	DecisionContinue RoutingDecision = "continue" // No terminal routing; the caller applies its own default
	DecisionAssigned RoutingDecision = "assigned" // Conversation claimed for a named agent
	DecisionFallback RoutingDecision = "fallback" // Explicit fallback requested
)

// ActionStatus reports how a single action ended.
type ActionStatus string

const (
	ActionStatusApplied ActionStatus = "applied" // Side-effect performed (no-ops on absent tags included)
	ActionStatusFailed  ActionStatus = "failed"  // Parameter invalid or handler errored; no side-effect
	ActionStatusSkipped ActionStatus = "skipped" // Nothing to do (empty input)
)

// AppliedAction records one action of a matched rule, in declaration order.
type AppliedAction struct {
	Type   ActionType   `json:"type"`             // Which action ran
	Status ActionStatus `json:"status"`           // How it ended
	Detail string       `json:"detail,omitempty"` // Human-readable outcome
	Error  string       `json:"error,omitempty"`  // Failure cause, when Status is failed
}

// ConditionCheck is the diagnostic record of one condition evaluation,
// exposed by rule tests and dry runs.
type ConditionCheck struct {
	Type     ConditionType `json:"type"`               // Condition type checked
	Field    string        `json:"field,omitempty"`    // Field addressed, if any
	Operator Operator      `json:"operator"`           // Comparison applied
	Expected interface{}   `json:"expected,omitempty"` // Configured operand
	Actual   interface{}   `json:"actual,omitempty"`   // Value extracted from the conversation state
	Matched  bool          `json:"matched"`            // Outcome after negation
	Detail   string        `json:"detail,omitempty"`   // Set on fail-closed paths (missing value, bad regex, ...)
}

// RoutingResult is what Evaluate returns for the first matching rule. It is
// immutable once returned; Metadata is the side-channel map the actions wrote
// into.
type RoutingResult struct {
	RuleName       string                 `json:"rule_name"`       // Name of the matched rule
	Decision       RoutingDecision        `json:"decision"`        // Last non-continue action signal, or continue
	ActionsApplied []AppliedAction        `json:"actions_applied"` // Per-action outcomes in declaration order
	Metadata       map[string]interface{} `json:"metadata"`        // Accumulated routing side-channel
	Fallback       bool                   `json:"fallback"`        // True when a fallback action fired
	EvaluatedRules int                    `json:"evaluated_rules"` // Rules inspected before the match
	CacheHit       bool                   `json:"cache_hit"`       // Condition results served from cache
	ExecutionTime  time.Duration          `json:"execution_time"`  // Total time including action execution
	EvaluatedAt    time.Time              `json:"evaluated_at"`    // When the evaluation ran
}

// RuleTestResult is the outcome of a single-rule dry run: per-condition
// diagnostics, no actions executed, no caller-visible side effects.
type RuleTestResult struct {
	RuleName       string           `json:"rule_name"`
	Enabled        bool             `json:"enabled"` // Disabled rules are still testable
	Matched        bool             `json:"matched"`
	Conditions     []ConditionCheck `json:"conditions"`
	EvaluationTime time.Duration    `json:"evaluation_time"`
}

// RuleSummary is the per-rule slice of the configuration summary.
type RuleSummary struct {
	Name       string    `json:"name"`
	Priority   int       `json:"priority"`
	Enabled    bool      `json:"enabled"`
	Version    int       `json:"version"`
	Conditions int       `json:"conditions"`
	Actions    int       `json:"actions"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ConfigSummary is the engine's human-readable configuration overview.
type ConfigSummary struct {
	TotalRules        int           `json:"total_rules"`
	EnabledRules      int           `json:"enabled_rules"`
	CacheEnabled      bool          `json:"cache_enabled"`
	CacheTTL          time.Duration `json:"cache_ttl"`
	MaxEvaluationTime time.Duration `json:"max_evaluation_time"`
	DefaultFallback   string        `json:"default_fallback,omitempty"`
	Rules             []RuleSummary `json:"rules"` // Priority order, highest first
}
