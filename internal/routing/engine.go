package routing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"conversation-router/internal/common/cache"
	"conversation-router/internal/common/logging"
	"conversation-router/internal/conversation"
)

// Engine evaluates the rule configuration against conversations. It is safe
// for concurrent use: the configuration carries its own lock, the condition
// cache is shared, and Evaluate never returns an error to the caller. A
// conversation that cannot be routed, for whatever reason, simply yields no
// match and the caller falls back to its default queue.
type Engine struct {
	configMu sync.RWMutex
	config   *RoutingConfig

	evaluator *ConditionEvaluator
	executor  *ActionExecutor
	cache     cache.Cache
	logger    logging.Logger
	clock     func() time.Time

	profiler *RuleProfiler
	metrics  *metricsCollector

	flushMu   sync.Mutex
	lastFlush time.Time
}

// EngineOption configures an Engine at construction.
type EngineOption func(*Engine)

// WithCache supplies the condition cache backend. Without it the engine
// builds a local in-process cache when caching is enabled.
func WithCache(c cache.Cache) EngineOption {
	return func(e *Engine) { e.cache = c }
}

// WithLogger supplies the logger used for decisions and warnings.
func WithLogger(logger logging.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithClock overrides the time source, used by tests and by time-based
// conditions.
func WithClock(clock func() time.Time) EngineOption {
	return func(e *Engine) { e.clock = clock }
}

// NewEngine builds an engine around a validated configuration.
func NewEngine(config *RoutingConfig, opts ...EngineOption) (*Engine, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		config: config,
		logger: logging.GetGlobalLogger(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.cache == nil && config.CacheEnabled {
		cfg := cache.DefaultConfig()
		cfg.TTL = config.CacheTTL
		backend, err := cache.New(cfg)
		if err != nil {
			return nil, err
		}
		e.cache = backend
	}

	e.evaluator = NewConditionEvaluator(e.logger).WithClock(e.clock)
	e.executor = NewActionExecutor(e.logger)
	e.profiler = NewRuleProfiler(config.MaxEvaluationTime)
	e.metrics = newMetricsCollector()
	e.lastFlush = e.clock()
	return e, nil
}

// Evaluate runs the enabled rules against a conversation, highest priority
// first, and executes the actions of the first rule whose conditions all
// match. It returns nil when no rule matches. The metadata map, which may be
// nil, is where actions record their side effects; on a match the same map
// is reachable through the result.
//
// Evaluate never panics outward. Per-rule evaluation failures skip the rule,
// and anything worse turns the whole call into a no-match.
func (e *Engine) Evaluate(ctx context.Context, conv *conversation.Conversation, decision *conversation.HandoffDecision, metadata map[string]interface{}) (result *RoutingResult) {
	defer func() {
		if r := recover(); r != nil {
			e.metrics.recordError()
			e.logger.Error("routing evaluation panicked", fmt.Errorf("%v", r),
				logging.String("conversation_id", conversationID(conv)))
			result = nil
		}
	}()

	start := e.clock()

	cfg := e.currentConfig()
	e.maybeFlushCache(ctx, cfg)

	exec := NewExecution(conv, decision, metadata)
	rules := cfg.EnabledRules()
	evaluated := 0

	for _, rule := range rules {
		evaluated++
		matched, fromCache := e.ruleMatches(ctx, cfg, rule, exec)
		if !matched {
			continue
		}

		applied, signal := e.executor.Execute(exec, rule.Name, rule.Actions)
		_, fallback := exec.Metadata[MetadataKeyFallback]
		elapsed := e.clock().Sub(start)

		result = &RoutingResult{
			RuleName:       rule.Name,
			Decision:       signal,
			ActionsApplied: applied,
			Metadata:       exec.Metadata,
			Fallback:       fallback,
			EvaluatedRules: evaluated,
			CacheHit:       fromCache,
			ExecutionTime:  elapsed,
			EvaluatedAt:    start,
		}

		e.metrics.recordActions(applied)
		e.metrics.recordEvaluation(rule.Name, elapsed)
		e.warnIfOverBudget(cfg, rule.Name, elapsed)
		if cfg.LogDecisions {
			e.logger.Info("conversation routed",
				logging.String("conversation_id", conversationID(conv)),
				logging.String("rule", rule.Name),
				logging.String("decision", string(signal)),
				logging.Int("rules_evaluated", evaluated),
				logging.Duration("elapsed", elapsed))
		}
		return result
	}

	elapsed := e.clock().Sub(start)
	e.metrics.recordEvaluation("", elapsed)
	e.warnIfOverBudget(cfg, "", elapsed)
	if cfg.LogDecisions {
		e.logger.Debug("no routing rule matched",
			logging.String("conversation_id", conversationID(conv)),
			logging.Int("rules_evaluated", evaluated),
			logging.String("default_fallback", cfg.DefaultFallback))
	}
	return nil
}

// ruleMatches checks every condition of one rule, short-circuiting on the
// first miss. Condition vectors are cached per rule and conversation. A
// panic inside evaluation counts the rule as not matched.
func (e *Engine) ruleMatches(ctx context.Context, cfg *RoutingConfig, rule *RoutingRule, exec *Execution) (matched bool, fromCache bool) {
	defer func() {
		if r := recover(); r != nil {
			e.metrics.recordError()
			e.logger.Error("rule evaluation panicked", fmt.Errorf("%v", r),
				logging.String("rule", rule.Name))
			matched = false
			fromCache = false
		}
	}()

	ruleStart := e.clock()
	useCache := cfg.CacheEnabled && e.cache != nil && exec.Conversation != nil && exec.Conversation.ID != ""
	key := ""

	if useCache {
		key = conditionCacheKey(rule.Name, exec.Conversation.ID)
		if raw, ok := e.cache.Get(ctx, key); ok {
			if vector, ok := decodeVector(raw); ok {
				if verdict, usable := vectorVerdict(vector, len(rule.Conditions)); usable {
					e.metrics.recordCache(true)
					e.profiler.Record(rule.Name, verdict, e.clock().Sub(ruleStart))
					return verdict, true
				}
			}
		}
		e.metrics.recordCache(false)
	}

	vector := make([]bool, 0, len(rule.Conditions))
	matched = true
	for _, condition := range rule.Conditions {
		ok := e.evaluator.Evaluate(condition, exec)
		vector = append(vector, ok)
		if !ok {
			matched = false
			break
		}
	}

	if useCache {
		if err := e.cache.Set(ctx, key, vector, cfg.CacheTTL); err != nil {
			e.logger.Warn("condition cache write failed",
				logging.String("rule", rule.Name),
				logging.Err(err))
		}
	}

	e.profiler.Record(rule.Name, matched, e.clock().Sub(ruleStart))
	return matched, false
}

// TestRule dry-runs a single rule against a conversation. Every condition is
// checked even after the first miss so the result carries full diagnostics.
// No actions run, the condition cache is bypassed, and the caller's decision
// and metadata are copied so nothing leaks back. Disabled rules are testable.
func (e *Engine) TestRule(ctx context.Context, name string, conv *conversation.Conversation, decision *conversation.HandoffDecision, metadata map[string]interface{}) (*RuleTestResult, error) {
	cfg := e.currentConfig()
	rule, ok := cfg.Rule(name)
	if !ok {
		return nil, WrapErrorf(ErrRuleNotFound, "rule %q", name)
	}

	var decisionCopy *conversation.HandoffDecision
	if decision != nil {
		clone := *decision
		decisionCopy = &clone
	}
	exec := NewExecution(conv, decisionCopy, CopyInterfaceMap(metadata))

	start := e.clock()
	result := &RuleTestResult{
		RuleName: rule.Name,
		Enabled:  rule.Metadata.Enabled,
		Matched:  true,
	}
	for _, condition := range rule.Conditions {
		check := e.evaluator.Check(condition, exec)
		result.Conditions = append(result.Conditions, check)
		if !check.Matched {
			result.Matched = false
		}
	}
	result.EvaluationTime = e.clock().Sub(start)
	return result, nil
}

// UpdateConfig swaps in a new configuration and clears the condition cache so
// no stale vectors survive the swap.
func (e *Engine) UpdateConfig(ctx context.Context, config *RoutingConfig) error {
	if config == nil {
		return ErrNilConfig
	}
	if err := config.Validate(); err != nil {
		return err
	}

	e.configMu.Lock()
	e.config = config
	e.configMu.Unlock()

	e.profiler.SetSlowThreshold(config.MaxEvaluationTime)
	return e.ClearCache(ctx)
}

// ClearCache drops every cached condition vector.
func (e *Engine) ClearCache(ctx context.Context) error {
	if e.cache == nil {
		return nil
	}

	e.flushMu.Lock()
	e.lastFlush = e.clock()
	e.flushMu.Unlock()

	return e.cache.Clear(ctx)
}

// AddRule inserts a rule into the live configuration. The condition cache is
// cleared so the new rule is consulted immediately.
func (e *Engine) AddRule(ctx context.Context, rule *RoutingRule) error {
	if err := e.currentConfig().AddRule(rule); err != nil {
		return err
	}
	return e.ClearCache(ctx)
}

// RemoveRule deletes a rule by name, reporting whether it existed.
func (e *Engine) RemoveRule(ctx context.Context, name string) bool {
	if !e.currentConfig().RemoveRule(name) {
		return false
	}
	if err := e.ClearCache(ctx); err != nil {
		e.logger.Warn("cache clear after rule removal failed", logging.Err(err))
	}
	return true
}

// UpdateRule replaces a rule in the live configuration.
func (e *Engine) UpdateRule(ctx context.Context, rule *RoutingRule) error {
	if err := e.currentConfig().UpdateRule(rule); err != nil {
		return err
	}
	return e.ClearCache(ctx)
}

// EnableRule activates a rule by name.
func (e *Engine) EnableRule(ctx context.Context, name string) error {
	if err := e.currentConfig().EnableRule(name); err != nil {
		return err
	}
	return e.ClearCache(ctx)
}

// DisableRule deactivates a rule by name.
func (e *Engine) DisableRule(ctx context.Context, name string) error {
	if err := e.currentConfig().DisableRule(name); err != nil {
		return err
	}
	return e.ClearCache(ctx)
}

// Rule returns a copy of the named rule from the live configuration.
func (e *Engine) Rule(name string) (*RoutingRule, bool) {
	return e.currentConfig().Rule(name)
}

// Rules returns copies of all rules in evaluation order.
func (e *Engine) Rules() []*RoutingRule {
	return e.currentConfig().Rules()
}

// Summary condenses the live configuration and its rules.
func (e *Engine) Summary() ConfigSummary {
	return e.currentConfig().Summary()
}

// ValidationFinding describes one suspect spot found by configuration
// validation.
type ValidationFinding struct {
	Severity string `json:"severity"` // error or warning
	RuleName string `json:"rule_name,omitempty"`
	Message  string `json:"message"`
}

// ValidateConfiguration inspects the live configuration for mistakes that
// individual rule validation cannot see: duplicate names and rules carrying
// more than one assignment action, where only the last one takes effect.
func (e *Engine) ValidateConfiguration() []ValidationFinding {
	cfg := e.currentConfig()
	findings := []ValidationFinding{}

	if cfg.CacheEnabled && cfg.CacheTTL <= 0 {
		findings = append(findings, ValidationFinding{
			Severity: "error",
			Message:  "cache ttl must be positive when caching is enabled",
		})
	}

	seen := make(map[string]bool)
	for _, rule := range cfg.Rules() {
		if seen[rule.Name] {
			findings = append(findings, ValidationFinding{
				Severity: "error",
				RuleName: rule.Name,
				Message:  "duplicate rule name",
			})
		}
		seen[rule.Name] = true

		if err := rule.Validate(); err != nil {
			findings = append(findings, ValidationFinding{
				Severity: "error",
				RuleName: rule.Name,
				Message:  err.Error(),
			})
		}

		if n := len(rule.AssignmentActions()); n > 1 {
			findings = append(findings, ValidationFinding{
				Severity: "warning",
				RuleName: rule.Name,
				Message:  fmt.Sprintf("%d assignment actions in one rule, the last overwrites the others", n),
			})
		}
	}
	return findings
}

// Metrics returns a snapshot of the engine counters.
func (e *Engine) Metrics() EngineMetrics {
	return e.metrics.snapshot()
}

// ResetMetrics zeroes the engine counters.
func (e *Engine) ResetMetrics() {
	e.metrics.reset()
}

// ProfilerStats returns per-rule timing profiles, most expensive first.
func (e *Engine) ProfilerStats() []RuleProfile {
	return e.profiler.Snapshot()
}

// Config returns the live configuration.
func (e *Engine) Config() *RoutingConfig {
	return e.currentConfig()
}

func (e *Engine) currentConfig() *RoutingConfig {
	e.configMu.RLock()
	defer e.configMu.RUnlock()
	return e.config
}

// maybeFlushCache drops the whole condition cache once its coarse TTL has
// passed. Individual entries also carry the TTL, so the flush is a backstop
// that keeps backends without reliable expiry honest.
func (e *Engine) maybeFlushCache(ctx context.Context, cfg *RoutingConfig) {
	if !cfg.CacheEnabled || e.cache == nil || cfg.CacheTTL <= 0 {
		return
	}

	e.flushMu.Lock()
	defer e.flushMu.Unlock()

	now := e.clock()
	if now.Sub(e.lastFlush) < cfg.CacheTTL {
		return
	}
	e.lastFlush = now

	if err := e.cache.Clear(ctx); err != nil {
		e.logger.Warn("condition cache flush failed", logging.Err(err))
	}
}

func (e *Engine) warnIfOverBudget(cfg *RoutingConfig, ruleName string, elapsed time.Duration) {
	if cfg.MaxEvaluationTime <= 0 || elapsed <= cfg.MaxEvaluationTime {
		return
	}
	e.logger.Warn("evaluation exceeded time budget",
		logging.String("rule", ruleName),
		logging.Duration("elapsed", elapsed),
		logging.Duration("budget", cfg.MaxEvaluationTime))
}

func conditionCacheKey(ruleName, conversationID string) string {
	return ruleName + "::" + conversationID
}

// conversationID tolerates nil conversations for log fields.
func conversationID(conv *conversation.Conversation) string {
	if conv == nil {
		return ""
	}
	return conv.ID
}

// decodeVector revives a cached condition vector. The local backend returns
// []bool unchanged; the Redis backend went through JSON and comes back as
// []interface{}.
func decodeVector(raw interface{}) ([]bool, bool) {
	switch value := raw.(type) {
	case []bool:
		return value, true
	case []interface{}:
		out := make([]bool, 0, len(value))
		for _, item := range value {
			b, ok := item.(bool)
			if !ok {
				return nil, false
			}
			out = append(out, b)
		}
		return out, true
	}
	return nil, false
}

// vectorVerdict decides a rule outcome from a cached vector. Short-circuited
// vectors are shorter than the condition list but always end in a false, so
// any false means no match. An all-true vector only counts when its length
// matches the current condition count; anything else is unusable and forces
// recomputation.
func vectorVerdict(vector []bool, conditionCount int) (matched bool, usable bool) {
	if len(vector) == 0 {
		return false, false
	}
	for _, v := range vector {
		if !v {
			return false, true
		}
	}
	if len(vector) == conditionCount {
		return true, true
	}
	return false, false
}
