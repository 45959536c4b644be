package routing

import (
	"sort"
	"sync"
	"time"
)

// Default configuration values applied by NewRoutingConfig.
const (
	DefaultCacheTTL          = 60 * time.Second
	DefaultMaxEvaluationTime = 100 * time.Millisecond
	DefaultFallbackQueue     = "general"
)

// RoutingConfig is the mutable rule collection plus engine tuning knobs. All
// rule access goes through its methods; the internal slice is kept sorted by
// priority (highest first) with ties broken by insertion order, so iteration
// order is deterministic.
type RoutingConfig struct {
	CacheEnabled      bool          // Condition result caching on or off
	CacheTTL          time.Duration // Coarse lifetime of the whole condition cache
	MaxEvaluationTime time.Duration // Advisory budget, overruns are logged not aborted
	DefaultFallback   string        // Queue the caller should use when no rule matches
	LogDecisions      bool          // Log every routing decision at info level

	mu      sync.RWMutex
	rules   []*RoutingRule
	nextSeq int
}

// NewRoutingConfig returns a config with caching enabled and the default
// tuning values. Adjust the exported fields before handing it to an engine.
func NewRoutingConfig() *RoutingConfig {
	return &RoutingConfig{
		CacheEnabled:      true,
		CacheTTL:          DefaultCacheTTL,
		MaxEvaluationTime: DefaultMaxEvaluationTime,
		DefaultFallback:   DefaultFallbackQueue,
		LogDecisions:      true,
	}
}

// WithCacheTTL sets the condition cache lifetime and returns the config for
// chaining.
func (c *RoutingConfig) WithCacheTTL(ttl time.Duration) *RoutingConfig {
	c.CacheTTL = ttl
	return c
}

// WithCacheEnabled toggles condition result caching.
func (c *RoutingConfig) WithCacheEnabled(enabled bool) *RoutingConfig {
	c.CacheEnabled = enabled
	return c
}

// WithDefaultFallback sets the queue used when no rule matches.
func (c *RoutingConfig) WithDefaultFallback(queue string) *RoutingConfig {
	c.DefaultFallback = queue
	return c
}

// WithLogDecisions toggles per-decision logging.
func (c *RoutingConfig) WithLogDecisions(enabled bool) *RoutingConfig {
	c.LogDecisions = enabled
	return c
}

// AddRule validates and inserts a rule. Rule names are unique within a
// config; adding a second rule with the same name fails with
// ErrDuplicateRule.
func (c *RoutingConfig) AddRule(rule *RoutingRule) error {
	if rule == nil {
		return WrapError(ErrInvalidRule, "rule is nil")
	}
	if err := rule.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(rule.Name) >= 0 {
		return WrapErrorf(ErrDuplicateRule, "rule %q", rule.Name)
	}

	rule.seq = c.nextSeq
	c.nextSeq++
	c.rules = append(c.rules, rule)
	c.sortLocked()
	return nil
}

// RemoveRule deletes a rule by name. It reports whether a rule was removed.
func (c *RoutingConfig) RemoveRule(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(name)
	if i < 0 {
		return false
	}
	c.rules = append(c.rules[:i], c.rules[i+1:]...)
	return true
}

// UpdateRule replaces the rule with the same name. Creation time, enabled
// state, and the position among equal priorities are preserved from the old
// rule; the version is bumped past the old rule's version.
func (c *RoutingConfig) UpdateRule(rule *RoutingRule) error {
	if rule == nil {
		return WrapError(ErrInvalidRule, "rule is nil")
	}
	if err := rule.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(rule.Name)
	if i < 0 {
		return WrapErrorf(ErrRuleNotFound, "rule %q", rule.Name)
	}

	old := c.rules[i]
	rule.Metadata.CreatedAt = old.Metadata.CreatedAt
	rule.Metadata.Enabled = old.Metadata.Enabled
	rule.Metadata.Version = old.Metadata.Version + 1
	rule.Metadata.UpdatedAt = time.Now().UTC()
	rule.seq = old.seq

	c.rules[i] = rule
	c.sortLocked()
	return nil
}

// EnableRule activates a rule by name. Enabling an already enabled rule is a
// no-op and does not bump the version.
func (c *RoutingConfig) EnableRule(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(name)
	if i < 0 {
		return WrapErrorf(ErrRuleNotFound, "rule %q", name)
	}
	c.rules[i].Enable()
	return nil
}

// DisableRule deactivates a rule by name without removing it.
func (c *RoutingConfig) DisableRule(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(name)
	if i < 0 {
		return WrapErrorf(ErrRuleNotFound, "rule %q", name)
	}
	c.rules[i].Disable()
	return nil
}

// Rule returns a copy of the named rule.
func (c *RoutingConfig) Rule(name string) (*RoutingRule, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(name)
	if i < 0 {
		return nil, false
	}
	return c.rules[i].clone(), true
}

// Rules returns copies of all rules in evaluation order.
func (c *RoutingConfig) Rules() []*RoutingRule {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*RoutingRule, len(c.rules))
	for i, rule := range c.rules {
		out[i] = rule.clone()
	}
	return out
}

// EnabledRules returns copies of the enabled rules in evaluation order.
func (c *RoutingConfig) EnabledRules() []*RoutingRule {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*RoutingRule
	for _, rule := range c.rules {
		if rule.Metadata.Enabled {
			out = append(out, rule.clone())
		}
	}
	return out
}

// RuleCount returns the total number of rules.
func (c *RoutingConfig) RuleCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rules)
}

// EnabledCount returns the number of enabled rules.
func (c *RoutingConfig) EnabledCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, rule := range c.rules {
		if rule.Metadata.Enabled {
			count++
		}
	}
	return count
}

// Summary condenses the config and all its rules.
func (c *RoutingConfig) Summary() ConfigSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	summary := ConfigSummary{
		TotalRules:        len(c.rules),
		CacheEnabled:      c.CacheEnabled,
		CacheTTL:          c.CacheTTL,
		MaxEvaluationTime: c.MaxEvaluationTime,
		DefaultFallback:   c.DefaultFallback,
		Rules:             make([]RuleSummary, 0, len(c.rules)),
	}
	for _, rule := range c.rules {
		if rule.Metadata.Enabled {
			summary.EnabledRules++
		}
		summary.Rules = append(summary.Rules, rule.Summary())
	}
	return summary
}

// Validate checks the tuning fields and every rule. Rule name uniqueness is
// enforced on insert, so only value ranges are rechecked here.
func (c *RoutingConfig) Validate() error {
	if c.CacheEnabled && c.CacheTTL <= 0 {
		return WrapError(ErrInvalidConfig, "cache ttl must be positive when caching is enabled")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, rule := range c.rules {
		if err := rule.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// indexOf returns the position of the named rule, or -1. Callers must hold
// the lock.
func (c *RoutingConfig) indexOf(name string) int {
	for i, rule := range c.rules {
		if rule.Name == name {
			return i
		}
	}
	return -1
}

// sortLocked re-sorts rules by priority descending, insertion order
// ascending. Callers must hold the write lock.
func (c *RoutingConfig) sortLocked() {
	sort.SliceStable(c.rules, func(i, j int) bool {
		if c.rules[i].Priority != c.rules[j].Priority {
			return c.rules[i].Priority > c.rules[j].Priority
		}
		return c.rules[i].seq < c.rules[j].seq
	})
}
