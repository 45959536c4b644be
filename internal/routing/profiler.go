package routing

import (
	"sort"
	"sync"
	"time"
)

// RuleProfile aggregates evaluation timing for one rule.
type RuleProfile struct {
	RuleName        string        `json:"rule_name"`
	Evaluations     int64         `json:"evaluations"`      // Times the rule's conditions were checked
	Matches         int64         `json:"matches"`          // Times every condition held
	TotalTime       time.Duration `json:"total_time"`       // Summed evaluation time
	AverageTime     time.Duration `json:"average_time"`     // TotalTime / Evaluations
	MaxTime         time.Duration `json:"max_time"`         // Worst single evaluation
	SlowEvaluations int64         `json:"slow_evaluations"` // Evaluations over the advisory budget
}

// RuleProfiler collects per-rule timing so operators can spot rules that are
// expensive to evaluate, typically heavy regex conditions.
type RuleProfiler struct {
	mu            sync.Mutex
	slowThreshold time.Duration
	profiles      map[string]*RuleProfile
}

// NewRuleProfiler builds a profiler. Evaluations slower than slowThreshold
// are counted separately; a non-positive threshold falls back to the default
// evaluation budget.
func NewRuleProfiler(slowThreshold time.Duration) *RuleProfiler {
	if slowThreshold <= 0 {
		slowThreshold = DefaultMaxEvaluationTime
	}
	return &RuleProfiler{
		slowThreshold: slowThreshold,
		profiles:      make(map[string]*RuleProfile),
	}
}

// Record adds one rule evaluation to the profile.
func (p *RuleProfiler) Record(ruleName string, matched bool, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	profile, ok := p.profiles[ruleName]
	if !ok {
		profile = &RuleProfile{RuleName: ruleName}
		p.profiles[ruleName] = profile
	}

	profile.Evaluations++
	if matched {
		profile.Matches++
	}
	profile.TotalTime += elapsed
	profile.AverageTime = profile.TotalTime / time.Duration(profile.Evaluations)
	if elapsed > profile.MaxTime {
		profile.MaxTime = elapsed
	}
	if elapsed > p.slowThreshold {
		profile.SlowEvaluations++
	}
}

// Snapshot returns copies of all profiles, most expensive first.
func (p *RuleProfiler) Snapshot() []RuleProfile {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]RuleProfile, 0, len(p.profiles))
	for _, profile := range p.profiles {
		out = append(out, *profile)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalTime != out[j].TotalTime {
			return out[i].TotalTime > out[j].TotalTime
		}
		return out[i].RuleName < out[j].RuleName
	})
	return out
}

// Reset drops all collected profiles.
func (p *RuleProfiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profiles = make(map[string]*RuleProfile)
}

// SetSlowThreshold adjusts the slow-evaluation cutoff, used when the engine
// configuration is swapped at runtime. Non-positive values are ignored.
func (p *RuleProfiler) SetSlowThreshold(threshold time.Duration) {
	if threshold <= 0 {
		return
	}
	p.mu.Lock()
	p.slowThreshold = threshold
	p.mu.Unlock()
}
