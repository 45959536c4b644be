package routing

import (
	"sync"
	"time"
)

// EngineMetrics is a point-in-time snapshot of the engine counters.
type EngineMetrics struct {
	Evaluations    int64            `json:"evaluations"`     // Evaluate calls, including recovered ones
	Matches        int64            `json:"matches"`         // Evaluations that matched a rule
	NoMatches      int64            `json:"no_matches"`      // Evaluations that matched nothing
	Errors         int64            `json:"errors"`          // Recovered evaluation panics
	CacheHits      int64            `json:"cache_hits"`      // Condition vectors served from cache
	CacheMisses    int64            `json:"cache_misses"`    // Condition vectors computed fresh
	ActionsApplied int64            `json:"actions_applied"` // Actions that ran successfully
	ActionsFailed  int64            `json:"actions_failed"`  // Actions that failed in isolation
	AverageLatency time.Duration    `json:"average_latency"` // Mean Evaluate duration
	RuleHits       map[string]int64 `json:"rule_hits"`       // Match count per rule name
}

// metricsCollector accumulates engine counters behind a mutex. Counts are
// monotonic until Reset.
type metricsCollector struct {
	mu             sync.Mutex
	evaluations    int64
	matches        int64
	noMatches      int64
	errors         int64
	cacheHits      int64
	cacheMisses    int64
	actionsApplied int64
	actionsFailed  int64
	totalLatency   time.Duration
	ruleHits       map[string]int64
}

func newMetricsCollector() *metricsCollector {
	return &metricsCollector{
		ruleHits: make(map[string]int64),
	}
}

// recordEvaluation counts one finished Evaluate call. matchedRule is empty
// when nothing matched.
func (m *metricsCollector) recordEvaluation(matchedRule string, latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evaluations++
	m.totalLatency += latency
	if matchedRule == "" {
		m.noMatches++
		return
	}
	m.matches++
	m.ruleHits[matchedRule]++
}

func (m *metricsCollector) recordError() {
	m.mu.Lock()
	m.errors++
	m.mu.Unlock()
}

func (m *metricsCollector) recordCache(hit bool) {
	m.mu.Lock()
	if hit {
		m.cacheHits++
	} else {
		m.cacheMisses++
	}
	m.mu.Unlock()
}

func (m *metricsCollector) recordActions(applied []AppliedAction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, action := range applied {
		switch action.Status {
		case ActionStatusApplied:
			m.actionsApplied++
		case ActionStatusFailed:
			m.actionsFailed++
		}
	}
}

func (m *metricsCollector) snapshot() EngineMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := EngineMetrics{
		Evaluations:    m.evaluations,
		Matches:        m.matches,
		NoMatches:      m.noMatches,
		Errors:         m.errors,
		CacheHits:      m.cacheHits,
		CacheMisses:    m.cacheMisses,
		ActionsApplied: m.actionsApplied,
		ActionsFailed:  m.actionsFailed,
		RuleHits:       CopyInt64Map(m.ruleHits),
	}
	if m.evaluations > 0 {
		out.AverageLatency = m.totalLatency / time.Duration(m.evaluations)
	}
	return out
}

func (m *metricsCollector) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evaluations = 0
	m.matches = 0
	m.noMatches = 0
	m.errors = 0
	m.cacheHits = 0
	m.cacheMisses = 0
	m.actionsApplied = 0
	m.actionsFailed = 0
	m.totalLatency = 0
	m.ruleHits = make(map[string]int64)
}
