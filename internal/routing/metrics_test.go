package routing

import (
	"testing"
	"time"
)

func TestMetricsCollector(t *testing.T) {
	m := newMetricsCollector()

	m.recordEvaluation("refunds", 10*time.Millisecond)
	m.recordEvaluation("refunds", 30*time.Millisecond)
	m.recordEvaluation("", 20*time.Millisecond)
	m.recordError()
	m.recordCache(true)
	m.recordCache(false)
	m.recordActions([]AppliedAction{
		{Type: ActionAddTags, Status: ActionStatusApplied},
		{Type: ActionSetPriority, Status: ActionStatusFailed},
		{Type: ActionAddTags, Status: ActionStatusSkipped},
	})

	snapshot := m.snapshot()
	if snapshot.Evaluations != 3 || snapshot.Matches != 2 || snapshot.NoMatches != 1 {
		t.Errorf("snapshot() counts = %d/%d/%d, want 3 evaluations, 2 matches, 1 no-match",
			snapshot.Evaluations, snapshot.Matches, snapshot.NoMatches)
	}
	if snapshot.Errors != 1 {
		t.Errorf("snapshot() errors = %d, want 1", snapshot.Errors)
	}
	if snapshot.CacheHits != 1 || snapshot.CacheMisses != 1 {
		t.Errorf("snapshot() cache = %d/%d, want 1/1", snapshot.CacheHits, snapshot.CacheMisses)
	}
	if snapshot.ActionsApplied != 1 || snapshot.ActionsFailed != 1 {
		t.Errorf("snapshot() actions = %d applied %d failed, want 1/1 (skipped uncounted)",
			snapshot.ActionsApplied, snapshot.ActionsFailed)
	}
	if snapshot.AverageLatency != 20*time.Millisecond {
		t.Errorf("snapshot() average latency = %v, want 20ms", snapshot.AverageLatency)
	}
	if snapshot.RuleHits["refunds"] != 2 {
		t.Errorf("snapshot() rule hits = %+v, want refunds=2", snapshot.RuleHits)
	}

	// The snapshot map is a copy.
	snapshot.RuleHits["refunds"] = 99
	if m.snapshot().RuleHits["refunds"] != 2 {
		t.Error("snapshot() should hand out a copied rule hit map")
	}

	m.reset()
	if after := m.snapshot(); after.Evaluations != 0 || len(after.RuleHits) != 0 {
		t.Errorf("snapshot() after reset = %+v, want zeroed", after)
	}
}
