package routing

import (
	"testing"
	"time"
)

func TestRuleProfiler_Record(t *testing.T) {
	profiler := NewRuleProfiler(10 * time.Millisecond)

	profiler.Record("fast", true, 2*time.Millisecond)
	profiler.Record("fast", false, 4*time.Millisecond)
	profiler.Record("slow", true, 25*time.Millisecond)

	profiles := profiler.Snapshot()
	if len(profiles) != 2 {
		t.Fatalf("Snapshot() = %d profiles, want 2", len(profiles))
	}

	// Sorted by total time, the slow rule first.
	if profiles[0].RuleName != "slow" {
		t.Errorf("Snapshot()[0] = %s, want slow (most expensive first)", profiles[0].RuleName)
	}
	if profiles[0].SlowEvaluations != 1 {
		t.Errorf("Snapshot() slow evaluations = %d, want 1", profiles[0].SlowEvaluations)
	}

	fast := profiles[1]
	if fast.Evaluations != 2 || fast.Matches != 1 {
		t.Errorf("Snapshot() fast = %d evaluations %d matches, want 2/1", fast.Evaluations, fast.Matches)
	}
	if fast.TotalTime != 6*time.Millisecond {
		t.Errorf("Snapshot() fast total = %v, want 6ms", fast.TotalTime)
	}
	if fast.AverageTime != 3*time.Millisecond {
		t.Errorf("Snapshot() fast average = %v, want 3ms", fast.AverageTime)
	}
	if fast.MaxTime != 4*time.Millisecond {
		t.Errorf("Snapshot() fast max = %v, want 4ms", fast.MaxTime)
	}
	if fast.SlowEvaluations != 0 {
		t.Errorf("Snapshot() fast slow count = %d, want 0", fast.SlowEvaluations)
	}
}

func TestRuleProfiler_Reset(t *testing.T) {
	profiler := NewRuleProfiler(0) // falls back to the default budget

	profiler.Record("r", true, time.Millisecond)
	if len(profiler.Snapshot()) != 1 {
		t.Fatal("Snapshot() should contain the recorded rule")
	}

	profiler.Reset()
	if len(profiler.Snapshot()) != 0 {
		t.Error("Snapshot() after Reset() should be empty")
	}
}

func TestRuleProfiler_StableOrderOnTies(t *testing.T) {
	profiler := NewRuleProfiler(time.Second)
	profiler.Record("b", true, time.Millisecond)
	profiler.Record("a", true, time.Millisecond)

	profiles := profiler.Snapshot()
	if profiles[0].RuleName != "a" || profiles[1].RuleName != "b" {
		t.Errorf("Snapshot() tie order = [%s %s], want alphabetical [a b]", profiles[0].RuleName, profiles[1].RuleName)
	}
}
