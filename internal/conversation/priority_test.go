package conversation

import (
	"errors"
	"testing"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    Priority
		wantErr bool
	}{
		{"upper name", "HIGH", PriorityHigh, false},
		{"lower name", "high", PriorityHigh, false},
		{"mixed name", "Critical", PriorityCritical, false},
		{"padded name", "  urgent  ", PriorityUrgent, false},
		{"int alias", 1, PriorityLow, false},
		{"int64 alias", int64(5), PriorityCritical, false},
		{"float alias", float64(3), PriorityHigh, false},
		{"numeric string", "2", PriorityMedium, false},
		{"priority passthrough", PriorityMedium, PriorityMedium, false},
		{"zero", 0, 0, true},
		{"out of range int", 6, 0, true},
		{"fractional float", 2.5, 0, true},
		{"unknown name", "SEVERE", 0, true},
		{"out of range string", "9", 0, true},
		{"nil", nil, 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePriority(%v) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidPriority) {
					t.Errorf("ParsePriority(%v) error = %v, want ErrInvalidPriority", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePriority(%v) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePriority(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPriorityString(t *testing.T) {
	tests := []struct {
		priority Priority
		want     string
	}{
		{PriorityLow, "LOW"},
		{PriorityMedium, "MEDIUM"},
		{PriorityHigh, "HIGH"},
		{PriorityUrgent, "URGENT"},
		{PriorityCritical, "CRITICAL"},
		{Priority(0), "UNKNOWN"},
		{Priority(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.priority.String(); got != tt.want {
			t.Errorf("Priority(%d).String() = %q, want %q", int(tt.priority), got, tt.want)
		}
	}
}

func TestPriorityValid(t *testing.T) {
	for p := PriorityLow; p <= PriorityCritical; p++ {
		if !p.Valid() {
			t.Errorf("Priority(%d).Valid() = false, want true", int(p))
		}
	}
	for _, p := range []Priority{0, 6, -1} {
		if p.Valid() {
			t.Errorf("Priority(%d).Valid() = true, want false", int(p))
		}
	}
}
