package conversation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Priority is the handling urgency attached to a handoff decision.
type Priority int

// Priority levels, lowest to highest.
const (
	PriorityLow      Priority = 1
	PriorityMedium   Priority = 2
	PriorityHigh     Priority = 3
	PriorityUrgent   Priority = 4
	PriorityCritical Priority = 5
)

// ErrInvalidPriority is returned when a value cannot be interpreted as a
// priority level.
var ErrInvalidPriority = errors.New("invalid priority")

var priorityNames = map[Priority]string{
	PriorityLow:      "LOW",
	PriorityMedium:   "MEDIUM",
	PriorityHigh:     "HIGH",
	PriorityUrgent:   "URGENT",
	PriorityCritical: "CRITICAL",
}

var prioritiesByName = map[string]Priority{
	"LOW":      PriorityLow,
	"MEDIUM":   PriorityMedium,
	"HIGH":     PriorityHigh,
	"URGENT":   PriorityUrgent,
	"CRITICAL": PriorityCritical,
}

// String returns the canonical upper-case name, or "UNKNOWN" for out-of-range
// values.
func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}

// Valid reports whether p is one of the five defined levels.
func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

// ParsePriority interprets v as a priority level. Accepted forms are the
// level names (case-insensitive), integers 1-5, whole floats 1-5 (JSON
// numbers decode as float64), and numeric strings "1"-"5".
func ParsePriority(v interface{}) (Priority, error) {
	switch value := v.(type) {
	case Priority:
		if value.Valid() {
			return value, nil
		}
	case int:
		p := Priority(value)
		if p.Valid() {
			return p, nil
		}
	case int64:
		p := Priority(value)
		if p.Valid() {
			return p, nil
		}
	case float64:
		p := Priority(int(value))
		if float64(int(value)) == value && p.Valid() {
			return p, nil
		}
	case string:
		name := strings.ToUpper(strings.TrimSpace(value))
		if p, ok := prioritiesByName[name]; ok {
			return p, nil
		}
		if n, err := strconv.Atoi(name); err == nil {
			p := Priority(n)
			if p.Valid() {
				return p, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %v", ErrInvalidPriority, v)
}
