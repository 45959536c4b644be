package routing

import (
	"time"
)

const (
	// MinPriority and MaxPriority bound rule priorities. Higher priorities
	// are evaluated first.
	MinPriority = 1
	MaxPriority = 1000

	// MinConditions and MaxConditions bound the condition list of a rule.
	// All conditions must match for the rule to fire.
	MinConditions = 1
	MaxConditions = 20

	// MinActions and MaxActions bound the action list of a rule.
	MinActions = 1
	MaxActions = 10
)

// RuleMetadata tracks the lifecycle of a rule. Version starts at 1 and is
// bumped whenever the rule is updated, enabled, or disabled.
type RuleMetadata struct {
	CreatedAt time.Time `json:"created_at"` // Set once at construction
	UpdatedAt time.Time `json:"updated_at"` // Touched on every mutation
	Enabled   bool      `json:"enabled"`    // Disabled rules are kept but never evaluated
	Version   int       `json:"version"`    // Mutation counter
}

// RoutingRule binds a conjunction of conditions to an ordered list of actions.
// A rule fires when every condition matches; its actions then run in
// declaration order.
type RoutingRule struct {
	Name        string        `json:"name"`                  // Unique within a configuration
	Description string        `json:"description,omitempty"` // Optional operator-facing note
	Priority    int           `json:"priority"`              // 1-1000, higher evaluated first
	Conditions  []*Condition  `json:"conditions"`            // ANDed together, 1-20 entries
	Actions     []*RuleAction `json:"actions"`               // Run in order, 1-10 entries
	Metadata    RuleMetadata  `json:"metadata"`

	seq int // insertion sequence assigned by the config, breaks priority ties
}

// NewRoutingRule builds and validates a rule. The rule starts enabled at
// version 1. Conditions and actions are validated individually, so a broken
// rule is rejected at construction rather than at evaluation time.
func NewRoutingRule(name string, priority int, conditions []*Condition, actions []*RuleAction) (*RoutingRule, error) {
	now := time.Now().UTC()
	rule := &RoutingRule{
		Name:       name,
		Priority:   priority,
		Conditions: conditions,
		Actions:    actions,
		Metadata: RuleMetadata{
			CreatedAt: now,
			UpdatedAt: now,
			Enabled:   true,
			Version:   1,
		},
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return rule, nil
}

// WithDescription sets the optional description and returns the rule for
// chaining.
func (r *RoutingRule) WithDescription(description string) *RoutingRule {
	r.Description = description
	return r
}

// Validate checks the rule shape and every condition and action in it.
func (r *RoutingRule) Validate() error {
	validators := BuildValidators(
		func() error { return ValidateRequired("name", r.Name, "rule name") },
		func() error { return ValidateIntRange(r.Priority, MinPriority, MaxPriority, "rule priority") },
		func() error { return ValidateCountRange(len(r.Conditions), MinConditions, MaxConditions, "rule conditions") },
		func() error { return ValidateCountRange(len(r.Actions), MinActions, MaxActions, "rule actions") },
	)

	if err := RunValidators(validators...); err != nil {
		return WrapError(err, ErrInvalidRule.Error())
	}

	for i, condition := range r.Conditions {
		if condition == nil {
			return WrapErrorf(ErrInvalidRule, "condition %d of rule %q is nil", i, r.Name)
		}
		if err := condition.Validate(); err != nil {
			return WrapErrorf(err, "condition %d of rule %q", i, r.Name)
		}
	}

	for i, action := range r.Actions {
		if action == nil {
			return WrapErrorf(ErrInvalidRule, "action %d of rule %q is nil", i, r.Name)
		}
		if err := action.Validate(); err != nil {
			return WrapErrorf(err, "action %d of rule %q", i, r.Name)
		}
	}

	return nil
}

// Enable marks the rule active. Re-enabling an enabled rule is a no-op and
// does not bump the version.
func (r *RoutingRule) Enable() bool {
	if r.Metadata.Enabled {
		return false
	}
	r.Metadata.Enabled = true
	r.touch()
	return true
}

// Disable marks the rule inactive without removing it. Disabling a disabled
// rule is a no-op.
func (r *RoutingRule) Disable() bool {
	if !r.Metadata.Enabled {
		return false
	}
	r.Metadata.Enabled = false
	r.touch()
	return true
}

func (r *RoutingRule) touch() {
	r.Metadata.UpdatedAt = time.Now().UTC()
	r.Metadata.Version++
}

// Summary condenses the rule into its summary form.
func (r *RoutingRule) Summary() RuleSummary {
	return RuleSummary{
		Name:       r.Name,
		Priority:   r.Priority,
		Enabled:    r.Metadata.Enabled,
		Version:    r.Metadata.Version,
		Conditions: len(r.Conditions),
		Actions:    len(r.Actions),
		CreatedAt:  r.Metadata.CreatedAt,
		UpdatedAt:  r.Metadata.UpdatedAt,
	}
}

// AssignmentActions returns the assignment-type actions of the rule. More
// than one in a single rule is legal but almost always a mistake, and the
// configuration validator reports it.
func (r *RoutingRule) AssignmentActions() []*RuleAction {
	var assignments []*RuleAction
	for _, action := range r.Actions {
		if IsAssignmentAction(action.Type) {
			assignments = append(assignments, action)
		}
	}
	return assignments
}

// clone returns a shallow copy of the rule with its own condition and action
// slices. The conditions and actions themselves are immutable after
// validation, so sharing the pointers is safe.
func (r *RoutingRule) clone() *RoutingRule {
	out := *r
	out.Conditions = make([]*Condition, len(r.Conditions))
	copy(out.Conditions, r.Conditions)
	out.Actions = make([]*RuleAction, len(r.Actions))
	copy(out.Actions, r.Actions)
	return &out
}
