package routing

import "fmt"

// ActionType identifies a routing side-effect. The set is closed; adding a
// kind means adding a handler to the executor's registration table.
type ActionType string

const (
	ActionAssignToAgent      ActionType = "assign_to_agent"      // Direct assignment to a named agent
	ActionAssignToQueue      ActionType = "assign_to_queue"      // Placement in a work queue
	ActionAssignToDepartment ActionType = "assign_to_department" // Placement with a department
	ActionSetPriority        ActionType = "set_priority"         // Override the handoff priority
	ActionAddTags            ActionType = "add_tags"             // Accumulate routing tags
	ActionRemoveTags         ActionType = "remove_tags"          // Drop routing tags
	ActionSetCustomField     ActionType = "set_custom_field"     // Write a downstream custom field
	ActionRouteToFallback    ActionType = "route_to_fallback"    // Explicit fallback with a reason
)

var validActionTypes = map[ActionType]bool{
	ActionAssignToAgent:      true,
	ActionAssignToQueue:      true,
	ActionAssignToDepartment: true,
	ActionSetPriority:        true,
	ActionAddTags:            true,
	ActionRemoveTags:         true,
	ActionSetCustomField:     true,
	ActionRouteToFallback:    true,
}

// requiredActionParams names the parameter keys each action type must carry.
// Parameter values are checked at execution time, where a bad value becomes a
// failed action instead of an authoring error.
var requiredActionParams = map[ActionType][]string{
	ActionAssignToAgent:      {"agent_id"},
	ActionAssignToQueue:      {"queue_name"},
	ActionAssignToDepartment: {"department"},
	ActionSetPriority:        {"priority"},
	ActionAddTags:            {"tags"},
	ActionRemoveTags:         {"tags"},
	ActionSetCustomField:     {"field_name"},
	ActionRouteToFallback:    nil, // reason is optional
}

// assignmentActionTypes are the action kinds that claim the conversation for
// a concrete destination. Configuration validation flags rules carrying more
// than one of them.
var assignmentActionTypes = []ActionType{
	ActionAssignToAgent,
	ActionAssignToQueue,
	ActionAssignToDepartment,
}

// IsAssignmentAction reports whether the action type assigns the conversation
// to an agent, queue, or department.
func IsAssignmentAction(t ActionType) bool {
	return SliceContains(assignmentActionTypes, t)
}

// RuleAction is one ordered side-effect of a matched rule.
type RuleAction struct {
	Type       ActionType             `json:"type"`                 // Which side-effect to apply
	Parameters map[string]interface{} `json:"parameters,omitempty"` // Action-specific parameters
}

// NewRuleAction builds a validated action. Unknown types and missing required
// parameters are authoring errors; parameter values are validated when the
// action runs.
func NewRuleAction(actionType ActionType, parameters map[string]interface{}) (*RuleAction, error) {
	if parameters == nil {
		parameters = make(map[string]interface{})
	}
	a := &RuleAction{
		Type:       actionType,
		Parameters: parameters,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the action's shape.
func (a *RuleAction) Validate() error {
	if !validActionTypes[a.Type] {
		return fmt.Errorf("%w: %s", ErrUnsupportedActionType, a.Type)
	}

	for _, key := range requiredActionParams[a.Type] {
		value, ok := a.Parameters[key]
		if !ok || value == nil {
			return WrapError(ValidationError{
				Field:   key,
				Message: fmt.Sprintf("is required for action %s", a.Type),
			}, ErrInvalidAction.Error())
		}
	}
	return nil
}

// Param returns a raw parameter value.
func (a *RuleAction) Param(key string) (interface{}, bool) {
	value, ok := a.Parameters[key]
	return value, ok
}

// StringParam returns a parameter stringified, reporting whether it was set.
func (a *RuleAction) StringParam(key string) (string, bool) {
	value, ok := a.Parameters[key]
	if !ok || value == nil {
		return "", false
	}
	return stringify(value), true
}

// SupportedActionTypes lists every action type the executor understands.
func SupportedActionTypes() []ActionType {
	return []ActionType{
		ActionAssignToAgent,
		ActionAssignToQueue,
		ActionAssignToDepartment,
		ActionSetPriority,
		ActionAddTags,
		ActionRemoveTags,
		ActionSetCustomField,
		ActionRouteToFallback,
	}
}
