package models

import (
	"fmt"
	"time"

	"conversation-router/internal/conversation"
	"conversation-router/internal/routing"
)

// API-friendly models for Swagger documentation
// Rule payloads pass through the validating constructors in the routing
// package, so malformed rules are rejected before they reach the engine.

// RuleConditionAPI represents a rule condition in API requests and responses
type RuleConditionAPI struct {
	Type          string      `json:"type"`
	Field         string      `json:"field,omitempty"`
	Operator      string      `json:"operator"`
	Value         interface{} `json:"value,omitempty"`
	Negate        bool        `json:"negate,omitempty"`
	CaseSensitive bool        `json:"case_sensitive,omitempty"`
}

// RuleActionAPI represents a rule action in API requests and responses
type RuleActionAPI struct {
	Type       string                 `json:"type"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// RoutingRuleAPI represents a routing rule for API responses
type RoutingRuleAPI struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Priority    int                `json:"priority"`
	Enabled     bool               `json:"enabled"`
	Version     int                `json:"version"`
	Conditions  []RuleConditionAPI `json:"conditions"`
	Actions     []RuleActionAPI    `json:"actions"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// RuleRequest is the payload for creating or replacing a routing rule
type RuleRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Priority    int                `json:"priority"`
	Conditions  []RuleConditionAPI `json:"conditions"`
	Actions     []RuleActionAPI    `json:"actions"`
}

// RouteRequest is the payload for evaluating a conversation against the rule set.
// The same payload drives single-rule dry runs.
type RouteRequest struct {
	Conversation *conversation.Conversation    `json:"conversation"`
	Decision     *conversation.HandoffDecision `json:"decision,omitempty"`
	Metadata     map[string]interface{}        `json:"metadata,omitempty"`
}

// RouteResponse wraps the engine result for API responses. When no rule
// matched, Result is omitted and DefaultQueue carries the configured fallback.
type RouteResponse struct {
	Matched      bool                   `json:"matched"`
	Result       *routing.RoutingResult `json:"result,omitempty"`
	DefaultQueue string                 `json:"default_queue,omitempty"`
}

// ValidationResponse reports configuration validation findings
type ValidationResponse struct {
	Valid    bool                        `json:"valid"`
	Findings []routing.ValidationFinding `json:"findings"`
}

// Conversion functions to convert between API models and internal models

// ToRoutingRuleAPI converts routing.RoutingRule to RoutingRuleAPI
func ToRoutingRuleAPI(rule *routing.RoutingRule) *RoutingRuleAPI {
	if rule == nil {
		return nil
	}

	api := &RoutingRuleAPI{
		Name:        rule.Name,
		Description: rule.Description,
		Priority:    rule.Priority,
		Enabled:     rule.Metadata.Enabled,
		Version:     rule.Metadata.Version,
		CreatedAt:   rule.Metadata.CreatedAt,
		UpdatedAt:   rule.Metadata.UpdatedAt,
	}

	// Convert conditions
	api.Conditions = make([]RuleConditionAPI, len(rule.Conditions))
	for i, cond := range rule.Conditions {
		api.Conditions[i] = RuleConditionAPI{
			Type:          string(cond.Type),
			Field:         cond.Field,
			Operator:      string(cond.Operator),
			Value:         cond.Value,
			Negate:        cond.Negate,
			CaseSensitive: cond.CaseSensitive,
		}
	}

	// Convert actions
	api.Actions = make([]RuleActionAPI, len(rule.Actions))
	for i, action := range rule.Actions {
		api.Actions[i] = RuleActionAPI{
			Type:       string(action.Type),
			Parameters: action.Parameters,
		}
	}

	return api
}

// ToCondition converts the API condition into a validated routing condition
func (c RuleConditionAPI) ToCondition() (*routing.Condition, error) {
	cond, err := routing.NewCondition(
		routing.ConditionType(c.Type),
		c.Field,
		routing.Operator(c.Operator),
		c.Value,
	)
	if err != nil {
		return nil, err
	}
	return cond.WithNegate(c.Negate).WithCaseSensitive(c.CaseSensitive), nil
}

// ToAction converts the API action into a validated routing action
func (a RuleActionAPI) ToAction() (*routing.RuleAction, error) {
	return routing.NewRuleAction(routing.ActionType(a.Type), a.Parameters)
}

// ToRoutingRule converts the request into a validated routing rule. The first
// invalid condition or action aborts the conversion with its position in the
// error.
func (r RuleRequest) ToRoutingRule() (*routing.RoutingRule, error) {
	conditions := make([]*routing.Condition, 0, len(r.Conditions))
	for i, c := range r.Conditions {
		cond, err := c.ToCondition()
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", i, err)
		}
		conditions = append(conditions, cond)
	}

	actions := make([]*routing.RuleAction, 0, len(r.Actions))
	for i, a := range r.Actions {
		action, err := a.ToAction()
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, action)
	}

	rule, err := routing.NewRoutingRule(r.Name, r.Priority, conditions, actions)
	if err != nil {
		return nil, err
	}
	if r.Description != "" {
		rule.WithDescription(r.Description)
	}
	return rule, nil
}

// Validate checks that the request carries enough state to evaluate
func (r *RouteRequest) Validate() error {
	if r.Conversation == nil {
		return fmt.Errorf("conversation is required")
	}
	if r.Conversation.ID == "" {
		return fmt.Errorf("conversation.id is required")
	}
	return nil
}
