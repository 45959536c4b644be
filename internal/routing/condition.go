package routing

import (
	"fmt"
	"strings"
)

// ConditionType identifies which part of the conversation state a condition
// inspects.
type ConditionType string

const (
	ConditionMessageContent ConditionType = "message_content" // Last user message (content, speaker, length)
	ConditionUserAttribute  ConditionType = "user_attribute"  // User id or CRM attribute
	ConditionContextField   ConditionType = "context_field"   // Evaluation metadata, falling back to conversation metadata
	ConditionEntity         ConditionType = "entity"          // Extracted entities by type
	ConditionMetadata       ConditionType = "metadata"        // Conversation metadata only
	ConditionTimeBased      ConditionType = "time_based"      // Current wall-clock time
	ConditionTrigger        ConditionType = "trigger"         // First trigger result of the handoff decision
)

// Operator is the comparison a condition applies to the extracted value.
type Operator string

const (
	// Equality operators
	OpEquals    Operator = "equals"
	OpNotEquals Operator = "not_equals"

	// String operators
	OpContains     Operator = "contains"
	OpNotContains  Operator = "not_contains"
	OpStartsWith   Operator = "starts_with"
	OpEndsWith     Operator = "ends_with"
	OpRegexMatches Operator = "regex_matches"

	// Numeric operators
	OpGreaterThan  Operator = "gt"
	OpLessThan     Operator = "lt"
	OpGreaterEqual Operator = "gte"
	OpLessEqual    Operator = "lte"
	OpInRange      Operator = "in_range"

	// List operators
	OpInList    Operator = "in_list"
	OpNotInList Operator = "not_in_list"

	// Boolean operators
	OpIsTrue  Operator = "is_true"
	OpIsFalse Operator = "is_false"

	// Existence operators
	OpExists    Operator = "exists"
	OpNotExists Operator = "not_exists"

	// Time operators, compare the current clock time against an HH:MM value
	OpBefore Operator = "before"
	OpAfter  Operator = "after"
)

var validConditionTypes = map[ConditionType]bool{
	ConditionMessageContent: true,
	ConditionUserAttribute:  true,
	ConditionContextField:   true,
	ConditionEntity:         true,
	ConditionMetadata:       true,
	ConditionTimeBased:      true,
	ConditionTrigger:        true,
}

var validOperators = map[Operator]bool{
	OpEquals: true, OpNotEquals: true,
	OpContains: true, OpNotContains: true, OpStartsWith: true, OpEndsWith: true, OpRegexMatches: true,
	OpGreaterThan: true, OpLessThan: true, OpGreaterEqual: true, OpLessEqual: true, OpInRange: true,
	OpInList: true, OpNotInList: true,
	OpIsTrue: true, OpIsFalse: true,
	OpExists: true, OpNotExists: true,
	OpBefore: true, OpAfter: true,
}

var (
	stringOperators    = []Operator{OpContains, OpNotContains, OpStartsWith, OpEndsWith, OpRegexMatches}
	numericOperators   = []Operator{OpGreaterThan, OpLessThan, OpGreaterEqual, OpLessEqual}
	listOperators      = []Operator{OpInList, OpNotInList}
	booleanOperators   = []Operator{OpIsTrue, OpIsFalse}
	existenceOperators = []Operator{OpExists, OpNotExists}
	timeOperators      = []Operator{OpBefore, OpAfter}
)

// Fields a message_content condition may address.
var messageContentFields = []string{"content", "speaker", "length"}

// Fields a time_based condition may address; clock operators take no field.
var timeBasedFields = []string{"hour", "weekday"}

// Scalar fields a trigger condition may address; "metadata.<key>" is also allowed.
var triggerFields = []string{"type", "confidence", "reason"}

// Condition is a single typed predicate over conversation state. All of a
// rule's conditions must hold for the rule to match.
type Condition struct {
	Type          ConditionType `json:"type"`                     // What part of the state to inspect
	Field         string        `json:"field,omitempty"`          // Field within that part; see per-type rules
	Operator      Operator      `json:"operator"`                 // Comparison to apply
	Value         interface{}   `json:"value,omitempty"`          // Comparison operand; type must match the operator family
	Negate        bool          `json:"negate,omitempty"`         // Invert the final outcome
	CaseSensitive bool          `json:"case_sensitive,omitempty"` // String and list comparisons are case-insensitive unless set
}

// NewCondition builds a validated condition. Authoring mistakes (unknown type
// or operator, missing field, operand of the wrong kind) surface here, not at
// evaluation time.
func NewCondition(condType ConditionType, field string, operator Operator, value interface{}) (*Condition, error) {
	c := &Condition{
		Type:     condType,
		Field:    field,
		Operator: operator,
		Value:    value,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// WithNegate inverts the condition's final outcome.
func (c *Condition) WithNegate(negate bool) *Condition {
	c.Negate = negate
	return c
}

// WithCaseSensitive switches string and list comparisons to exact case.
func (c *Condition) WithCaseSensitive(caseSensitive bool) *Condition {
	c.CaseSensitive = caseSensitive
	return c
}

// Validate checks the condition's shape. Evaluation assumes a validated
// condition and fails closed on anything that slips through.
func (c *Condition) Validate() error {
	if !validConditionTypes[c.Type] {
		return fmt.Errorf("%w: %s", ErrUnsupportedConditionType, c.Type)
	}
	if !validOperators[c.Operator] {
		return fmt.Errorf("%w: %s", ErrUnsupportedOperator, c.Operator)
	}

	validators := BuildValidators(
		func() error { return c.validateTimeOperatorPairing() },
		func() error { return c.validateField() },
		func() error { return c.validateValue() },
	)

	if err := RunValidators(validators...); err != nil {
		return WrapError(err, ErrInvalidCondition.Error())
	}
	return nil
}

// validateTimeOperatorPairing ties the clock operators to time_based
// conditions: they compare the current clock time, so they take no field and
// make no sense on any other condition type.
func (c *Condition) validateTimeOperatorPairing() error {
	if !SliceContains(timeOperators, c.Operator) {
		return nil
	}
	if c.Type != ConditionTimeBased {
		return ValidationError{
			Field:   "operator",
			Message: fmt.Sprintf("operator %s is only valid on time_based conditions", c.Operator),
			Value:   c.Operator,
		}
	}
	if c.Field != "" {
		return ValidationError{
			Field:   "field",
			Message: fmt.Sprintf("operator %s compares the current clock time and takes no field", c.Operator),
			Value:   c.Field,
		}
	}
	return nil
}

// validateField enforces the per-type field rules. Field is required for every
// type except time_based with a clock operator, where the current time is the
// implied subject.
func (c *Condition) validateField() error {
	if c.Field == "" {
		if c.Type == ConditionTimeBased && SliceContains(timeOperators, c.Operator) {
			return nil
		}
		return ValidateRequired("field", c.Field, "condition field")
	}

	switch c.Type {
	case ConditionMessageContent:
		return ValidateInSet(c.Field, messageContentFields, "message_content field")
	case ConditionTimeBased:
		return ValidateInSet(c.Field, timeBasedFields, "time_based field")
	case ConditionTrigger:
		if strings.HasPrefix(c.Field, "metadata.") && len(c.Field) > len("metadata.") {
			return nil
		}
		return ValidateInSet(c.Field, triggerFields, "trigger field")
	}
	return nil
}

// validateValue enforces that the operand's type matches the operator family.
func (c *Condition) validateValue() error {
	switch {
	case SliceContains(existenceOperators, c.Operator), SliceContains(booleanOperators, c.Operator):
		// No operand; presence or truthiness of the extracted value decides.
		return nil

	case c.Operator == OpEquals || c.Operator == OpNotEquals:
		if c.Value == nil {
			return ValidationError{Field: "value", Message: "is required for equality operators", Value: c.Value}
		}
		return nil

	case SliceContains(stringOperators, c.Operator):
		if _, ok := c.Value.(string); !ok {
			return ValidationError{
				Field:   "value",
				Message: fmt.Sprintf("operator %s requires a string value", c.Operator),
				Value:   c.Value,
			}
		}
		return nil

	case SliceContains(numericOperators, c.Operator):
		if _, err := toFloat64(c.Value); err != nil {
			return ValidationError{
				Field:   "value",
				Message: fmt.Sprintf("operator %s requires a numeric value", c.Operator),
				Value:   c.Value,
			}
		}
		return nil

	case c.Operator == OpInRange:
		if _, _, err := toNumericRange(c.Value); err != nil {
			return ValidationError{
				Field:   "value",
				Message: "operator in_range requires a two-element numeric list",
				Value:   c.Value,
			}
		}
		return nil

	case SliceContains(listOperators, c.Operator):
		if _, err := toStringList(c.Value); err != nil {
			return ValidationError{
				Field:   "value",
				Message: fmt.Sprintf("operator %s requires a list value", c.Operator),
				Value:   c.Value,
			}
		}
		return nil

	case SliceContains(timeOperators, c.Operator):
		valueStr, ok := c.Value.(string)
		if !ok {
			return ValidationError{
				Field:   "value",
				Message: fmt.Sprintf("operator %s requires an HH:MM string value", c.Operator),
				Value:   c.Value,
			}
		}
		if _, err := parseClock(valueStr); err != nil {
			return ValidationError{
				Field:   "value",
				Message: fmt.Sprintf("operator %s requires an HH:MM string value", c.Operator),
				Value:   c.Value,
			}
		}
		return nil
	}
	return nil
}

// SupportedConditionTypes lists every condition type the evaluator understands.
func SupportedConditionTypes() []ConditionType {
	return []ConditionType{
		ConditionMessageContent,
		ConditionUserAttribute,
		ConditionContextField,
		ConditionEntity,
		ConditionMetadata,
		ConditionTimeBased,
		ConditionTrigger,
	}
}

// SupportedOperators lists every operator the evaluator understands.
func SupportedOperators() []Operator {
	return []Operator{
		OpEquals, OpNotEquals,
		OpContains, OpNotContains, OpStartsWith, OpEndsWith, OpRegexMatches,
		OpGreaterThan, OpLessThan, OpGreaterEqual, OpLessEqual, OpInRange,
		OpInList, OpNotInList,
		OpIsTrue, OpIsFalse,
		OpExists, OpNotExists,
		OpBefore, OpAfter,
	}
}
