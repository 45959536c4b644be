package routing

import "errors"

var (
	// ErrRuleNotFound is returned when a routing rule is not found by name
	ErrRuleNotFound = errors.New("routing rule not found")

	// ErrDuplicateRule is returned when adding a rule whose name is already taken
	ErrDuplicateRule = errors.New("routing rule already exists")

	// ErrInvalidRule is returned when a routing rule fails validation
	ErrInvalidRule = errors.New("invalid routing rule")

	// ErrInvalidCondition is returned when a rule condition fails validation
	ErrInvalidCondition = errors.New("invalid rule condition")

	// ErrInvalidAction is returned when a rule action fails validation
	ErrInvalidAction = errors.New("invalid rule action")

	// ErrUnsupportedOperator is returned when an unsupported operator is used
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrUnsupportedConditionType is returned when an unsupported condition type is used
	ErrUnsupportedConditionType = errors.New("unsupported condition type")

	// ErrUnsupportedActionType is returned when an unsupported action type is used
	ErrUnsupportedActionType = errors.New("unsupported action type")

	// ErrInvalidConfig is returned when a routing configuration fails validation
	ErrInvalidConfig = errors.New("invalid routing config")

	// ErrNilConfig is returned when an engine is built without a configuration
	ErrNilConfig = errors.New("routing config is required")
)
