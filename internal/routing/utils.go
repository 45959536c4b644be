package routing

import "fmt"

// ValidatorFunc represents a validation function
type ValidatorFunc func() error

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// ValidateRequired checks if a string field is not empty
func ValidateRequired(field, value, fieldName string) error {
	if value == "" {
		return ValidationError{
			Field:   fieldName,
			Message: "is required",
			Value:   value,
		}
	}
	return nil
}

// ValidateIntRange checks that a value lies in [min, max]
func ValidateIntRange(value, min, max int, fieldName string) error {
	if value < min || value > max {
		return ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("must be between %d and %d", min, max),
			Value:   value,
		}
	}
	return nil
}

// ValidateCountRange checks that a collection size lies in [min, max]
func ValidateCountRange(count, min, max int, fieldName string) error {
	if count < min || count > max {
		return ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("must contain between %d and %d items", min, max),
			Value:   count,
		}
	}
	return nil
}

// ValidateInSet checks if a value is in a set of valid values
func ValidateInSet(value string, validValues []string, fieldName string) error {
	if value == "" {
		return nil // Allow empty values unless required
	}

	for _, valid := range validValues {
		if value == valid {
			return nil
		}
	}

	return ValidationError{
		Field:   fieldName,
		Message: fmt.Sprintf("must be one of: %v", validValues),
		Value:   value,
	}
}

// ValidateConditional validates a field only if a condition is true
func ValidateConditional(condition bool, validator ValidatorFunc) error {
	if condition {
		return validator()
	}
	return nil
}

// RunValidators runs multiple validators and returns the first error
func RunValidators(validators ...ValidatorFunc) error {
	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

// BuildValidators builds a slice of validators for common validation patterns
func BuildValidators(validators ...ValidatorFunc) []ValidatorFunc {
	return validators
}

// SliceContains checks if a slice contains a value
func SliceContains[T comparable](slice []T, value T) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// CopyStringSlice creates a copy of a string slice
func CopyStringSlice(original []string) []string {
	if original == nil {
		return nil
	}
	out := make([]string, len(original))
	copy(out, original)
	return out
}

// CopyInt64Map creates a copy of an int64 map
func CopyInt64Map(original map[string]int64) map[string]int64 {
	if original == nil {
		return nil
	}

	out := make(map[string]int64, len(original))
	for k, v := range original {
		out[k] = v
	}
	return out
}

// CopyInterfaceMap creates a deep copy of an interface map. Nested
// map[string]interface{}, []interface{} and []string values are copied too,
// which covers everything the action handlers write into the metadata side
// channel.
func CopyInterfaceMap(original map[string]interface{}) map[string]interface{} {
	if original == nil {
		return nil
	}

	out := make(map[string]interface{}, len(original))
	for k, v := range original {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch value := v.(type) {
	case map[string]interface{}:
		return CopyInterfaceMap(value)
	case []interface{}:
		out := make([]interface{}, len(value))
		for i, item := range value {
			out[i] = copyValue(item)
		}
		return out
	case []string:
		return CopyStringSlice(value)
	default:
		return v
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// WrapErrorf wraps an error with formatted additional context
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	context := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", context, err)
}
