package routing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"conversation-router/internal/common/logging"
)

// ConditionEvaluator evaluates conditions against an execution context.
//
// Evaluation is fail-closed: any malformed input that slipped past
// construction validation (bad regex, non-numeric actual value, unknown
// operator) makes the condition evaluate false with a logged warning, never
// an error or panic.
type ConditionEvaluator struct {
	// regexes caches compiled patterns; a nil entry marks a known-bad pattern
	// so it is only logged once.
	regexes map[string]*regexp.Regexp
	mu      sync.RWMutex

	clock  func() time.Time
	logger logging.Logger
}

// NewConditionEvaluator creates an evaluator using the given logger and the
// wall clock.
func NewConditionEvaluator(logger logging.Logger) *ConditionEvaluator {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &ConditionEvaluator{
		regexes: make(map[string]*regexp.Regexp),
		clock:   time.Now,
		logger:  logger,
	}
}

// WithClock replaces the evaluator's time source. Time-based conditions and
// tests use it; everything else ignores it.
func (e *ConditionEvaluator) WithClock(clock func() time.Time) *ConditionEvaluator {
	if clock != nil {
		e.clock = clock
	}
	return e
}

// Evaluate reports whether the condition holds for the execution context.
func (e *ConditionEvaluator) Evaluate(cond *Condition, exec *Execution) bool {
	return e.Check(cond, exec).Matched
}

// Check evaluates one condition and returns the diagnostic record dry runs
// and rule tests expose: the extracted actual value, the expected operand,
// the outcome, and a detail string on fail-closed paths.
func (e *ConditionEvaluator) Check(cond *Condition, exec *Execution) ConditionCheck {
	check := ConditionCheck{
		Type:     cond.Type,
		Field:    cond.Field,
		Operator: cond.Operator,
		Expected: cond.Value,
	}

	actual, found := e.extractValue(cond, exec)
	if found {
		check.Actual = actual
	}

	matched, detail := e.applyOperator(cond, actual, found)
	check.Detail = detail

	// Negation inverts the final outcome, fail-closed results included.
	if cond.Negate {
		matched = !matched
	}
	check.Matched = matched
	return check
}

// extractValue resolves the value a condition inspects. The second return
// reports presence; a missing value matches only not_exists and is_false.
func (e *ConditionEvaluator) extractValue(cond *Condition, exec *Execution) (interface{}, bool) {
	switch cond.Type {
	case ConditionMessageContent:
		if exec.Conversation == nil {
			return nil, false
		}
		msg, ok := exec.Conversation.LastUserMessage()
		if !ok {
			return nil, false
		}
		switch cond.Field {
		case "content":
			return msg.Content, true
		case "speaker":
			return string(msg.Speaker), true
		case "length":
			return utf8.RuneCountInString(msg.Content), true
		}
		return nil, false

	case ConditionUserAttribute:
		if exec.Conversation == nil {
			return nil, false
		}
		if cond.Field == "user_id" {
			if exec.Conversation.UserID == "" {
				return nil, false
			}
			return exec.Conversation.UserID, true
		}
		value, ok := exec.Conversation.UserAttributes[cond.Field]
		return value, ok

	case ConditionContextField:
		if value, ok := exec.Metadata[cond.Field]; ok {
			return value, true
		}
		if exec.Conversation != nil {
			value, ok := exec.Conversation.Metadata[cond.Field]
			return value, ok
		}
		return nil, false

	case ConditionMetadata:
		if exec.Conversation == nil {
			return nil, false
		}
		value, ok := exec.Conversation.Metadata[cond.Field]
		return value, ok

	case ConditionEntity:
		if exec.Conversation == nil {
			return nil, false
		}
		entity, ok := exec.Conversation.FirstEntity(cond.Field)
		if !ok {
			return nil, false
		}
		return entity.Value, true

	case ConditionTimeBased:
		now := e.clock()
		switch cond.Field {
		case "":
			return now.Format("15:04"), true
		case "hour":
			return now.Hour(), true
		case "weekday":
			return strings.ToLower(now.Weekday().String()), true
		}
		return nil, false

	case ConditionTrigger:
		if exec.Decision == nil {
			return nil, false
		}
		trigger, ok := exec.Decision.FirstTrigger()
		if !ok {
			return nil, false
		}
		switch {
		case cond.Field == "type":
			return trigger.Type, true
		case cond.Field == "confidence":
			return trigger.Confidence, true
		case cond.Field == "reason":
			return trigger.Reason, true
		case strings.HasPrefix(cond.Field, "metadata."):
			value, ok := trigger.Metadata[strings.TrimPrefix(cond.Field, "metadata.")]
			return value, ok
		}
		return nil, false
	}

	e.logger.Warn("unknown condition type, treating as no match",
		logging.String("type", string(cond.Type)))
	return nil, false
}

// applyOperator compares the extracted value against the condition's operand.
func (e *ConditionEvaluator) applyOperator(cond *Condition, actual interface{}, found bool) (bool, string) {
	missing := !found || actual == nil

	switch cond.Operator {
	case OpExists:
		return !missing, ""
	case OpNotExists:
		return missing, ""
	case OpIsTrue, OpIsFalse:
		return e.applyBoolean(cond.Operator, actual, missing)
	}

	// Every remaining operator needs a present value.
	if missing {
		return false, "value missing"
	}

	switch cond.Operator {
	case OpEquals:
		return e.compareStrings(stringify(actual), stringify(cond.Value), cond.CaseSensitive), ""
	case OpNotEquals:
		return !e.compareStrings(stringify(actual), stringify(cond.Value), cond.CaseSensitive), ""

	case OpContains, OpNotContains, OpStartsWith, OpEndsWith, OpRegexMatches:
		return e.applyString(cond, stringify(actual))

	case OpGreaterThan, OpLessThan, OpGreaterEqual, OpLessEqual:
		return e.applyNumeric(cond, actual)

	case OpInRange:
		actualNum, err := toFloat64(actual)
		if err != nil {
			e.warnCoercion(cond, actual)
			return false, "non-numeric actual value"
		}
		lo, hi, err := toNumericRange(cond.Value)
		if err != nil {
			return false, "malformed range operand"
		}
		return actualNum >= lo && actualNum <= hi, ""

	case OpInList, OpNotInList:
		list, err := toStringList(cond.Value)
		if err != nil {
			return false, "malformed list operand"
		}
		contains := false
		actualStr := stringify(actual)
		for _, item := range list {
			if e.compareStrings(actualStr, item, cond.CaseSensitive) {
				contains = true
				break
			}
		}
		if cond.Operator == OpInList {
			return contains, ""
		}
		return !contains, ""

	case OpBefore, OpAfter:
		return e.applyTime(cond, actual)
	}

	e.logger.Warn("unknown operator, treating as no match",
		logging.String("operator", string(cond.Operator)),
		logging.String("type", string(cond.Type)))
	return false, "unknown operator"
}

func (e *ConditionEvaluator) applyBoolean(op Operator, actual interface{}, missing bool) (bool, string) {
	if missing {
		// A missing value is not true; it satisfies is_false.
		return op == OpIsFalse, ""
	}

	value, ok := truthiness(actual)
	if !ok {
		return false, "value is not boolean-like"
	}
	if op == OpIsTrue {
		return value, ""
	}
	return !value, ""
}

func (e *ConditionEvaluator) applyString(cond *Condition, actual string) (bool, string) {
	operand := cond.Value.(string) // validated at construction

	if cond.Operator == OpRegexMatches {
		re, err := e.compiledRegex(operand, cond.CaseSensitive)
		if err != nil {
			e.logger.Warn("invalid regex pattern, treating as no match",
				logging.String("pattern", operand),
				logging.String("field", cond.Field))
			return false, "invalid regex pattern"
		}
		return re.MatchString(actual), ""
	}

	if !cond.CaseSensitive {
		actual = strings.ToLower(actual)
		operand = strings.ToLower(operand)
	}

	switch cond.Operator {
	case OpContains:
		return strings.Contains(actual, operand), ""
	case OpNotContains:
		return !strings.Contains(actual, operand), ""
	case OpStartsWith:
		return strings.HasPrefix(actual, operand), ""
	case OpEndsWith:
		return strings.HasSuffix(actual, operand), ""
	}
	return false, "unknown string operator"
}

func (e *ConditionEvaluator) applyNumeric(cond *Condition, actual interface{}) (bool, string) {
	actualNum, err := toFloat64(actual)
	if err != nil {
		e.warnCoercion(cond, actual)
		return false, "non-numeric actual value"
	}
	operand, err := toFloat64(cond.Value)
	if err != nil {
		return false, "non-numeric operand"
	}

	switch cond.Operator {
	case OpGreaterThan:
		return actualNum > operand, ""
	case OpLessThan:
		return actualNum < operand, ""
	case OpGreaterEqual:
		return actualNum >= operand, ""
	case OpLessEqual:
		return actualNum <= operand, ""
	}
	return false, "unknown numeric operator"
}

func (e *ConditionEvaluator) applyTime(cond *Condition, actual interface{}) (bool, string) {
	actualMinutes, err := parseClock(stringify(actual))
	if err != nil {
		return false, "malformed clock value"
	}
	operandMinutes, err := parseClock(cond.Value.(string)) // validated at construction
	if err != nil {
		return false, "malformed clock operand"
	}

	if cond.Operator == OpBefore {
		return actualMinutes < operandMinutes, ""
	}
	return actualMinutes > operandMinutes, ""
}

func (e *ConditionEvaluator) warnCoercion(cond *Condition, actual interface{}) {
	e.logger.Warn("non-numeric value in numeric comparison, treating as no match",
		logging.String("type", string(cond.Type)),
		logging.String("field", cond.Field),
		logging.Any("value", actual))
}

// compareStrings applies the configured case sensitivity.
func (e *ConditionEvaluator) compareStrings(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// compiledRegex returns the cached compiled pattern, compiling on first use.
// Case-insensitive matching is folded into the pattern itself.
func (e *ConditionEvaluator) compiledRegex(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	key := pattern
	if !caseSensitive {
		key = "(?i)" + pattern
	}

	e.mu.RLock()
	re, cached := e.regexes[key]
	e.mu.RUnlock()
	if cached {
		if re == nil {
			return nil, fmt.Errorf("invalid regex pattern")
		}
		return re, nil
	}

	re, err := regexp.Compile(key)
	e.mu.Lock()
	if err != nil {
		e.regexes[key] = nil
	} else {
		e.regexes[key] = re
	}
	e.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return re, nil
}

// stringify renders a value the way rule authors expect to compare it.
func stringify(v interface{}) string {
	return fmt.Sprintf("%v", v)
}

// truthiness interprets a value as a boolean: bools directly, plus the
// strings "true" and "false" in any case. Anything else is not boolean-like.
func truthiness(v interface{}) (bool, bool) {
	switch value := v.(type) {
	case bool:
		return value, true
	case string:
		switch strings.ToLower(value) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// toFloat64 coerces numbers and numeric strings to float64.
func toFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", value)
	}
}

// toNumericRange interprets a value as an inclusive [lo, hi] pair.
func toNumericRange(value interface{}) (float64, float64, error) {
	var items []interface{}
	switch v := value.(type) {
	case []interface{}:
		items = v
	case []float64:
		for _, item := range v {
			items = append(items, item)
		}
	case []int:
		for _, item := range v {
			items = append(items, item)
		}
	default:
		return 0, 0, fmt.Errorf("range requires a list, got %T", value)
	}

	if len(items) != 2 {
		return 0, 0, fmt.Errorf("range requires exactly two bounds, got %d", len(items))
	}

	lo, err := toFloat64(items[0])
	if err != nil {
		return 0, 0, err
	}
	hi, err := toFloat64(items[1])
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

// toStringList coerces a slice operand to its stringified members.
func toStringList(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = stringify(item)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("list operator requires a slice, got %T", value)
	}
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
