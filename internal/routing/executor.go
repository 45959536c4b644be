package routing

import (
	"fmt"

	"conversation-router/internal/common/logging"
	"conversation-router/internal/conversation"
)

// actionOutcome is a successful handler's report: how the action ended and
// the decision signal it contributes. Failing handlers return an error
// instead.
type actionOutcome struct {
	Status ActionStatus
	Detail string
	Signal RoutingDecision
}

// actionHandler applies one action to the execution state.
type actionHandler func(exec *Execution, action *RuleAction) (actionOutcome, error)

// ActionExecutor runs the actions of a matched rule in declaration order. A
// failing action never stops the rest; its failure is recorded and execution
// moves on. The rule's decision is the last non-continue signal any action
// produced, or continue when none did.
type ActionExecutor struct {
	logger   logging.Logger
	handlers map[ActionType]actionHandler
}

// NewActionExecutor builds an executor with every supported action handler
// registered. A nil logger falls back to the global logger.
func NewActionExecutor(logger logging.Logger) *ActionExecutor {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &ActionExecutor{
		logger: logger,
		handlers: map[ActionType]actionHandler{
			ActionAssignToAgent:      assignTo("agent", "agent_id", DecisionAssigned),
			ActionAssignToQueue:      assignTo("queue", "queue_name", DecisionContinue),
			ActionAssignToDepartment: assignTo("department", "department", DecisionContinue),
			ActionSetPriority:        setPriority,
			ActionAddTags:            addTags,
			ActionRemoveTags:         removeTags,
			ActionSetCustomField:     setCustomField,
			ActionRouteToFallback:    routeToFallback,
		},
	}
}

// Execute runs the actions in order and returns the per-action outcomes plus
// the combined decision signal.
func (e *ActionExecutor) Execute(exec *Execution, ruleName string, actions []*RuleAction) ([]AppliedAction, RoutingDecision) {
	applied := make([]AppliedAction, 0, len(actions))
	decision := DecisionContinue

	for _, action := range actions {
		record, signal := e.runOne(exec, ruleName, action)
		applied = append(applied, record)
		if signal != DecisionContinue {
			decision = signal
		}
	}
	return applied, decision
}

// runOne dispatches a single action, converting handler errors and panics
// into failed action records.
func (e *ActionExecutor) runOne(exec *Execution, ruleName string, action *RuleAction) (record AppliedAction, signal RoutingDecision) {
	record = AppliedAction{Type: action.Type}
	signal = DecisionContinue

	defer func() {
		if r := recover(); r != nil {
			record.Status = ActionStatusFailed
			record.Error = fmt.Sprintf("action panicked: %v", r)
			signal = DecisionContinue
			e.logger.Error("action handler panicked", fmt.Errorf("%v", r),
				logging.String("rule", ruleName),
				logging.String("action", string(action.Type)))
		}
	}()

	handler, ok := e.handlers[action.Type]
	if !ok {
		record.Status = ActionStatusFailed
		record.Error = fmt.Sprintf("%s: %s", ErrUnsupportedActionType.Error(), action.Type)
		e.logger.Warn("skipping unsupported action",
			logging.String("rule", ruleName),
			logging.String("action", string(action.Type)))
		return record, signal
	}

	outcome, err := handler(exec, action)
	if err != nil {
		record.Status = ActionStatusFailed
		record.Error = err.Error()
		e.logger.Warn("action failed",
			logging.String("rule", ruleName),
			logging.String("action", string(action.Type)),
			logging.Err(err))
		return record, signal
	}

	record.Status = outcome.Status
	record.Detail = outcome.Detail
	return record, outcome.Signal
}

// assignTo builds the handler for one of the three assignment actions. Only
// an agent assignment claims the conversation outright; queue and department
// assignments are hints the caller resolves later, so they leave the decision
// signal at continue.
func assignTo(kind, paramKey string, signal RoutingDecision) actionHandler {
	return func(exec *Execution, action *RuleAction) (actionOutcome, error) {
		target, ok := action.StringParam(paramKey)
		if !ok || target == "" {
			return actionOutcome{}, fmt.Errorf("parameter %q is empty", paramKey)
		}

		exec.Metadata[MetadataKeyAssignment] = map[string]interface{}{
			"type":   kind,
			paramKey: target,
		}

		return actionOutcome{
			Status: ActionStatusApplied,
			Detail: fmt.Sprintf("assigned to %s %q", kind, target),
			Signal: signal,
		}, nil
	}
}

// setPriority overrides the handoff priority in place and records the
// override, including the value it replaced, in the metadata side channel.
func setPriority(exec *Execution, action *RuleAction) (actionOutcome, error) {
	raw, _ := action.Param("priority")
	priority, err := conversation.ParsePriority(raw)
	if err != nil {
		return actionOutcome{}, err
	}

	override := map[string]interface{}{
		"priority": priority.String(),
	}
	if exec.Decision != nil {
		override["previous"] = exec.Decision.Priority.String()
		exec.Decision.Priority = priority
	}
	exec.Metadata[MetadataKeyPriority] = override

	return actionOutcome{
		Status: ActionStatusApplied,
		Detail: fmt.Sprintf("priority set to %s", priority),
		Signal: DecisionContinue,
	}, nil
}

func addTags(exec *Execution, action *RuleAction) (actionOutcome, error) {
	raw, _ := action.Param("tags")
	tags, err := toStringList(raw)
	if err != nil {
		return actionOutcome{}, WrapError(err, "tags parameter")
	}
	if len(tags) == 0 {
		return actionOutcome{Status: ActionStatusSkipped, Detail: "no tags to add", Signal: DecisionContinue}, nil
	}

	existing := exec.tags()
	added := 0
	for _, tag := range tags {
		if tag == "" || SliceContains(existing, tag) {
			continue
		}
		existing = append(existing, tag)
		added++
	}
	exec.setTags(existing)

	return actionOutcome{
		Status: ActionStatusApplied,
		Detail: fmt.Sprintf("added %d of %d tags", added, len(tags)),
		Signal: DecisionContinue,
	}, nil
}

// removeTags drops the named tags. Removing tags that were never set is a
// successful no-op.
func removeTags(exec *Execution, action *RuleAction) (actionOutcome, error) {
	raw, _ := action.Param("tags")
	tags, err := toStringList(raw)
	if err != nil {
		return actionOutcome{}, WrapError(err, "tags parameter")
	}
	if len(tags) == 0 {
		return actionOutcome{Status: ActionStatusSkipped, Detail: "no tags to remove", Signal: DecisionContinue}, nil
	}

	existing := exec.tags()
	if len(existing) == 0 {
		return actionOutcome{Status: ActionStatusApplied, Detail: "removed 0 tags", Signal: DecisionContinue}, nil
	}

	kept := make([]string, 0, len(existing))
	removed := 0
	for _, tag := range existing {
		if SliceContains(tags, tag) {
			removed++
			continue
		}
		kept = append(kept, tag)
	}
	exec.setTags(kept)

	return actionOutcome{
		Status: ActionStatusApplied,
		Detail: fmt.Sprintf("removed %d tags", removed),
		Signal: DecisionContinue,
	}, nil
}

func setCustomField(exec *Execution, action *RuleAction) (actionOutcome, error) {
	name, ok := action.StringParam("field_name")
	if !ok || name == "" {
		return actionOutcome{}, fmt.Errorf("parameter %q is empty", "field_name")
	}

	value, _ := action.Param("value")
	exec.customFields()[name] = value

	return actionOutcome{
		Status: ActionStatusApplied,
		Detail: fmt.Sprintf("set custom field %q", name),
		Signal: DecisionContinue,
	}, nil
}

func routeToFallback(exec *Execution, action *RuleAction) (actionOutcome, error) {
	reason, ok := action.StringParam("reason")
	if !ok || reason == "" {
		reason = "unspecified"
	}

	exec.Metadata[MetadataKeyFallback] = map[string]interface{}{
		"reason": reason,
	}

	return actionOutcome{
		Status: ActionStatusApplied,
		Detail: fmt.Sprintf("fallback requested: %s", reason),
		Signal: DecisionFallback,
	}, nil
}
