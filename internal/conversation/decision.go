package conversation

// TriggerResult records one upstream trigger firing (sentiment drop, explicit
// agent request, repeated question, ...). Detection itself happens outside the
// router; routing rules only inspect the results.
type TriggerResult struct {
	Type       string                 `json:"type"`               // Trigger type (sentiment, keyword, escalation, ...)
	Confidence float64                `json:"confidence"`         // Detector confidence in [0, 1]
	Reason     string                 `json:"reason,omitempty"`   // Human-readable explanation
	Metadata   map[string]interface{} `json:"metadata,omitempty"` // Detector-specific details
}

// HandoffDecision is the upstream verdict that a conversation should be handed
// to a human, together with the evidence. The routing engine reads it to match
// trigger conditions and may raise or lower Priority via a priority action.
type HandoffDecision struct {
	ShouldHandoff  bool            `json:"should_handoff"`   // Whether handoff was requested at all
	Priority       Priority        `json:"priority"`         // Current handling priority; actions may override
	TriggerResults []TriggerResult `json:"trigger_results"`  // Ordered by firing time, first fired first
	Reason         string          `json:"reason,omitempty"` // Aggregate explanation from the detector
}

// FirstTrigger returns the first trigger that fired, if any.
func (d *HandoffDecision) FirstTrigger() (*TriggerResult, bool) {
	if len(d.TriggerResults) == 0 {
		return nil, false
	}
	return &d.TriggerResults[0], true
}
