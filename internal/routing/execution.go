package routing

import "conversation-router/internal/conversation"

// Metadata side-channel keys written by action handlers. Downstream consumers
// (ticket creation, queue pollers) read them off the evaluation metadata after
// a match.
const (
	MetadataKeyAssignment   = "routing_assignment"
	MetadataKeyPriority     = "routing_priority"
	MetadataKeyTags         = "routing_tags"
	MetadataKeyCustomFields = "routing_custom_fields"
	MetadataKeyFallback     = "routing_fallback"
)

// Execution is the scratch state one evaluation works on: read-only views of
// the conversation and handoff decision, and the single mutable metadata map
// action handlers write into. Conditions only read; actions only write their
// declared keys (plus the decision's priority for set_priority).
type Execution struct {
	Conversation *conversation.Conversation
	Decision     *conversation.HandoffDecision
	Metadata     map[string]interface{}
}

// NewExecution assembles an execution context. A nil metadata map is replaced
// with an empty one so action handlers can always write.
func NewExecution(conv *conversation.Conversation, decision *conversation.HandoffDecision, metadata map[string]interface{}) *Execution {
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	return &Execution{
		Conversation: conv,
		Decision:     decision,
		Metadata:     metadata,
	}
}

// tags reads the accumulated routing tags, tolerating the []interface{} shape
// a JSON round-trip produces.
func (x *Execution) tags() []string {
	raw, ok := x.Metadata[MetadataKeyTags]
	if !ok {
		return nil
	}
	switch value := raw.(type) {
	case []string:
		return value
	case []interface{}:
		out := make([]string, 0, len(value))
		for _, item := range value {
			out = append(out, stringify(item))
		}
		return out
	}
	return nil
}

func (x *Execution) setTags(tags []string) {
	x.Metadata[MetadataKeyTags] = tags
}

// customFields returns the nested custom-field map, creating it on first use.
func (x *Execution) customFields() map[string]interface{} {
	if existing, ok := x.Metadata[MetadataKeyCustomFields].(map[string]interface{}); ok {
		return existing
	}
	fields := make(map[string]interface{})
	x.Metadata[MetadataKeyCustomFields] = fields
	return fields
}
