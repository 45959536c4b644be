// Package conversation defines the input model the routing engine evaluates:
// conversation snapshots produced by the chat platform and handoff decisions
// produced by upstream trigger detection.
//
// The types here are plain data carriers. The engine treats them as read-only
// except for HandoffDecision.Priority, which a priority action may override.
package conversation

import "time"

// Speaker identifies who produced a message.
type Speaker string

const (
	SpeakerUser   Speaker = "user"
	SpeakerAgent  Speaker = "agent"
	SpeakerBot    Speaker = "bot"
	SpeakerSystem Speaker = "system"
)

// Message is a single utterance in a conversation.
type Message struct {
	Speaker   Speaker                `json:"speaker"`            // Who sent the message
	Content   string                 `json:"content"`            // Message text
	Timestamp time.Time              `json:"timestamp"`          // When the message was sent
	Metadata  map[string]interface{} `json:"metadata,omitempty"` // Channel-specific extras (attachments, locale, ...)
}

// Entity is a single value extracted from the conversation by an upstream
// NLU stage, grouped by type (order_id, email, product, ...).
type Entity struct {
	Type       string  `json:"type"`       // Entity type the extractor assigned
	Value      string  `json:"value"`      // Extracted surface value
	Confidence float64 `json:"confidence"` // Extractor confidence in [0, 1]
}

// Conversation is the snapshot of an in-flight support conversation handed to
// the routing engine. It is assembled by the caller; the engine never mutates it.
type Conversation struct {
	ID             string                 `json:"id"`                        // Conversation identifier, also the cache key component
	UserID         string                 `json:"user_id"`                   // End-user identifier
	SessionID      string                 `json:"session_id,omitempty"`      // Platform session, if distinct from the conversation
	Channel        string                 `json:"channel,omitempty"`         // Origin channel (web, email, whatsapp, ...)
	Messages       []Message              `json:"messages"`                  // Ordered oldest-first
	Entities       map[string][]Entity    `json:"entities,omitempty"`        // Extracted entities grouped by type
	UserAttributes map[string]interface{} `json:"user_attributes,omitempty"` // CRM attributes (tier, language, region, ...)
	Metadata       map[string]interface{} `json:"metadata,omitempty"`        // Free-form conversation metadata
}

// NewConversation creates an empty conversation snapshot with initialized maps.
func NewConversation(id, userID string) *Conversation {
	return &Conversation{
		ID:             id,
		UserID:         userID,
		Messages:       make([]Message, 0),
		Entities:       make(map[string][]Entity),
		UserAttributes: make(map[string]interface{}),
		Metadata:       make(map[string]interface{}),
	}
}

// AddMessage appends a message, keeping the oldest-first ordering.
func (c *Conversation) AddMessage(msg Message) *Conversation {
	c.Messages = append(c.Messages, msg)
	return c
}

// LastMessage returns the most recent message regardless of speaker.
func (c *Conversation) LastMessage() (*Message, bool) {
	if len(c.Messages) == 0 {
		return nil, false
	}
	return &c.Messages[len(c.Messages)-1], true
}

// LastUserMessage returns the most recent message spoken by the end user.
func (c *Conversation) LastUserMessage() (*Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Speaker == SpeakerUser {
			return &c.Messages[i], true
		}
	}
	return nil, false
}

// FirstEntity returns the first extracted entity of the given type.
func (c *Conversation) FirstEntity(entityType string) (*Entity, bool) {
	entities, ok := c.Entities[entityType]
	if !ok || len(entities) == 0 {
		return nil, false
	}
	return &entities[0], true
}

// HasEntity reports whether at least one entity of the given type was extracted.
func (c *Conversation) HasEntity(entityType string) bool {
	return len(c.Entities[entityType]) > 0
}
