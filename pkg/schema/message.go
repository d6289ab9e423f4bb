package schema

import (
	"time"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
	askstack "github.com/thesubgraph/go-askstack"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ChatMessage is one message in a conversation, either side of the exchange.
// The assistant message for a turn is created empty before any network call
// and mutated in place as the run streams, so a send which fails before the
// first byte still leaves an auditable failed record.
type ChatMessage struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	Content        string     `json:"content"`
	Role           string     `json:"role"` // "user" or "assistant"
	Timestamp      time.Time  `json:"timestamp"`
	Citations      []Citation `json:"citations,omitempty"`
	IsStreaming    bool       `json:"is_streaming,omitempty"`
	Status         Status     `json:"status"`
}

// Citation attributes a span of the final message text to a source document.
// FileName resolution is external; it remains nil unless a caller fills it in.
type Citation struct {
	SourceID    string  `json:"source_id"`
	Quote       string  `json:"quote,omitempty"`
	FileName    *string `json:"file_name,omitempty"`
	StartOffset int     `json:"start_offset"`
	EndOffset   int     `json:"end_offset"`
}

// Status is the delivery state of a message
type Status string

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// Message role constants
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message status constants
const (
	StatusSending Status = "sending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Terminal returns true once the message has reached a final delivery state.
// A terminal message is never mutated again; stray deltas are ignored.
func (m *ChatMessage) Terminal() bool {
	return m.Status == StatusSent || m.Status == StatusFailed
}

// Validate checks required fields
func (m *ChatMessage) Validate() error {
	if m.ID == "" {
		return askstack.ErrBadParameter.With("message id is required")
	}
	if m.ConversationID == "" {
		return askstack.ErrBadParameter.With("conversation id is required")
	}
	switch m.Role {
	case RoleUser, RoleAssistant:
	default:
		return askstack.ErrBadParameter.Withf("invalid role %q", m.Role)
	}
	switch m.Status {
	case StatusSending, StatusSent, StatusFailed:
	default:
		return askstack.ErrBadParameter.Withf("invalid status %q", m.Status)
	}
	// Streaming is only legal while the message is in flight
	if m.IsStreaming && m.Status != StatusSending {
		return askstack.ErrBadParameter.With("terminal message cannot be streaming")
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (m ChatMessage) String() string {
	return types.Stringify(m)
}
