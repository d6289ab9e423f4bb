package schema

import (
	"time"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
	askstack "github.com/thesubgraph/go-askstack"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Conversation is one chat thread. RemoteThreadID identifies the server-side
// thread the assistant runs against. Updated and LastMessage are refreshed
// only when a reply completes, never on intermediate deltas, so list views
// are not thrashed by streaming.
type Conversation struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	RemoteThreadID string    `json:"remote_thread_id"`
	AssistantID    string    `json:"assistant_id"`
	Created        time.Time `json:"created"`
	Updated        time.Time `json:"updated"`
	LastMessage    string    `json:"last_message,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Validate checks required fields
func (c *Conversation) Validate() error {
	if c.ID == "" {
		return askstack.ErrBadParameter.With("conversation id is required")
	}
	if c.RemoteThreadID == "" {
		return askstack.ErrBadParameter.With("remote thread id is required")
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (c Conversation) String() string {
	return types.Stringify(c)
}
