package schema

import (
	"context"
	"time"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ConversationStore persists conversations
type ConversationStore interface {
	// CreateConversation persists a new conversation
	CreateConversation(ctx context.Context, conversation Conversation) error

	// GetConversation retrieves a conversation by id
	GetConversation(ctx context.Context, id string) (*Conversation, error)

	// ListConversations returns all conversations, most recently updated first
	ListConversations(ctx context.Context) ([]*Conversation, error)

	// RenameConversation sets a new title
	RenameConversation(ctx context.Context, id, title string) error

	// DeleteConversation removes a conversation and its messages
	DeleteConversation(ctx context.Context, id string) error

	// TouchConversation refreshes the preview and updated timestamp. Called
	// only when a reply completes, never per delta.
	TouchConversation(ctx context.Context, id, preview string, at time.Time) error
}

// MessageStore persists messages. Writes for one message id are issued in
// order by the pipeline; the store does not need to reorder them.
type MessageStore interface {
	// AppendMessage inserts a new message row
	AppendMessage(ctx context.Context, message ChatMessage) error

	// UpsertMessage replaces the mutable fields of an existing message
	UpsertMessage(ctx context.Context, id, content string, citations []Citation, status Status, streaming bool) error

	// GetMessage retrieves a message by id
	GetMessage(ctx context.Context, id string) (*ChatMessage, error)

	// GetMessages returns the messages of a conversation in timestamp order
	GetMessages(ctx context.Context, conversationID string) ([]*ChatMessage, error)
}

// ChatStore is the combined storage contract the chat pipeline writes through
type ChatStore interface {
	ConversationStore
	MessageStore
}

// Credential holds the bearer API key and the preferred assistant
type Credential struct {
	APIKey             string `json:"api_key"`
	DefaultAssistantID string `json:"default_assistant_id,omitempty"`
}

// CredentialStore persists the credential, encrypted at rest for the
// file-backed implementation
type CredentialStore interface {
	GetCredential(ctx context.Context) (*Credential, error)
	SetCredential(ctx context.Context, credential Credential) error
	DeleteCredential(ctx context.Context) error
}
