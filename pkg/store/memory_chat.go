/*
store provides the persistence implementations behind the chat pipeline:
in-memory stores for tests and ephemeral sessions, and file-backed stores
for durable local state. The file-backed chat store keeps one JSON
document per conversation; the credential store keeps a single sealed
blob so the API key is never on disk in the clear.
*/
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	// Packages
	askstack "github.com/thesubgraph/go-askstack"
	schema "github.com/thesubgraph/go-askstack/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// MemoryChatStore is an in-memory implementation of ChatStore.
// It is safe for concurrent use.
type MemoryChatStore struct {
	mu            sync.RWMutex
	conversations map[string]*schema.Conversation   // keyed by conversation ID
	messages      map[string][]*schema.ChatMessage  // keyed by conversation ID, in append order
	index         map[string]string                 // message ID -> conversation ID
}

var _ schema.ChatStore = (*MemoryChatStore)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewMemoryChatStore creates a new empty in-memory chat store
func NewMemoryChatStore() *MemoryChatStore {
	return &MemoryChatStore{
		conversations: make(map[string]*schema.Conversation),
		messages:      make(map[string][]*schema.ChatMessage),
		index:         make(map[string]string),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - CONVERSATIONS

// CreateConversation persists a new conversation
func (m *MemoryChatStore) CreateConversation(_ context.Context, conversation schema.Conversation) error {
	if conversation.ID == "" {
		return askstack.ErrBadParameter.With("conversation id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.conversations[conversation.ID]; exists {
		return askstack.ErrConflict.Withf("conversation %q already exists", conversation.ID)
	}
	m.conversations[conversation.ID] = &conversation
	return nil
}

// GetConversation retrieves a conversation by id
func (m *MemoryChatStore) GetConversation(_ context.Context, id string) (*schema.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conversation, exists := m.conversations[id]
	if !exists {
		return nil, askstack.ErrNotFound.Withf("conversation %q", id)
	}
	result := *conversation
	return &result, nil
}

// ListConversations returns all conversations, most recently updated first
func (m *MemoryChatStore) ListConversations(_ context.Context) ([]*schema.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*schema.Conversation, 0, len(m.conversations))
	for _, conversation := range m.conversations {
		copied := *conversation
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Updated.After(result[j].Updated)
	})
	return result, nil
}

// RenameConversation sets a new title
func (m *MemoryChatStore) RenameConversation(_ context.Context, id, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	conversation, exists := m.conversations[id]
	if !exists {
		return askstack.ErrNotFound.Withf("conversation %q", id)
	}
	conversation.Title = title
	return nil
}

// DeleteConversation removes a conversation and its messages
func (m *MemoryChatStore) DeleteConversation(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.conversations[id]; !exists {
		return askstack.ErrNotFound.Withf("conversation %q", id)
	}
	for _, message := range m.messages[id] {
		delete(m.index, message.ID)
	}
	delete(m.conversations, id)
	delete(m.messages, id)
	return nil
}

// TouchConversation refreshes the preview and updated timestamp
func (m *MemoryChatStore) TouchConversation(_ context.Context, id, preview string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	conversation, exists := m.conversations[id]
	if !exists {
		return askstack.ErrNotFound.Withf("conversation %q", id)
	}
	conversation.LastMessage = preview
	conversation.Updated = at
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - MESSAGES

// AppendMessage inserts a new message row
func (m *MemoryChatStore) AppendMessage(_ context.Context, message schema.ChatMessage) error {
	if err := message.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.conversations[message.ConversationID]; !exists {
		return askstack.ErrNotFound.Withf("conversation %q", message.ConversationID)
	}
	if _, exists := m.index[message.ID]; exists {
		return askstack.ErrConflict.Withf("message %q already exists", message.ID)
	}
	copied := message
	m.messages[message.ConversationID] = append(m.messages[message.ConversationID], &copied)
	m.index[message.ID] = message.ConversationID
	return nil
}

// UpsertMessage replaces the mutable fields of an existing message
func (m *MemoryChatStore) UpsertMessage(_ context.Context, id, content string, citations []schema.Citation, status schema.Status, streaming bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	message, err := m.getMessageLocked(id)
	if err != nil {
		return err
	}
	message.Content = content
	message.Citations = citations
	message.Status = status
	message.IsStreaming = streaming
	return nil
}

// GetMessage retrieves a message by id
func (m *MemoryChatStore) GetMessage(_ context.Context, id string) (*schema.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	message, err := m.getMessageLocked(id)
	if err != nil {
		return nil, err
	}
	result := *message
	return &result, nil
}

// GetMessages returns the messages of a conversation in timestamp order
func (m *MemoryChatStore) GetMessages(_ context.Context, conversationID string) ([]*schema.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, exists := m.conversations[conversationID]; !exists {
		return nil, askstack.ErrNotFound.Withf("conversation %q", conversationID)
	}

	messages := m.messages[conversationID]
	result := make([]*schema.ChatMessage, 0, len(messages))
	for _, message := range messages {
		copied := *message
		result = append(result, &copied)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// getMessageLocked looks a message up through the id index. The caller
// must hold at least a read lock.
func (m *MemoryChatStore) getMessageLocked(id string) (*schema.ChatMessage, error) {
	conversationID, exists := m.index[id]
	if !exists {
		return nil, askstack.ErrNotFound.Withf("message %q", id)
	}
	for _, message := range m.messages[conversationID] {
		if message.ID == id {
			return message, nil
		}
	}
	return nil, askstack.ErrNotFound.Withf("message %q", id)
}
