package store

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"

	// Packages
	askstack "github.com/thesubgraph/go-askstack"
	schema "github.com/thesubgraph/go-askstack/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// FileChatStore is a filesystem-backed implementation of ChatStore. Each
// conversation is one JSON document holding the conversation and all of
// its messages, so a conversation is always read and written as a unit.
// It is safe for concurrent use within one process.
type FileChatStore struct {
	mu    sync.RWMutex
	dir   string
	index map[string]string // message ID -> conversation ID
}

// conversationDoc is the on-disk shape of one conversation
type conversationDoc struct {
	Conversation schema.Conversation   `json:"conversation"`
	Messages     []*schema.ChatMessage `json:"messages"`
}

var _ schema.ChatStore = (*FileChatStore)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewFileChatStore creates a file-backed chat store rooted at dir. The
// directory is created if it does not already exist; any documents found
// there are indexed so messages from earlier sessions resolve by id.
func NewFileChatStore(dir string) (*FileChatStore, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	store := &FileChatStore{
		dir:   dir,
		index: make(map[string]string),
	}

	ids, err := readJSONDir(dir)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		var doc conversationDoc
		if err := readJSON(jsonPath(dir, id), "conversation "+id, &doc); err != nil {
			// Skip unreadable documents rather than refusing to start
			continue
		}
		for _, message := range doc.Messages {
			store.index[message.ID] = doc.Conversation.ID
		}
	}
	return store, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - CONVERSATIONS

// CreateConversation persists a new conversation
func (s *FileChatStore) CreateConversation(_ context.Context, conversation schema.Conversation) error {
	if conversation.ID == "" {
		return askstack.ErrBadParameter.With("conversation id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	path := jsonPath(s.dir, conversation.ID)
	if _, err := os.Stat(path); err == nil {
		return askstack.ErrConflict.Withf("conversation %q already exists", conversation.ID)
	}
	return writeJSON(path, conversationDoc{Conversation: conversation})
}

// GetConversation retrieves a conversation by id
func (s *FileChatStore) GetConversation(_ context.Context, id string) (*schema.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.readDoc(id)
	if err != nil {
		return nil, err
	}
	return &doc.Conversation, nil
}

// ListConversations returns all conversations, most recently updated first
func (s *FileChatStore) ListConversations(_ context.Context) ([]*schema.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, err := readJSONDir(s.dir)
	if err != nil {
		return nil, err
	}
	result := make([]*schema.Conversation, 0, len(ids))
	for _, id := range ids {
		doc, err := s.readDoc(id)
		if err != nil {
			continue
		}
		result = append(result, &doc.Conversation)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Updated.After(result[j].Updated)
	})
	return result, nil
}

// RenameConversation sets a new title
func (s *FileChatStore) RenameConversation(_ context.Context, id, title string) error {
	return s.updateDoc(id, func(doc *conversationDoc) error {
		doc.Conversation.Title = title
		return nil
	})
}

// DeleteConversation removes a conversation and its messages
func (s *FileChatStore) DeleteConversation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDoc(id)
	if err != nil {
		return err
	}
	for _, message := range doc.Messages {
		delete(s.index, message.ID)
	}
	if err := os.Remove(jsonPath(s.dir, id)); err != nil {
		return askstack.ErrInternalServerError.Withf("remove: %v", err)
	}
	return nil
}

// TouchConversation refreshes the preview and updated timestamp
func (s *FileChatStore) TouchConversation(_ context.Context, id, preview string, at time.Time) error {
	return s.updateDoc(id, func(doc *conversationDoc) error {
		doc.Conversation.LastMessage = preview
		doc.Conversation.Updated = at
		return nil
	})
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - MESSAGES

// AppendMessage inserts a new message row
func (s *FileChatStore) AppendMessage(_ context.Context, message schema.ChatMessage) error {
	if err := message.Validate(); err != nil {
		return err
	}
	return s.updateDoc(message.ConversationID, func(doc *conversationDoc) error {
		for _, existing := range doc.Messages {
			if existing.ID == message.ID {
				return askstack.ErrConflict.Withf("message %q already exists", message.ID)
			}
		}
		copied := message
		doc.Messages = append(doc.Messages, &copied)
		s.index[message.ID] = message.ConversationID
		return nil
	})
}

// UpsertMessage replaces the mutable fields of an existing message
func (s *FileChatStore) UpsertMessage(_ context.Context, id, content string, citations []schema.Citation, status schema.Status, streaming bool) error {
	s.mu.RLock()
	conversationID, exists := s.index[id]
	s.mu.RUnlock()
	if !exists {
		return askstack.ErrNotFound.Withf("message %q", id)
	}

	return s.updateDoc(conversationID, func(doc *conversationDoc) error {
		for _, message := range doc.Messages {
			if message.ID == id {
				message.Content = content
				message.Citations = citations
				message.Status = status
				message.IsStreaming = streaming
				return nil
			}
		}
		return askstack.ErrNotFound.Withf("message %q", id)
	})
}

// GetMessage retrieves a message by id
func (s *FileChatStore) GetMessage(_ context.Context, id string) (*schema.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conversationID, exists := s.index[id]
	if !exists {
		return nil, askstack.ErrNotFound.Withf("message %q", id)
	}
	doc, err := s.readDoc(conversationID)
	if err != nil {
		return nil, err
	}
	for _, message := range doc.Messages {
		if message.ID == id {
			return message, nil
		}
	}
	return nil, askstack.ErrNotFound.Withf("message %q", id)
}

// GetMessages returns the messages of a conversation in timestamp order
func (s *FileChatStore) GetMessages(_ context.Context, conversationID string) ([]*schema.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.readDoc(conversationID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(doc.Messages, func(i, j int) bool {
		return doc.Messages[i].Timestamp.Before(doc.Messages[j].Timestamp)
	})
	return doc.Messages, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// readDoc loads one conversation document. The caller must hold at least
// a read lock.
func (s *FileChatStore) readDoc(id string) (*conversationDoc, error) {
	var doc conversationDoc
	if err := readJSON(jsonPath(s.dir, id), "conversation "+id, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// updateDoc applies a mutation to one conversation document and writes it
// back atomically
func (s *FileChatStore) updateDoc(id string, fn func(*conversationDoc) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDoc(id)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return writeJSON(jsonPath(s.dir, id), doc)
}
