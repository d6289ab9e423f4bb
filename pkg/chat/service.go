/*
chat orchestrates the streaming send pipeline: persist the outgoing
message, open a streaming run against the remote thread, translate the
stream into events for the caller, and checkpoint the growing reply so a
crash or failure at any point leaves the persisted state consistent.
*/
package chat

import (
	"context"
	"io"
	"strings"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	askstack "github.com/thesubgraph/go-askstack"
	opt "github.com/thesubgraph/go-askstack/pkg/opt"
	schema "github.com/thesubgraph/go-askstack/pkg/schema"
	stream "github.com/thesubgraph/go-askstack/pkg/stream"
	errgroup "golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Transport is the remote surface the send pipeline needs. The assistant
// package client satisfies it; tests substitute a scripted fake.
type Transport interface {
	// CreateThread allocates a server-side thread and returns its id
	CreateThread(ctx context.Context) (string, error)

	// AddMessage appends a user message to a thread
	AddMessage(ctx context.Context, threadId, content string) error

	// CreateRunStream starts a streaming run and returns the raw event stream
	CreateRunStream(ctx context.Context, threadId, assistantId string) (io.ReadCloser, error)
}

// Service runs chat conversations against a remote assistant, persisting
// both sides of each exchange through the store
type Service struct {
	transport Transport
	store     schema.ChatStore
	registry  *registry
	defaults  config
}

// checkpointState is one ordered persistence write for a streaming message
type checkpointState struct {
	content   string
	citations []schema.Citation
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a chat service. Options set the defaults for every send;
// individual sends can override them.
func New(transport Transport, store schema.ChatStore, options ...opt.Opt) (*Service, error) {
	if store == nil {
		return nil, askstack.ErrBadParameter.With("store is required")
	}
	defaults, err := applyConfig(config{smooth: true, speed: 1.0}, options...)
	if err != nil {
		return nil, err
	}
	if transport == nil && !defaults.mock {
		return nil, askstack.ErrBadParameter.With("transport is required")
	}
	return &Service{
		transport: transport,
		store:     store,
		registry:  newRegistry(),
		defaults:  defaults,
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// NewConversation allocates a remote thread and persists a conversation
// bound to it
func (s *Service) NewConversation(ctx context.Context, assistantId, title string, options ...opt.Opt) (*schema.Conversation, error) {
	cfg, err := applyConfig(s.defaults, options...)
	if err != nil {
		return nil, err
	}

	var threadId string
	if cfg.mock {
		threadId = "mock_thread_" + uuid.NewString()
	} else if threadId, err = s.transport.CreateThread(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	conversation := schema.Conversation{
		ID:             uuid.NewString(),
		Title:          title,
		RemoteThreadID: threadId,
		AssistantID:    assistantId,
		Created:        now,
		Updated:        now,
	}
	if err := s.store.CreateConversation(ctx, conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

// Conversations returns all conversations, most recently updated first
func (s *Service) Conversations(ctx context.Context) ([]*schema.Conversation, error) {
	return s.store.ListConversations(ctx)
}

// Messages returns the messages of a conversation in order
func (s *Service) Messages(ctx context.Context, conversationId string) ([]*schema.ChatMessage, error) {
	return s.store.GetMessages(ctx, conversationId)
}

// RenameConversation sets a new title
func (s *Service) RenameConversation(ctx context.Context, conversationId, title string) error {
	return s.store.RenameConversation(ctx, conversationId, title)
}

// DeleteConversation removes a conversation and its messages. An in-flight
// send into the conversation is not interrupted.
func (s *Service) DeleteConversation(ctx context.Context, conversationId string) error {
	return s.store.DeleteConversation(ctx, conversationId)
}

// SendMessage persists the user message, creates an empty assistant
// message, and streams the reply into it. The returned channel carries the
// stream events in order and is closed when the operation finishes; by
// then all persistence writes have landed.
func (s *Service) SendMessage(ctx context.Context, conversationId, content string, options ...opt.Opt) (string, <-chan stream.Event, error) {
	cfg, err := applyConfig(s.defaults, options...)
	if err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(content) == "" {
		return "", nil, askstack.ErrBadParameter.With("message content is required")
	}

	conversation, err := s.store.GetConversation(ctx, conversationId)
	if err != nil {
		return "", nil, err
	}
	if cfg.assistantId == "" {
		cfg.assistantId = conversation.AssistantID
	}
	if cfg.assistantId == "" && !cfg.mock {
		return "", nil, askstack.ErrBadParameter.With("no assistant bound to conversation")
	}

	// Both sides of the exchange are persisted before any network call,
	// so a failure at any later point leaves an auditable record
	now := time.Now()
	userMessage := schema.ChatMessage{
		ID:             uuid.NewString(),
		ConversationID: conversationId,
		Content:        content,
		Role:           schema.RoleUser,
		Timestamp:      now,
		Status:         schema.StatusSent,
	}
	if err := s.store.AppendMessage(ctx, userMessage); err != nil {
		return "", nil, err
	}
	assistantMessage := schema.ChatMessage{
		ID:             uuid.NewString(),
		ConversationID: conversationId,
		Role:           schema.RoleAssistant,
		Timestamp:      now.Add(time.Millisecond),
		IsStreaming:    true,
		Status:         schema.StatusSending,
	}
	if err := s.store.AppendMessage(ctx, assistantMessage); err != nil {
		return "", nil, err
	}

	opCtx, cancel := context.WithCancel(ctx)
	op, err := s.registry.register(assistantMessage.ID, cancel)
	if err != nil {
		cancel()
		s.store.UpsertMessage(ctx, assistantMessage.ID, "", nil, schema.StatusFailed, false)
		return "", nil, err
	}

	events := make(chan stream.Event)
	go s.run(opCtx, cfg, op, conversation, assistantMessage.ID, content, events)
	return assistantMessage.ID, events, nil
}

// Cancel aborts the in-flight send for a message id. It is a no-op when no
// operation is in flight, and returns only after the message has been
// finalised and the event channel closed.
func (s *Service) Cancel(messageId string) bool {
	op, exists := s.registry.take(messageId)
	if !exists {
		return false
	}
	op.abort()
	<-op.done
	return true
}

// Active reports whether a send is in flight for the message id
func (s *Service) Active(messageId string) bool {
	return s.registry.active(messageId)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// run drives one send to completion. It owns the event channel and the
// registry entry, and guarantees the assistant message leaves the
// streaming state exactly once.
func (s *Service) run(ctx context.Context, cfg config, op *operation, conversation *schema.Conversation, messageId, content string, events chan<- stream.Event) {
	defer close(events)
	defer close(op.done)
	defer s.registry.unregister(messageId)

	// Final writes must land even when the operation was cancelled
	wctx := context.WithoutCancel(ctx)

	emit := func(evt stream.Event) bool {
		select {
		case events <- evt:
			return true
		case <-ctx.Done():
			return false
		}
	}

	// A single writer drains the checkpoints so persistence writes for
	// this message are strictly ordered. On a write failure it keeps
	// draining so the producer never blocks.
	checkpoints := make(chan checkpointState, 16)
	var group errgroup.Group
	group.Go(func() error {
		var failed error
		for cp := range checkpoints {
			if failed != nil {
				continue
			}
			failed = s.store.UpsertMessage(wctx, messageId, cp.content, cp.citations, schema.StatusSending, true)
		}
		return failed
	})

	tw := newTypewriter(cfg.smooth, cfg.speed, func(content string, citations []schema.Citation) error {
		select {
		case checkpoints <- checkpointState{content, citations}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	run := newTracker()

	handle := func(evt stream.Event) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !emit(evt) {
			return ctx.Err()
		}
		run.Observe(evt)
		switch evt := evt.(type) {
		case stream.MessageDelta:
			return tw.Delta(ctx, evt.Text)
		case stream.MessageCompleted:
			return tw.Complete(evt.Text, evt.Citations)
		}
		return nil
	}

	var streamErr error
	if cfg.mock {
		streamErr = s.mockStream(ctx, cfg, content, handle)
	} else {
		streamErr = s.stream(ctx, cfg, op, conversation, content, handle)
	}

	// Drain all delta checkpoints before the final write
	close(checkpoints)
	writeErr := group.Wait()

	s.finalize(wctx, conversation, messageId, tw, run, streamErr, writeErr, ctx.Err() != nil, emit)
}

// stream opens the remote run and decodes its event stream
func (s *Service) stream(ctx context.Context, cfg config, op *operation, conversation *schema.Conversation, content string, fn func(stream.Event) error) error {
	if conversation.RemoteThreadID == "" {
		return askstack.ErrBadParameter.With("conversation has no remote thread")
	}
	if err := s.transport.AddMessage(ctx, conversation.RemoteThreadID, content); err != nil {
		return err
	}
	body, err := s.transport.CreateRunStream(ctx, conversation.RemoteThreadID, cfg.assistantId)
	if err != nil {
		return err
	}
	op.attach(body)
	return stream.Decode(body, fn)
}

// finalize settles the assistant message exactly once, after all delta
// checkpoints have been written
func (s *Service) finalize(ctx context.Context, conversation *schema.Conversation, messageId string, tw *typewriter, run *tracker, streamErr, writeErr error, cancelled bool, emit func(stream.Event) bool) {
	content := tw.Content()
	citations := tw.Citations()

	switch {
	case cancelled:
		// Cancellation keeps whatever content arrived and settles the
		// message as delivered
		s.store.UpsertMessage(ctx, messageId, content, citations, schema.StatusSent, false)
	case streamErr != nil || writeErr != nil:
		cause := streamErr
		if cause == nil {
			cause = writeErr
		}
		emit(stream.Error{Description: cause.Error()})
		s.store.UpsertMessage(ctx, messageId, content, citations, schema.StatusFailed, false)
	case run.Err() != nil:
		// Run failure or an unsupported tool interaction; partial content
		// is retained for inspection
		s.store.UpsertMessage(ctx, messageId, content, citations, schema.StatusFailed, false)
	case tw.Final():
		if err := s.store.UpsertMessage(ctx, messageId, content, citations, schema.StatusSent, false); err == nil {
			s.store.TouchConversation(ctx, conversation.ID, content, time.Now())
		}
	default:
		// Stream ended without an explicit completion; keep what arrived
		s.store.UpsertMessage(ctx, messageId, content, citations, schema.StatusSent, false)
	}
}
