package chat

import (
	"context"
	"io"
	"sync"

	// Packages
	askstack "github.com/thesubgraph/go-askstack"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// operation is one in-flight send, keyed by the assistant message id it
// is streaming into
type operation struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu   sync.Mutex
	body io.Closer
}

// registry tracks in-flight sends so they can be cancelled by message id.
// All map access is guarded; entries are removed exactly once, either by
// the pipeline on completion or by an explicit cancel.
type registry struct {
	mu  sync.Mutex
	ops map[string]*operation
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func newRegistry() *registry {
	return &registry{
		ops: make(map[string]*operation),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// register adds a new operation. A second registration for the same id is
// rejected rather than silently replacing the live entry.
func (r *registry) register(id string, cancel context.CancelFunc) (*operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ops[id]; exists {
		return nil, askstack.ErrConflict.Withf("operation already in flight for message %q", id)
	}
	op := &operation{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	r.ops[id] = op
	return op, nil
}

// take removes and returns the operation for an id, if one is in flight
func (r *registry) take(id string) (*operation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op, exists := r.ops[id]
	if exists {
		delete(r.ops, id)
	}
	return op, exists
}

// unregister removes an entry without touching the operation. Safe to call
// after the entry has already been taken.
func (r *registry) unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ops, id)
}

// active reports whether an operation is in flight for the id
func (r *registry) active(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.ops[id]
	return exists
}

// attach hands the operation its transport handle once the stream is open,
// so a later cancel can unblock a read in progress
func (o *operation) attach(body io.Closer) {
	o.mu.Lock()
	o.body = body
	o.mu.Unlock()
}

// abort signals cancellation and closes the transport if one is attached.
// Close failures are ignored; the stream is being torn down regardless.
func (o *operation) abort() {
	o.cancel()
	o.mu.Lock()
	body := o.body
	o.mu.Unlock()
	if body != nil {
		body.Close()
	}
}
