/*
stream decodes the server-pushed event stream of an assistant run into a
closed set of semantic events. The frame decoder turns the response body
into data payloads; the translator maps each payload onto one event, or
none. Translation never fails: malformed or unknown payloads are dropped
so a single corrupt frame cannot abort the stream.
*/
package stream

import (
	// Packages
	schema "github.com/thesubgraph/go-askstack/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Event is a sealed interface representing one semantic stream event.
// The unexported marker method prevents external implementations, so every
// consumer switch is exhaustive over the variants below.
type Event interface {
	streamEvent()
}

// RunQueued signals the run is waiting to execute.
type RunQueued struct{}

// RunInProgress signals the run is executing.
type RunInProgress struct{}

// RunRequiresAction signals the run is blocked on a tool interaction,
// which this client does not support.
type RunRequiresAction struct{}

// RunCompleted is the terminal success notice for a run.
type RunCompleted struct{}

// RunFailed is the terminal failure notice for a run, with a
// human-readable cause.
type RunFailed struct {
	Reason string
}

// MessageCreated signals the server has allocated an assistant message.
type MessageCreated struct {
	MessageID string
}

// MessageDelta carries one incremental content fragment, order-significant.
type MessageDelta struct {
	Text string
}

// MessageCompleted carries the authoritative final content, superseding
// all prior deltas.
type MessageCompleted struct {
	Text      string
	Citations []schema.Citation
}

// Error is a transport or parse-level failure, distinct from a
// protocol-level run failure.
type Error struct {
	Description string
}

// Done is the explicit end-of-stream sentinel; when present it is always
// the last event.
type Done struct{}

func (RunQueued) streamEvent()         {}
func (RunInProgress) streamEvent()     {}
func (RunRequiresAction) streamEvent() {}
func (RunCompleted) streamEvent()      {}
func (RunFailed) streamEvent()         {}
func (MessageCreated) streamEvent()    {}
func (MessageDelta) streamEvent()      {}
func (MessageCompleted) streamEvent()  {}
func (Error) streamEvent()             {}
func (Done) streamEvent()              {}

// Interface compliance checks.
var (
	_ Event = RunQueued{}
	_ Event = RunInProgress{}
	_ Event = RunRequiresAction{}
	_ Event = RunCompleted{}
	_ Event = RunFailed{}
	_ Event = MessageCreated{}
	_ Event = MessageDelta{}
	_ Event = MessageCompleted{}
	_ Event = Error{}
	_ Event = Done{}
)
