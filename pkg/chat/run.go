package chat

import (
	// Packages
	askstack "github.com/thesubgraph/go-askstack"
	stream "github.com/thesubgraph/go-askstack/pkg/stream"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// RunState is the lifecycle state of one assistant run
type RunState int

// tracker follows a single run through its lifecycle. One tracker is
// created per send and discarded when the run reaches a terminal state;
// transitions observed after that are ignored.
type tracker struct {
	state  RunState
	reason string
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	RunQueued RunState = iota
	RunInProgress
	RunCompleted
	RunFailed
	RunRequiresAction
)

var stateNames = map[RunState]string{
	RunQueued:         "queued",
	RunInProgress:     "in_progress",
	RunCompleted:      "completed",
	RunFailed:         "failed",
	RunRequiresAction: "requires_action",
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func newTracker() *tracker {
	return &tracker{state: RunQueued}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Observe applies one stream event to the run state. Non-lifecycle events
// leave the state untouched.
func (t *tracker) Observe(evt stream.Event) {
	if t.Terminal() {
		return
	}
	switch evt := evt.(type) {
	case stream.RunQueued:
		t.state = RunQueued
	case stream.RunInProgress:
		t.state = RunInProgress
	case stream.RunCompleted:
		t.state = RunCompleted
	case stream.RunFailed:
		t.state = RunFailed
		t.reason = evt.Reason
	case stream.RunRequiresAction:
		t.state = RunRequiresAction
	}
}

// State returns the current run state
func (t *tracker) State() RunState {
	return t.state
}

// Terminal returns true once the run has finished, one way or another
func (t *tracker) Terminal() bool {
	switch t.state {
	case RunCompleted, RunFailed, RunRequiresAction:
		return true
	}
	return false
}

// Err returns nil for a completed run, or the error describing why the
// run did not produce a normal reply
func (t *tracker) Err() error {
	switch t.state {
	case RunFailed:
		if t.reason != "" {
			return askstack.ErrRunFailed.With(t.reason)
		}
		return askstack.ErrRunFailed
	case RunRequiresAction:
		return askstack.ErrRequiresAction.With("run requires a tool interaction")
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (s RunState) String() string {
	if name, exists := stateNames[s]; exists {
		return name
	}
	return "unknown"
}
