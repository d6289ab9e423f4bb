package chat

import (
	"context"
	"testing"

	// Packages
	schema "github.com/thesubgraph/go-askstack/pkg/schema"
	stream "github.com/thesubgraph/go-askstack/pkg/stream"
	assert "github.com/stretchr/testify/assert"
)

///////////////////////////////////////////////////////////////////////////////
// TEST SET-UP

// recorder collects every checkpoint in order
type recorder struct {
	contents  []string
	citations [][]schema.Citation
}

func (r *recorder) checkpoint(content string, citations []schema.Citation) error {
	r.contents = append(r.contents, content)
	r.citations = append(r.citations, citations)
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_typewriter_001(t *testing.T) {
	assert := assert.New(t)
	rec := new(recorder)
	tw := newTypewriter(true, 0, rec.checkpoint)

	// Short fragments are appended whole, preserving sub-word boundaries
	assert.NoError(tw.Delta(context.TODO(), "Hel"))
	assert.NoError(tw.Delta(context.TODO(), "lo!"))
	assert.Equal("Hello!", tw.Content())
	assert.Equal([]string{"Hel", "Hello!"}, rec.contents)
}

func Test_typewriter_002(t *testing.T) {
	assert := assert.New(t)
	rec := new(recorder)
	tw := newTypewriter(true, 0, rec.checkpoint)

	// A longer fragment is released word by word, one checkpoint each
	assert.NoError(tw.Delta(context.TODO(), "a quick brown fox"))
	assert.Equal([]string{
		"a",
		"a quick",
		"a quick brown",
		"a quick brown fox",
	}, rec.contents)
}

func Test_typewriter_003(t *testing.T) {
	assert := assert.New(t)
	rec := new(recorder)
	tw := newTypewriter(true, 0, rec.checkpoint)

	// A fragment with leading whitespace joins the buffer with one space
	assert.NoError(tw.Delta(context.TODO(), "Hello"))
	assert.NoError(tw.Delta(context.TODO(), " world and others"))
	assert.Equal("Hello world and others", tw.Content())

	// Without leading whitespace the fragment continues the last word, so
	// the buffer always equals the concatenation of the fragments
	rec = new(recorder)
	tw = newTypewriter(true, 0, rec.checkpoint)
	assert.NoError(tw.Delta(context.TODO(), "unbeliev"))
	assert.NoError(tw.Delta(context.TODO(), "able stuff here"))
	assert.Equal("unbelievable stuff here", tw.Content())
}

func Test_typewriter_004(t *testing.T) {
	assert := assert.New(t)
	rec := new(recorder)
	tw := newTypewriter(true, 0, rec.checkpoint)

	// Completion replaces the buffer wholesale and seals it
	assert.NoError(tw.Delta(context.TODO(), "partial words here"))
	citations := []schema.Citation{{SourceID: "file_1", StartOffset: 0, EndOffset: 4}}
	assert.NoError(tw.Complete("The full final answer.", citations))
	assert.True(tw.Final())
	assert.Equal("The full final answer.", tw.Content())
	assert.Equal(citations, tw.Citations())

	// Stray deltas after completion are ignored without a checkpoint
	seen := len(rec.contents)
	assert.NoError(tw.Delta(context.TODO(), "stray"))
	assert.Len(rec.contents, seen)
	assert.Equal("The full final answer.", tw.Content())
}

func Test_typewriter_005(t *testing.T) {
	assert := assert.New(t)
	rec := new(recorder)
	tw := newTypewriter(false, 0, rec.checkpoint)

	// With smoothing off, fragments are appended verbatim in one checkpoint
	assert.NoError(tw.Delta(context.TODO(), "a quick brown fox"))
	assert.Equal([]string{"a quick brown fox"}, rec.contents)

	// Empty fragments produce nothing
	assert.NoError(tw.Delta(context.TODO(), ""))
	assert.Len(rec.contents, 1)
}

func Test_typewriter_006(t *testing.T) {
	assert := assert.New(t)

	// Pause classification by trailing character and word length
	for word, want := range map[string][2]int{
		"sentence.": {200, 400},
		"really!":   {200, 400},
		"why?":      {200, 400},
		"clause,":   {150, 250},
		"item;":     {150, 250},
		"label:":    {150, 250},
		"wonderful": {120, 200},
		"word":      {80, 150},
	} {
		for range 16 {
			delay := delayFor(word).Milliseconds()
			assert.GreaterOrEqual(delay, int64(want[0]), word)
			assert.LessOrEqual(delay, int64(want[1]), word)
		}
	}
}

func Test_typewriter_007(t *testing.T) {
	assert := assert.New(t)
	rec := new(recorder)
	tw := newTypewriter(true, 0, rec.checkpoint)

	// A cancelled context stops the release between words
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(tw.Delta(ctx, "several words to release"))
	assert.NotEmpty(rec.contents)
}

func Test_tracker_001(t *testing.T) {
	assert := assert.New(t)
	run := newTracker()
	assert.Equal(RunQueued, run.State())
	assert.False(run.Terminal())

	run.Observe(stream.RunInProgress{})
	assert.Equal(RunInProgress, run.State())

	run.Observe(stream.MessageDelta{Text: "ignored"})
	assert.Equal(RunInProgress, run.State())

	run.Observe(stream.RunCompleted{})
	assert.True(run.Terminal())
	assert.NoError(run.Err())

	// Terminal state latches
	run.Observe(stream.RunFailed{Reason: "late"})
	assert.Equal(RunCompleted, run.State())
}

func Test_tracker_002(t *testing.T) {
	assert := assert.New(t)
	run := newTracker()
	run.Observe(stream.RunFailed{Reason: "rate limit exceeded"})
	assert.True(run.Terminal())
	assert.ErrorContains(run.Err(), "rate limit exceeded")
}

func Test_tracker_003(t *testing.T) {
	assert := assert.New(t)
	run := newTracker()
	run.Observe(stream.RunRequiresAction{})
	assert.True(run.Terminal())
	assert.Equal(RunRequiresAction, run.State())
	assert.Error(run.Err())
	assert.Equal("requires_action", run.State().String())
}

func Test_registry_001(t *testing.T) {
	assert := assert.New(t)
	r := newRegistry()

	_, err := r.register("m1", func() {})
	assert.NoError(err)
	assert.True(r.active("m1"))

	// A second registration for the same id is rejected
	_, err = r.register("m1", func() {})
	assert.Error(err)

	r.unregister("m1")
	assert.False(r.active("m1"))
}

func Test_registry_002(t *testing.T) {
	assert := assert.New(t)
	r := newRegistry()

	cancelled := false
	op, err := r.register("m1", func() { cancelled = true })
	assert.NoError(err)

	closer := &closeTracker{}
	op.attach(closer)

	taken, exists := r.take("m1")
	assert.True(exists)
	assert.False(r.active("m1"))

	taken.abort()
	assert.True(cancelled)
	assert.True(closer.closed)

	// Taking again is a no-op
	_, exists = r.take("m1")
	assert.False(exists)
}

type closeTracker struct {
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}
