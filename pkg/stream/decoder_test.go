package stream_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	// Packages
	stream "github.com/thesubgraph/go-askstack/pkg/stream"
	assert "github.com/stretchr/testify/assert"
)

// closeTracker records whether the underlying reader was released
type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func collect(t *testing.T, body string) ([]stream.Event, error) {
	t.Helper()
	var events []stream.Event
	err := stream.Decode(io.NopCloser(strings.NewReader(body)), func(evt stream.Event) error {
		events = append(events, evt)
		return nil
	})
	return events, err
}

func Test_decode_001(t *testing.T) {
	assert := assert.New(t)
	body := strings.Join([]string{
		`data: {"object":"thread.run","data":{"status":"queued"}}`,
		``,
		`data: {"object":"thread.run","data":{"status":"in_progress"}}`,
		``,
		`data: {"object":"thread.message.delta","data":{"delta":{"content":[{"type":"text","text":{"value":"Hel"}}]}}}`,
		`data: {"object":"thread.message.delta","data":{"delta":{"content":[{"type":"text","text":{"value":"lo!"}}]}}}`,
		`data: {"object":"thread.message.completed","data":{"content":[{"type":"text","text":{"value":"Hello!"}}]}}`,
		`data: [DONE]`,
	}, "\n")

	events, err := collect(t, body)
	assert.NoError(err)
	assert.Equal([]stream.Event{
		stream.RunQueued{},
		stream.RunInProgress{},
		stream.MessageDelta{Text: "Hel"},
		stream.MessageDelta{Text: "lo!"},
		stream.MessageCompleted{Text: "Hello!"},
		stream.Done{},
	}, events)
}

func Test_decode_002(t *testing.T) {
	assert := assert.New(t)

	// A malformed data line between two valid ones does not interrupt decoding
	body := strings.Join([]string{
		`data: {bad json}`,
		`data: {"object":"thread.message.delta","data":{"delta":{"content":[{"type":"text","text":{"value":"ok"}}]}}}`,
		`data: [DONE]`,
	}, "\n")

	events, err := collect(t, body)
	assert.NoError(err)
	assert.Equal([]stream.Event{
		stream.MessageDelta{Text: "ok"},
		stream.Done{},
	}, events)
}

func Test_decode_003(t *testing.T) {
	assert := assert.New(t)

	// The terminator ends the sequence even when more bytes remain unread
	body := strings.Join([]string{
		`data: [DONE]`,
		`data: {"object":"thread.run","data":{"status":"completed"}}`,
	}, "\n")

	events, err := collect(t, body)
	assert.NoError(err)
	assert.Equal([]stream.Event{stream.Done{}}, events)
}

func Test_decode_004(t *testing.T) {
	assert := assert.New(t)

	// Event-name lines, blank lines and junk are skipped silently
	body := strings.Join([]string{
		`event: thread.run.created`,
		``,
		`: comment`,
		`junk line`,
		`data: {"object":"thread.run","data":{"status":"queued"}}`,
		`data: [DONE]`,
	}, "\n")

	events, err := collect(t, body)
	assert.NoError(err)
	assert.Equal([]stream.Event{stream.RunQueued{}, stream.Done{}}, events)
}

func Test_decode_005(t *testing.T) {
	assert := assert.New(t)

	// The underlying reader is released on normal termination
	tracker := &closeTracker{Reader: strings.NewReader("data: [DONE]\n")}
	err := stream.Decode(tracker, func(stream.Event) error { return nil })
	assert.NoError(err)
	assert.True(tracker.closed)
}

func Test_decode_006(t *testing.T) {
	assert := assert.New(t)

	// The reader is released when the callback aborts decoding
	abort := errors.New("abort")
	tracker := &closeTracker{Reader: strings.NewReader(
		`data: {"object":"thread.run","data":{"status":"queued"}}` + "\n",
	)}
	err := stream.Decode(tracker, func(stream.Event) error { return abort })
	assert.ErrorIs(err, abort)
	assert.True(tracker.closed)
}

func Test_decode_007(t *testing.T) {
	assert := assert.New(t)

	// A stream that ends without a terminator produces no sentinel
	body := `data: {"object":"thread.run","data":{"status":"completed"}}` + "\n"
	events, err := collect(t, body)
	assert.NoError(err)
	assert.Equal([]stream.Event{stream.RunCompleted{}}, events)
}

// errReader fails after yielding its initial content
type errReader struct {
	io.Reader
	err error
}

func (r *errReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	if errors.Is(err, io.EOF) {
		return n, r.err
	}
	return n, err
}

func Test_decode_008(t *testing.T) {
	assert := assert.New(t)

	// A mid-stream transport failure is returned to the caller
	drop := errors.New("connection reset")
	tracker := &closeTracker{Reader: &errReader{
		Reader: strings.NewReader(`data: {"object":"thread.run","data":{"status":"queued"}}` + "\n"),
		err:    drop,
	}}

	var events []stream.Event
	err := stream.Decode(tracker, func(evt stream.Event) error {
		events = append(events, evt)
		return nil
	})
	assert.ErrorIs(err, drop)
	assert.Equal([]stream.Event{stream.RunQueued{}}, events)
	assert.True(tracker.closed)
}
