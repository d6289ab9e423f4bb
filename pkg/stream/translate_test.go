package stream_test

import (
	"testing"

	// Packages
	schema "github.com/thesubgraph/go-askstack/pkg/schema"
	stream "github.com/thesubgraph/go-askstack/pkg/stream"
	assert "github.com/stretchr/testify/assert"
)

func Test_translate_001(t *testing.T) {
	assert := assert.New(t)
	evt, ok := stream.Translate(`{"object":"thread.run","data":{"status":"queued"}}`)
	assert.True(ok)
	assert.Equal(stream.RunQueued{}, evt)
}

func Test_translate_002(t *testing.T) {
	assert := assert.New(t)
	evt, ok := stream.Translate(`{"object":"thread.run","data":{"status":"in_progress"}}`)
	assert.True(ok)
	assert.Equal(stream.RunInProgress{}, evt)
}

func Test_translate_003(t *testing.T) {
	assert := assert.New(t)
	evt, ok := stream.Translate(`{"object":"thread.run","data":{"status":"requires_action"}}`)
	assert.True(ok)
	assert.Equal(stream.RunRequiresAction{}, evt)
}

func Test_translate_004(t *testing.T) {
	assert := assert.New(t)
	evt, ok := stream.Translate(`{"object":"thread.run","data":{"status":"completed"}}`)
	assert.True(ok)
	assert.Equal(stream.RunCompleted{}, evt)
}

func Test_translate_005(t *testing.T) {
	assert := assert.New(t)

	// Failure reason comes from last_error when present
	evt, ok := stream.Translate(`{"object":"thread.run","data":{"status":"failed","last_error":{"code":"server_error","message":"boom"}}}`)
	assert.True(ok)
	assert.Equal(stream.RunFailed{Reason: "boom"}, evt)

	// Best-effort fallback when last_error is absent
	evt, ok = stream.Translate(`{"object":"thread.run","data":{"status":"cancelled"}}`)
	assert.True(ok)
	assert.Equal(stream.RunFailed{Reason: "run cancelled"}, evt)

	evt, ok = stream.Translate(`{"object":"thread.run","data":{"status":"expired"}}`)
	assert.True(ok)
	assert.Equal(stream.RunFailed{Reason: "run expired"}, evt)
}

func Test_translate_006(t *testing.T) {
	assert := assert.New(t)

	// Unknown run status yields no event
	evt, ok := stream.Translate(`{"object":"thread.run","data":{"status":"cancelling"}}`)
	assert.False(ok)
	assert.Nil(evt)

	// Missing data yields no event
	evt, ok = stream.Translate(`{"object":"thread.run"}`)
	assert.False(ok)
	assert.Nil(evt)
}

func Test_translate_007(t *testing.T) {
	assert := assert.New(t)

	// Run steps are reduced to progress, completion and failure
	evt, ok := stream.Translate(`{"object":"thread.run.step","data":{"status":"in_progress"}}`)
	assert.True(ok)
	assert.Equal(stream.RunInProgress{}, evt)

	evt, ok = stream.Translate(`{"object":"thread.run.step","data":{"status":"completed"}}`)
	assert.True(ok)
	assert.Equal(stream.RunCompleted{}, evt)

	_, ok = stream.Translate(`{"object":"thread.run.step","data":{"status":"queued"}}`)
	assert.False(ok)

	_, ok = stream.Translate(`{"object":"thread.run.step","data":{"status":"requires_action"}}`)
	assert.False(ok)
}

func Test_translate_008(t *testing.T) {
	assert := assert.New(t)
	evt, ok := stream.Translate(`{"object":"thread.message","data":{"id":"msg_123"}}`)
	assert.True(ok)
	assert.Equal(stream.MessageCreated{MessageID: "msg_123"}, evt)

	// Blank id yields no event
	_, ok = stream.Translate(`{"object":"thread.message","data":{"id":""}}`)
	assert.False(ok)
}

func Test_translate_009(t *testing.T) {
	assert := assert.New(t)
	evt, ok := stream.Translate(`{"object":"thread.message.delta","data":{"delta":{"content":[{"index":0,"type":"text","text":{"value":"Hel"}}]}}}`)
	assert.True(ok)
	assert.Equal(stream.MessageDelta{Text: "Hel"}, evt)

	// Empty fragment yields no event
	_, ok = stream.Translate(`{"object":"thread.message.delta","data":{"delta":{"content":[{"index":0,"type":"text","text":{"value":""}}]}}}`)
	assert.False(ok)

	// Missing delta yields no event
	_, ok = stream.Translate(`{"object":"thread.message.delta","data":{}}`)
	assert.False(ok)
}

func Test_translate_010(t *testing.T) {
	assert := assert.New(t)
	evt, ok := stream.Translate(`{"object":"thread.message.completed","data":{"content":[{"type":"text","text":{"value":"Hello!","annotations":[{"type":"file_citation","text":"ref","start_index":0,"end_index":6,"file_citation":{"file_id":"file-1","quote":"Hello"}},{"type":"file_path","start_index":0,"end_index":0}]}}]}}`)
	assert.True(ok)

	completed, ok := evt.(stream.MessageCompleted)
	assert.True(ok)
	assert.Equal("Hello!", completed.Text)
	assert.Equal([]schema.Citation{{
		SourceID:    "file-1",
		Quote:       "Hello",
		StartOffset: 0,
		EndOffset:   6,
	}}, completed.Citations)
}

func Test_translate_011(t *testing.T) {
	assert := assert.New(t)

	// Annotations without a file citation are dropped
	evt, ok := stream.Translate(`{"object":"thread.message.completed","data":{"content":[{"type":"text","text":{"value":"plain","annotations":[{"type":"file_path","start_index":1,"end_index":2}]}}]}}`)
	assert.True(ok)
	completed := evt.(stream.MessageCompleted)
	assert.Equal("plain", completed.Text)
	assert.Empty(completed.Citations)
}

func Test_translate_012(t *testing.T) {
	assert := assert.New(t)

	// Malformed JSON degrades to no event, never an error
	evt, ok := stream.Translate(`{bad json`)
	assert.False(ok)
	assert.Nil(evt)

	// Unknown object kind yields no event
	_, ok = stream.Translate(`{"object":"thread.message.incomplete","data":{"id":"msg_1"}}`)
	assert.False(ok)
}

func Test_translate_013(t *testing.T) {
	assert := assert.New(t)

	// Payload fields may arrive bare at the top level instead of nested
	// under a data wrapper
	evt, ok := stream.Translate(`{"object":"thread.run","id":"run_1","status":"queued"}`)
	assert.True(ok)
	assert.Equal(stream.RunQueued{}, evt)

	evt, ok = stream.Translate(`{"object":"thread.run","id":"run_1","status":"failed","last_error":{"code":"server_error","message":"boom"}}`)
	assert.True(ok)
	assert.Equal(stream.RunFailed{Reason: "boom"}, evt)

	evt, ok = stream.Translate(`{"object":"thread.message","id":"msg_9"}`)
	assert.True(ok)
	assert.Equal(stream.MessageCreated{MessageID: "msg_9"}, evt)

	evt, ok = stream.Translate(`{"object":"thread.message.delta","id":"msg_9","delta":{"content":[{"index":0,"type":"text","text":{"value":"Hi"}}]}}`)
	assert.True(ok)
	assert.Equal(stream.MessageDelta{Text: "Hi"}, evt)

	evt, ok = stream.Translate(`{"object":"thread.message.completed","id":"msg_9","content":[{"type":"text","text":{"value":"Hi there"}}]}`)
	assert.True(ok)
	assert.Equal(stream.MessageCompleted{Text: "Hi there"}, evt)

	// The nested payload wins when both forms are present
	evt, ok = stream.Translate(`{"object":"thread.run","status":"queued","data":{"status":"in_progress"}}`)
	assert.True(ok)
	assert.Equal(stream.RunInProgress{}, evt)
}

func Test_translate_014(t *testing.T) {
	assert := assert.New(t)

	// Run-step deltas carry content fragments the same way message deltas do
	evt, ok := stream.Translate(`{"object":"thread.run.step.delta","data":{"delta":{"content":[{"index":0,"type":"text","text":{"value":"step text"}}]}}}`)
	assert.True(ok)
	assert.Equal(stream.MessageDelta{Text: "step text"}, evt)

	// Without a delta body there is nothing to surface
	_, ok = stream.Translate(`{"object":"thread.run.step.delta","data":{}}`)
	assert.False(ok)
}
