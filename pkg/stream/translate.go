package stream

import (
	"encoding/json"

	// Packages
	schema "github.com/thesubgraph/go-askstack/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// envelope is the wire shape of one data payload: an object-kind
// discriminator and the payload fields, which servers emit either nested
// under a data wrapper or bare at the top level. Both forms are accepted.
type envelope struct {
	Object string   `json:"object"`
	Data   *payload `json:"data"`

	// Bare form
	ID        string        `json:"id"`
	Status    string        `json:"status"`
	LastError *lastError    `json:"last_error"`
	Content   []contentPart `json:"content"`
	Delta     *deltaBody    `json:"delta"`
}

type payload struct {
	ID        string        `json:"id"`
	Status    string        `json:"status"`
	LastError *lastError    `json:"last_error"`
	Content   []contentPart `json:"content"`
	Delta     *deltaBody    `json:"delta"`
}

type lastError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type deltaBody struct {
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type string    `json:"type"`
	Text *textPart `json:"text"`
}

type textPart struct {
	Value       string       `json:"value"`
	Annotations []annotation `json:"annotations"`
}

type annotation struct {
	Type         string        `json:"type"`
	Text         string        `json:"text"`
	StartIndex   int           `json:"start_index"`
	EndIndex     int           `json:"end_index"`
	FileCitation *fileCitation `json:"file_citation"`
}

type fileCitation struct {
	FileID string `json:"file_id"`
	Quote  string `json:"quote"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Object-kind discriminator values
const (
	objectRun              = "thread.run"
	objectRunStep          = "thread.run.step"
	objectRunStepDelta     = "thread.run.step.delta"
	objectMessage          = "thread.message"
	objectMessageDelta     = "thread.message.delta"
	objectMessageCompleted = "thread.message.completed"
)

// Run status values
const (
	statusQueued         = "queued"
	statusInProgress     = "in_progress"
	statusRequiresAction = "requires_action"
	statusCompleted      = "completed"
	statusFailed         = "failed"
	statusCancelled      = "cancelled"
	statusExpired        = "expired"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Translate maps one data payload onto a semantic event. The mapping is
// total: every input yields exactly one event, or none. Malformed JSON and
// unknown object kinds yield no event, never an error.
func Translate(data string) (Event, bool) {
	var env envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return nil, false
	}
	body := env.body()

	switch env.Object {
	case objectRun:
		return translateRunStatus(body, false)
	case objectRunStep:
		return translateRunStatus(body, true)
	case objectMessage:
		if body.ID == "" {
			return nil, false
		}
		return MessageCreated{MessageID: body.ID}, true
	case objectMessageDelta, objectRunStepDelta:
		if body.Delta == nil {
			return nil, false
		}
		if text := firstText(body.Delta.Content); text != "" {
			return MessageDelta{Text: text}, true
		}
		return nil, false
	case objectMessageCompleted:
		if env.Data == nil && len(body.Content) == 0 {
			return nil, false
		}
		return MessageCompleted{
			Text:      firstText(body.Content),
			Citations: collectCitations(body.Content),
		}, true
	}

	// Unknown object kind
	return nil, false
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// body resolves the payload fields of either envelope form, preferring
// the nested payload when both are present
func (e envelope) body() payload {
	result := payload{
		ID:        e.ID,
		Status:    e.Status,
		LastError: e.LastError,
		Content:   e.Content,
		Delta:     e.Delta,
	}
	if e.Data != nil {
		if e.Data.ID != "" {
			result.ID = e.Data.ID
		}
		if e.Data.Status != "" {
			result.Status = e.Data.Status
		}
		if e.Data.LastError != nil {
			result.LastError = e.Data.LastError
		}
		if len(e.Data.Content) > 0 {
			result.Content = e.Data.Content
		}
		if e.Data.Delta != nil {
			result.Delta = e.Data.Delta
		}
	}
	return result
}

// translateRunStatus maps a run or run-step status onto a lifecycle event.
// Run steps are a supplementary progress signal only, so their queued and
// requires_action statuses are not surfaced.
func translateRunStatus(data payload, step bool) (Event, bool) {
	switch data.Status {
	case statusQueued:
		if step {
			return nil, false
		}
		return RunQueued{}, true
	case statusInProgress:
		return RunInProgress{}, true
	case statusRequiresAction:
		if step {
			return nil, false
		}
		return RunRequiresAction{}, true
	case statusCompleted:
		return RunCompleted{}, true
	case statusFailed, statusCancelled, statusExpired:
		reason := "run " + data.Status
		if data.LastError != nil && data.LastError.Message != "" {
			reason = data.LastError.Message
		}
		return RunFailed{Reason: reason}, true
	}
	return nil, false
}

// firstText returns the text value of the first content part, or empty
func firstText(parts []contentPart) string {
	if len(parts) == 0 || parts[0].Text == nil {
		return ""
	}
	return parts[0].Text.Value
}

// collectCitations gathers every annotation carrying a file citation.
// Annotations without one are dropped.
func collectCitations(parts []contentPart) []schema.Citation {
	if len(parts) == 0 || parts[0].Text == nil {
		return nil
	}
	var citations []schema.Citation
	for _, a := range parts[0].Text.Annotations {
		if a.FileCitation == nil {
			continue
		}
		citations = append(citations, schema.Citation{
			SourceID:    a.FileCitation.FileID,
			Quote:       a.FileCitation.Quote,
			StartOffset: a.StartIndex,
			EndOffset:   a.EndIndex,
		})
	}
	return citations
}
