package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	// Packages
	client "github.com/mutablelogic/go-client"
	askstack "github.com/thesubgraph/go-askstack"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type reqRun struct {
	AssistantId string `json:"assistant_id"`
	Stream      bool   `json:"stream,omitempty"`
}

// Run response for the non-streaming endpoints
type Run struct {
	Id          string `json:"id"`
	Type        string `json:"object"`
	ThreadId    string `json:"thread_id"`
	AssistantId string `json:"assistant_id"`
	Status      string `json:"status"`
	LastError   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"last_error,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// CreateRunStream starts a streaming run on a thread and returns the raw
// response body carrying the event stream. The caller owns the body and
// must close it; closing it also unblocks any in-progress read.
func (c *Client) CreateRunStream(ctx context.Context, threadId, assistantId string) (io.ReadCloser, error) {
	if threadId == "" {
		return nil, askstack.ErrBadParameter.With("thread id is required")
	}
	if assistantId == "" {
		return nil, askstack.ErrBadParameter.With("assistant id is required")
	}

	data, err := json.Marshal(reqRun{
		AssistantId: assistantId,
		Stream:      true,
	})
	if err != nil {
		return nil, err
	}

	path, err := url.JoinPath(c.endpoint, "threads", threadId, "runs")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", client.ContentTypeTextStream)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set(betaHeader, betaVersion)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.Client.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Pre-stream failure: drain a little of the body for the cause
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, askstack.ErrInternalServerError.Withf("run: %s %s", resp.Status, bytes.TrimSpace(detail))
	}

	return resp.Body, nil
}

// GetRun retrieves the current state of a run
func (c *Client) GetRun(ctx context.Context, threadId, runId string) (*Run, error) {
	if threadId == "" || runId == "" {
		return nil, askstack.ErrBadParameter.With("thread id and run id are required")
	}

	var response Run
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("threads", threadId, "runs", runId)); err != nil {
		return nil, err
	}
	return &response, nil
}
