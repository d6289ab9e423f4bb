package assistant

import (
	"context"

	// Packages
	client "github.com/mutablelogic/go-client"
	askstack "github.com/thesubgraph/go-askstack"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type reqThread struct {
	// The thread is created empty; messages are added per turn
}

type reqThreadMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respThread struct {
	Id   string `json:"id"`
	Type string `json:"object"`
}

type respThreadMessage struct {
	Id   string `json:"id"`
	Type string `json:"object"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// CreateThread allocates a new server-side thread and returns its id
func (c *Client) CreateThread(ctx context.Context) (string, error) {
	req, err := client.NewJSONRequest(reqThread{})
	if err != nil {
		return "", err
	}

	var response respThread
	if err := c.DoWithContext(ctx, req, &response, client.OptPath("threads")); err != nil {
		return "", err
	}
	if response.Id == "" {
		return "", askstack.ErrInternalServerError.With("thread response missing id")
	}
	return response.Id, nil
}

// AddMessage appends a user message to a thread before starting a run
func (c *Client) AddMessage(ctx context.Context, threadId, content string) error {
	if threadId == "" {
		return askstack.ErrBadParameter.With("thread id is required")
	}

	req, err := client.NewJSONRequest(reqThreadMessage{
		Role:    "user",
		Content: content,
	})
	if err != nil {
		return err
	}

	var response respThreadMessage
	return c.DoWithContext(ctx, req, &response, client.OptPath("threads", threadId, "messages"))
}
