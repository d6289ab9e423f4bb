package assistant

import (
	"context"

	// Packages
	client "github.com/mutablelogic/go-client"
	askstack "github.com/thesubgraph/go-askstack"
	schema "github.com/thesubgraph/go-askstack/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type reqAssistant struct {
	Model        string                 `json:"model"`
	Name         string                 `json:"name,omitempty"`
	Description  string                 `json:"description,omitempty"`
	Instructions string                 `json:"instructions,omitempty"`
	Tools        []schema.AssistantTool `json:"tools,omitempty"`
}

// Assistant response
type respAssistant struct {
	Id           string                 `json:"id"`
	Type         string                 `json:"object"`
	Created      int64                  `json:"created_at"`
	Name         string                 `json:"name,omitempty"`
	Description  string                 `json:"description,omitempty"`
	Model        string                 `json:"model"`
	Instructions string                 `json:"instructions,omitempty"`
	Tools        []schema.AssistantTool `json:"tools,omitempty"`
}

type respAssistantList struct {
	Type    string          `json:"object"`
	Data    []respAssistant `json:"data"`
	HasMore bool            `json:"has_more"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// CreateAssistant creates a remote assistant and returns it
func (c *Client) CreateAssistant(ctx context.Context, assistant schema.Assistant) (*schema.Assistant, error) {
	if assistant.Model == "" {
		return nil, askstack.ErrBadParameter.With("model is required")
	}

	req, err := client.NewJSONRequest(reqAssistant{
		Model:        assistant.Model,
		Name:         assistant.Name,
		Description:  assistant.Description,
		Instructions: assistant.Instructions,
		Tools:        assistant.Tools,
	})
	if err != nil {
		return nil, err
	}

	var response respAssistant
	if err := c.DoWithContext(ctx, req, &response, client.OptPath("assistants")); err != nil {
		return nil, err
	}

	return response.toSchema(), nil
}

// ListAssistants returns the remote assistants, most recent first
func (c *Client) ListAssistants(ctx context.Context) ([]*schema.Assistant, error) {
	var response respAssistantList
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("assistants")); err != nil {
		return nil, err
	}

	result := make([]*schema.Assistant, 0, len(response.Data))
	for _, a := range response.Data {
		result = append(result, a.toSchema())
	}
	return result, nil
}

// GetAssistant retrieves one assistant by id
func (c *Client) GetAssistant(ctx context.Context, id string) (*schema.Assistant, error) {
	if id == "" {
		return nil, askstack.ErrBadParameter.With("assistant id is required")
	}

	var response respAssistant
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("assistants", id)); err != nil {
		return nil, err
	}
	return response.toSchema(), nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (r respAssistant) toSchema() *schema.Assistant {
	return &schema.Assistant{
		ID:           r.Id,
		Name:         r.Name,
		Description:  r.Description,
		Model:        r.Model,
		Instructions: r.Instructions,
		Tools:        r.Tools,
	}
}
