/*
assistant implements an API client for the OpenAI Assistants v2 API.
https://platform.openai.com/docs/api-reference/assistants
*/
package assistant

import (
	// Packages
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	*client.Client

	// Endpoint and key are retained for the raw streaming request, which
	// bypasses the JSON response decoding path
	endpoint string
	apiKey   string
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	endPoint    = "https://api.openai.com/v1"
	betaHeader  = "OpenAI-Beta"
	betaVersion = "assistants=v2"
	defaultName = "openai"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new Assistants API client with the given API key
func New(apiKey string, opts ...client.ClientOpt) (*Client, error) {
	return NewWithEndpoint(endPoint, apiKey, opts...)
}

// NewWithEndpoint creates a client against an alternate endpoint, for
// proxies and testing
func NewWithEndpoint(endpoint, apiKey string, opts ...client.ClientOpt) (*Client, error) {
	opts = append(opts,
		client.OptEndpoint(endpoint),
		client.OptReqToken(client.Token{
			Scheme: client.Bearer,
			Value:  apiKey,
		}),
		client.OptHeader(betaHeader, betaVersion),
	)
	c, err := client.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Client{Client: c, endpoint: endpoint, apiKey: apiKey}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the provider name
func (*Client) Name() string {
	return defaultName
}
