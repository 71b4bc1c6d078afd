// Package anthropic adapts the Anthropic Messages API to provider.Provider.
package anthropic

import (
	"context"

	"github.com/Cyclone1070/agentkit/internal/provider"
)

const (
	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 4096
)

// Provider sends agent rounds to the Messages API.
type Provider struct {
	client    MessagesClient
	model     string
	maxTokens int
}

// New creates a Provider. An empty model selects DefaultModel.
func New(client MessagesClient, model string) *Provider {
	if model == "" {
		model = DefaultModel
	}
	return &Provider{client: client, model: model, maxTokens: DefaultMaxTokens}
}

// Model returns the model used when a request does not name one.
func (p *Provider) Model() string {
	return p.model
}

// Generate performs one Messages API call.
func (p *Provider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	params, err := toMessageParams(req, p.model, p.maxTokens)
	if err != nil {
		return nil, &provider.ProviderError{Code: provider.ErrorCodeInvalidRequest, Message: "invalid request: " + err.Error(), Underlying: err}
	}

	msg, err := p.client.New(ctx, params)
	if err != nil {
		return nil, mapError(ctx, err)
	}
	if msg == nil {
		return nil, &provider.ProviderError{Code: provider.ErrorCodeEmptyResponse, Message: "no message returned"}
	}
	return fromMessage(msg), nil
}
