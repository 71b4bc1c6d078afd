// Package gemini adapts Google Gemini to provider.Provider.
package gemini

import (
	"context"

	"github.com/Cyclone1070/agentkit/internal/provider"
)

// DefaultModel is used when neither the provider nor the request names a model.
const DefaultModel = "gemini-2.5-flash"

// GeminiProvider implements provider.Provider for Google Gemini.
type GeminiProvider struct {
	client    GeminiClient
	modelName string
}

// New creates a new GeminiProvider with the specified client and model.
func New(client GeminiClient, modelName string) *GeminiProvider {
	if modelName == "" {
		modelName = DefaultModel
	}
	return &GeminiProvider{
		client:    client,
		modelName: modelName,
	}
}

// Model returns the model used when a request does not name one.
func (p *GeminiProvider) Model() string {
	return p.modelName
}

// Generate sends a request to the Gemini API and returns the response.
func (p *GeminiProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	model := req.Model
	if model == "" {
		model = p.modelName
	}

	contents := toGeminiContents(req.Messages)
	config := toGeminiConfig(req)

	resp, err := p.client.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, mapGeminiError(ctx, err)
	}

	return fromGeminiResponse(resp, model)
}
