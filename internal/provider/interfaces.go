package provider

import (
	"context"
)

// Provider represents a hosted conversational model.
type Provider interface {
	// Generate sends the request to the model and returns its response.
	// Errors are returned as *ProviderError where the backend allows it.
	Generate(ctx context.Context, req *Request) (*Response, error)
}
