package anthropic

import (
	"context"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// MessagesClient is the part of the Messages API the provider uses.
type MessagesClient interface {
	New(ctx context.Context, params anthropicsdk.MessageNewParams, opts ...option.RequestOption) (*anthropicsdk.Message, error)
}

// ClientConfig holds connection settings for the Messages API.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	MaxRetries int
}

// NewClient builds a MessagesClient backed by the official SDK.
func NewClient(cfg ClientConfig) MessagesClient {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	client := anthropicsdk.NewClient(opts...)
	return &client.Messages
}
