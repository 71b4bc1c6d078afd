package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/Cyclone1070/agentkit/internal/provider"
	"github.com/Cyclone1070/agentkit/internal/tool"
)

// The API rejects empty text blocks.
const emptyTextPlaceholder = "."

func toMessageParams(req *provider.Request, defaultModel string, defaultMaxTokens int) (anthropicsdk.MessageNewParams, error) {
	model := req.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  toMessages(req.Messages),
	}
	if system := strings.TrimSpace(req.System); system != "" {
		params.System = []anthropicsdk.TextBlockParam{{Text: system}}
	}
	if len(req.Tools) > 0 {
		tools, err := toTools(req.Tools)
		if err != nil {
			return anthropicsdk.MessageNewParams{}, err
		}
		params.Tools = tools
	}
	return params, nil
}

func toMessages(msgs []provider.Message) []anthropicsdk.MessageParam {
	out := make([]anthropicsdk.MessageParam, 0, len(msgs))
	for _, msg := range msgs {
		blocks := toBlocks(msg.Content)
		if msg.Role == provider.RoleAssistant {
			out = append(out, anthropicsdk.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropicsdk.NewUserMessage(blocks...))
		}
	}
	return out
}

func toBlocks(blocks []provider.ContentBlock) []anthropicsdk.ContentBlockParamUnion {
	out := make([]anthropicsdk.ContentBlockParamUnion, 0, len(blocks))
	for _, b := range blocks {
		switch b.Type {
		case provider.BlockToolUse:
			var input any = map[string]any{}
			if len(b.Input) > 0 {
				input = b.Input
			}
			out = append(out, anthropicsdk.NewToolUseBlock(b.ID, input, b.Name))
		case provider.BlockToolResult:
			out = append(out, anthropicsdk.NewToolResultBlock(b.ToolUseID, b.Text, b.IsError))
		default:
			text := b.Text
			if strings.TrimSpace(text) == "" {
				text = emptyTextPlaceholder
			}
			out = append(out, anthropicsdk.NewTextBlock(text))
		}
	}
	if len(out) == 0 {
		out = append(out, anthropicsdk.NewTextBlock(emptyTextPlaceholder))
	}
	return out
}

func toTools(decls []tool.Declaration) ([]anthropicsdk.ToolUnionParam, error) {
	out := make([]anthropicsdk.ToolUnionParam, 0, len(decls))
	for _, decl := range decls {
		schema, err := encodeSchema(decl.InputSchema())
		if err != nil {
			return nil, fmt.Errorf("tool %s schema: %w", decl.Name, err)
		}
		param := anthropicsdk.ToolParam{Name: decl.Name, InputSchema: schema}
		if decl.Description != "" {
			param.Description = anthropicsdk.String(decl.Description)
		}
		out = append(out, anthropicsdk.ToolUnionParam{OfTool: &param})
	}
	return out, nil
}

func encodeSchema(raw map[string]any) (anthropicsdk.ToolInputSchemaParam, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return anthropicsdk.ToolInputSchemaParam{}, err
	}
	var schema anthropicsdk.ToolInputSchemaParam
	if err := json.Unmarshal(data, &schema); err != nil {
		return anthropicsdk.ToolInputSchemaParam{}, err
	}
	if schema.Type == "" {
		schema.Type = "object"
	}
	return schema, nil
}

func fromMessage(msg *anthropicsdk.Message) *provider.Response {
	resp := &provider.Response{
		StopReason: provider.StopReason(msg.StopReason),
		Model:      string(msg.Model),
		Usage: provider.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			resp.Content = append(resp.Content, provider.TextBlock(block.Text))
		case "tool_use":
			resp.Content = append(resp.Content, provider.ToolUseBlock(block.ID, block.Name, block.Input))
		}
	}
	return resp
}

// mapError converts SDK failures to provider errors. Context errors are
// returned as is so callers can tell cancellation from upstream failures.
func mapError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var apiErr *anthropicsdk.Error
	if errors.As(err, &apiErr) {
		return provider.ErrorForStatus(apiErr.StatusCode, http.StatusText(apiErr.StatusCode), err)
	}
	return &provider.ProviderError{Code: provider.ErrorCodeNetwork, Message: "request failed", Underlying: err, Retryable: true}
}
