package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/agentkit/internal/provider"
	"github.com/Cyclone1070/agentkit/internal/tool"
)

type fakeMessages struct {
	params  anthropicsdk.MessageNewParams
	newFunc func(ctx context.Context, params anthropicsdk.MessageNewParams) (*anthropicsdk.Message, error)
}

func (f *fakeMessages) New(ctx context.Context, params anthropicsdk.MessageNewParams, _ ...option.RequestOption) (*anthropicsdk.Message, error) {
	f.params = params
	return f.newFunc(ctx, params)
}

func decodeMessage(t *testing.T, raw string) *anthropicsdk.Message {
	t.Helper()
	var msg anthropicsdk.Message
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))
	return &msg
}

func TestGenerate_ConvertsResponse(t *testing.T) {
	msg := decodeMessage(t, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-test",
		"stop_reason": "tool_use",
		"content": [
			{"type": "text", "text": "Let me check."},
			{"type": "tool_use", "id": "tu_1", "name": "get_weather", "input": {"city": "Oslo"}}
		],
		"usage": {"input_tokens": 12, "output_tokens": 7}
	}`)
	fake := &fakeMessages{newFunc: func(ctx context.Context, params anthropicsdk.MessageNewParams) (*anthropicsdk.Message, error) {
		return msg, nil
	}}
	p := New(fake, "")

	resp, err := p.Generate(context.Background(), &provider.Request{Messages: []provider.Message{provider.UserText("weather?")}})

	require.NoError(t, err)
	assert.Equal(t, provider.StopToolUse, resp.StopReason)
	assert.Equal(t, "claude-test", resp.Model)
	assert.Equal(t, provider.Usage{InputTokens: 12, OutputTokens: 7}, resp.Usage)
	require.Len(t, resp.Content, 2)
	text, ok := resp.Text()
	assert.True(t, ok)
	assert.Equal(t, "Let me check.", text)

	uses := resp.ToolUses()
	require.Len(t, uses, 1)
	assert.Equal(t, "tu_1", uses[0].ID)
	assert.Equal(t, "get_weather", uses[0].Name)
	assert.JSONEq(t, `{"city":"Oslo"}`, string(uses[0].Input))
}

func TestGenerate_BuildsParams(t *testing.T) {
	fake := &fakeMessages{newFunc: func(ctx context.Context, params anthropicsdk.MessageNewParams) (*anthropicsdk.Message, error) {
		return decodeMessage(t, `{"stop_reason":"end_turn","content":[{"type":"text","text":"ok"}]}`), nil
	}}
	p := New(fake, "claude-default")

	req := &provider.Request{
		System:    "be terse",
		MaxTokens: 256,
		Messages: []provider.Message{
			provider.UserText("hi"),
			{Role: provider.RoleAssistant, Content: []provider.ContentBlock{
				provider.ToolUseBlock("tu_1", "echo", json.RawMessage(`{"x":1}`)),
			}},
			{Role: provider.RoleUser, Content: []provider.ContentBlock{
				provider.ToolResultBlock("tu_1", "boom", true),
			}},
		},
		Tools: []tool.Declaration{{
			Name:        "echo",
			Description: "Echo input",
			Parameters: &tool.Schema{
				Type:       tool.TypeObject,
				Properties: map[string]*tool.Schema{"x": {Type: tool.TypeInteger}},
				Required:   []string{"x"},
			},
		}},
	}

	_, err := p.Generate(context.Background(), req)
	require.NoError(t, err)

	params := fake.params
	assert.Equal(t, anthropicsdk.Model("claude-default"), params.Model)
	assert.Equal(t, int64(256), params.MaxTokens)
	require.Len(t, params.System, 1)
	assert.Equal(t, "be terse", params.System[0].Text)

	require.Len(t, params.Messages, 3)
	assert.Equal(t, anthropicsdk.MessageParamRoleUser, params.Messages[0].Role)
	require.NotNil(t, params.Messages[0].Content[0].OfText)
	assert.Equal(t, "hi", params.Messages[0].Content[0].OfText.Text)

	assert.Equal(t, anthropicsdk.MessageParamRoleAssistant, params.Messages[1].Role)
	use := params.Messages[1].Content[0].OfToolUse
	require.NotNil(t, use)
	assert.Equal(t, "tu_1", use.ID)
	assert.Equal(t, "echo", use.Name)

	result := params.Messages[2].Content[0].OfToolResult
	require.NotNil(t, result)
	assert.Equal(t, "tu_1", result.ToolUseID)
	assert.True(t, result.IsError.Value)

	require.Len(t, params.Tools, 1)
	toolParam := params.Tools[0].OfTool
	require.NotNil(t, toolParam)
	assert.Equal(t, "echo", toolParam.Name)
	assert.Equal(t, []string{"x"}, toolParam.InputSchema.Required)
}

func TestGenerate_EmptyMessageUsesPlaceholder(t *testing.T) {
	fake := &fakeMessages{newFunc: func(ctx context.Context, params anthropicsdk.MessageNewParams) (*anthropicsdk.Message, error) {
		return decodeMessage(t, `{"stop_reason":"end_turn","content":[]}`), nil
	}}

	resp, err := New(fake, "").Generate(context.Background(), &provider.Request{Messages: []provider.Message{provider.UserText("")}})

	require.NoError(t, err)
	assert.Equal(t, emptyTextPlaceholder, fake.params.Messages[0].Content[0].OfText.Text)
	assert.Equal(t, anthropicsdk.Model(DefaultModel), fake.params.Model)
	assert.Equal(t, int64(DefaultMaxTokens), fake.params.MaxTokens)
	text, ok := resp.Text()
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestGenerate_MapsStatusErrors(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusUnauthorized, provider.ErrAuthentication},
		{http.StatusNotFound, provider.ErrInvalidModel},
		{http.StatusTooManyRequests, provider.ErrRateLimit},
		{http.StatusBadRequest, provider.ErrInvalidRequest},
		{529, provider.ErrServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			apiErr := &anthropicsdk.Error{StatusCode: tt.status}
			fake := &fakeMessages{newFunc: func(ctx context.Context, params anthropicsdk.MessageNewParams) (*anthropicsdk.Message, error) {
				return nil, apiErr
			}}

			_, err := New(fake, "").Generate(context.Background(), &provider.Request{})

			assert.ErrorIs(t, err, tt.sentinel)
			var perr *provider.ProviderError
			require.True(t, errors.As(err, &perr))
			assert.Same(t, apiErr, perr.Underlying)
		})
	}
}

func TestGenerate_ContextErrorsPassThrough(t *testing.T) {
	fake := &fakeMessages{newFunc: func(ctx context.Context, params anthropicsdk.MessageNewParams) (*anthropicsdk.Message, error) {
		return nil, context.DeadlineExceeded
	}}

	_, err := New(fake, "").Generate(context.Background(), &provider.Request{})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	var perr *provider.ProviderError
	assert.False(t, errors.As(err, &perr))
}

func TestGenerate_TransportErrorIsRetryableNetworkError(t *testing.T) {
	fake := &fakeMessages{newFunc: func(ctx context.Context, params anthropicsdk.MessageNewParams) (*anthropicsdk.Message, error) {
		return nil, errors.New("connection reset")
	}}

	_, err := New(fake, "").Generate(context.Background(), &provider.Request{})

	assert.ErrorIs(t, err, provider.ErrNetwork)
	assert.True(t, provider.IsRetryable(err))
}

func TestGenerate_NilMessage(t *testing.T) {
	fake := &fakeMessages{newFunc: func(ctx context.Context, params anthropicsdk.MessageNewParams) (*anthropicsdk.Message, error) {
		return nil, nil
	}}

	_, err := New(fake, "").Generate(context.Background(), &provider.Request{})

	assert.ErrorIs(t, err, provider.ErrEmptyResponse)
}
