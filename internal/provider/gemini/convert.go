package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/Cyclone1070/agentkit/internal/provider"
	"github.com/Cyclone1070/agentkit/internal/tool"
)

// toGeminiContents converts conversation messages to Gemini Content format.
// Function responses need the function name, so names are resolved from the
// tool_use blocks that precede them.
func toGeminiContents(messages []provider.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	names := make(map[string]string)

	for _, msg := range messages {
		role := "user"
		if msg.Role == provider.RoleAssistant {
			role = "model"
		}

		parts := make([]*genai.Part, 0, len(msg.Content))
		for _, block := range msg.Content {
			switch block.Type {
			case provider.BlockToolUse:
				names[block.ID] = block.Name
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   block.ID,
						Name: block.Name,
						Args: decodeArgs(block.Input),
					},
				})
			case provider.BlockToolResult:
				key := "content"
				if block.IsError {
					key = "error"
				}
				parts = append(parts, &genai.Part{
					FunctionResponse: &genai.FunctionResponse{
						ID:       block.ToolUseID,
						Name:     names[block.ToolUseID],
						Response: map[string]any{key: block.Text},
					},
				})
			default:
				parts = append(parts, genai.NewPartFromText(block.Text))
			}
		}

		// Skip empty messages
		if len(parts) == 0 {
			continue
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}

	return contents
}

func decodeArgs(raw json.RawMessage) map[string]any {
	args := map[string]any{}
	if len(raw) == 0 {
		return args
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return map[string]any{}
	}
	return args
}

// toGeminiConfig converts the request settings to Gemini config.
func toGeminiConfig(req *provider.Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		SafetySettings: defaultSafetySettings(),
	}

	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if system := strings.TrimSpace(req.System); system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(system)},
		}
	}
	if len(req.Tools) > 0 {
		config.Tools = toGeminiTools(req.Tools)
	}

	return config
}

// defaultSafetySettings returns safety settings with BLOCK_NONE for all categories.
func defaultSafetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategorySexuallyExplicit,
			Threshold: genai.HarmBlockThresholdOff,
		},
	}
}

// toGeminiTools converts tool declarations to Gemini tools.
func toGeminiTools(decls []tool.Declaration) []*genai.Tool {
	functionDeclarations := make([]*genai.FunctionDeclaration, 0, len(decls))

	for _, decl := range decls {
		fd := &genai.FunctionDeclaration{
			Name:        decl.Name,
			Description: decl.Description,
		}
		if decl.Parameters != nil {
			fd.Parameters = toGeminiSchema(decl.Parameters)
			fd.Parameters.Type = genai.TypeObject
		}
		functionDeclarations = append(functionDeclarations, fd)
	}

	return []*genai.Tool{
		{FunctionDeclarations: functionDeclarations},
	}
}

// toGeminiSchema converts a tool schema to a Gemini Schema, recursively.
func toGeminiSchema(s *tool.Schema) *genai.Schema {
	schema := &genai.Schema{
		Type:        toGeminiType(s.Type),
		Description: s.Description,
	}
	if len(s.Enum) > 0 {
		schema.Enum = s.Enum
	}
	if len(s.Required) > 0 {
		schema.Required = s.Required
	}
	if s.Items != nil {
		schema.Items = toGeminiSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			if prop == nil {
				continue
			}
			schema.Properties[name] = toGeminiSchema(prop)
		}
	}
	return schema
}

// toGeminiType converts a schema type to Gemini Type.
func toGeminiType(t tool.Type) genai.Type {
	switch t {
	case tool.TypeString:
		return genai.TypeString
	case tool.TypeNumber:
		return genai.TypeNumber
	case tool.TypeInteger:
		return genai.TypeInteger
	case tool.TypeBoolean:
		return genai.TypeBoolean
	case tool.TypeArray:
		return genai.TypeArray
	case tool.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// fromGeminiResponse converts a Gemini response to the provider format.
// Gemini has no tool_use finish reason: a candidate carrying function calls
// is reported as StopToolUse.
func fromGeminiResponse(resp *genai.GenerateContentResponse, modelUsed string) (*provider.Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, &provider.ProviderError{
			Code:    provider.ErrorCodeEmptyResponse,
			Message: "no candidates in response",
		}
	}

	candidate := resp.Candidates[0]

	out := &provider.Response{Model: modelUsed}
	if usage := resp.UsageMetadata; usage != nil {
		out.Usage = provider.Usage{
			InputTokens:  int(usage.PromptTokenCount),
			OutputTokens: int(usage.CandidatesTokenCount),
		}
	}

	calls := 0
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			switch {
			case part.FunctionCall != nil:
				calls++
				out.Content = append(out.Content, toToolUse(part.FunctionCall, calls))
			case part.Text != "" && !part.Thought:
				out.Content = append(out.Content, provider.TextBlock(part.Text))
			}
		}
	}

	out.StopReason = stopReason(candidate.FinishReason, calls > 0)
	return out, nil
}

// toToolUse builds a tool_use block, synthesizing an ID when Gemini omits one.
func toToolUse(call *genai.FunctionCall, n int) provider.ContentBlock {
	id := call.ID
	if id == "" {
		id = fmt.Sprintf("call_%d_%s", n, call.Name)
	}
	input, err := json.Marshal(call.Args)
	if err != nil || call.Args == nil {
		input = json.RawMessage(`{}`)
	}
	return provider.ToolUseBlock(id, call.Name, input)
}

func stopReason(reason genai.FinishReason, hasCalls bool) provider.StopReason {
	if hasCalls {
		return provider.StopToolUse
	}
	switch reason {
	case genai.FinishReasonStop, genai.FinishReasonUnspecified, "":
		return provider.StopEndTurn
	case genai.FinishReasonMaxTokens:
		return provider.StopMaxTokens
	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist:
		return provider.StopRefusal
	default:
		return provider.StopReason(strings.ToLower(string(reason)))
	}
}

// mapGeminiError maps Gemini API errors to provider errors. Context errors
// are returned unchanged.
func mapGeminiError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return provider.ErrorForStatus(apiErrPtr.Code, apiErrPtr.Message, err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return provider.ErrorForStatus(apiErr.Code, apiErr.Message, err)
	}

	// Generic network error
	return &provider.ProviderError{
		Code:       provider.ErrorCodeNetwork,
		Message:    "network error",
		Underlying: err,
		Retryable:  true,
	}
}
