package toolhost

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Info identifies the server to MCP clients.
type Info struct {
	Name    string
	Version string
}

// NewServer exposes h over MCP. Handler failures are reported to the client
// as tool results with isError set.
func NewServer(h *Host, info Info) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: info.Name, Version: info.Version}, nil)
	for _, decl := range h.List() {
		name := decl.Name
		server.AddTool(&mcp.Tool{
			Name:        name,
			Description: decl.Description,
			InputSchema: decl.InputSchema(),
		}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, err := decodeArguments(req.Params.Arguments)
			if err != nil {
				return errorResult(err), nil
			}
			out, err := h.Call(ctx, name, args)
			if err != nil {
				return errorResult(err), nil
			}
			return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: out}}}, nil
		})
	}
	return server
}

func decodeArguments(raw json.RawMessage) (map[string]any, error) {
	args := map[string]any{}
	if len(raw) == 0 || string(raw) == "null" {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, errors.New("arguments must be a JSON object")
	}
	return args, nil
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}
}

// Serve runs server on transport until the peer disconnects or ctx is cancelled.
func Serve(ctx context.Context, server *mcp.Server, transport mcp.Transport) error {
	err := server.Run(ctx, transport)
	if err != nil && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
