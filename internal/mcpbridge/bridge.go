// Package mcpbridge exposes the tools of an MCP server to the agent loop.
package mcpbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Cyclone1070/agentkit/internal/agent"
	"github.com/Cyclone1070/agentkit/internal/tool"
)

const (
	clientName    = "agentkit"
	clientVersion = "dev"
)

// Bridge wraps one MCP client session.
type Bridge struct {
	session *mcp.ClientSession
}

// Connect opens a client session over transport.
func Connect(ctx context.Context, transport mcp.Transport) (*Bridge, error) {
	client := mcp.NewClient(&mcp.Implementation{Name: clientName, Version: clientVersion}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connect tool host: %w", err)
	}
	return &Bridge{session: session}, nil
}

// CommandTransport spawns cmdline and speaks MCP over its stdio. cmdline is
// split with shell quoting rules; it is not run through a shell.
func CommandTransport(ctx context.Context, cmdline string) (mcp.Transport, error) {
	parts, err := shellwords.Parse(cmdline)
	if err != nil {
		return nil, fmt.Errorf("parse tool host command: %w", err)
	}
	if len(parts) == 0 {
		return nil, errors.New("tool host command is empty")
	}
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...) // #nosec G204
	return &mcp.CommandTransport{Command: cmd}, nil
}

// Close ends the session.
func (b *Bridge) Close() error {
	return b.session.Close()
}

// Declarations lists the server's tools as tool declarations.
func (b *Bridge) Declarations(ctx context.Context) ([]tool.Declaration, error) {
	var decls []tool.Declaration
	for t, err := range b.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("list tools: %w", err)
		}
		if t == nil {
			continue
		}
		schema, err := tool.SchemaFromMap(t.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("tool %s schema: %w", t.Name, err)
		}
		decls = append(decls, tool.Declaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  schema,
		})
	}
	return decls, nil
}

// Executor returns an agent.Executor with one function per server tool.
func (b *Bridge) Executor(ctx context.Context) (agent.Executor, error) {
	decls, err := b.Declarations(ctx)
	if err != nil {
		return nil, err
	}
	e := make(agent.Executor, len(decls))
	for _, decl := range decls {
		e[decl.Name] = b.toolFunc(decl.Name)
	}
	return e, nil
}

func (b *Bridge) toolFunc(name string) agent.ToolFunc {
	return func(ctx context.Context, input json.RawMessage) (string, error) {
		args := map[string]any{}
		if len(input) > 0 {
			if err := json.Unmarshal(input, &args); err != nil {
				return "", fmt.Errorf("decode arguments for %s: %w", name, err)
			}
		}

		res, err := b.session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
		if err != nil {
			return "", err
		}
		if res == nil {
			return "", fmt.Errorf("tool %s returned no result", name)
		}

		text := flattenText(res.Content)
		if res.IsError {
			if text == "" {
				text = "tool reported an error"
			}
			return "", errors.New(text)
		}
		return text, nil
	}
}

func flattenText(content []mcp.Content) string {
	var parts []string
	for _, c := range content {
		if tc, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
