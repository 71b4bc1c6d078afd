package toolhost

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, h *Host) *mcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	server := NewServer(h, Info{Name: "agentkit-test", Version: "v0.0.1"})

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, server, serverTransport) }()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-done
	})
	return session
}

func TestServer_ListTools(t *testing.T) {
	session := connect(t, NewHost(nil, nil, NewExampleTool()))

	res, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})

	require.NoError(t, err)
	require.Len(t, res.Tools, 1)
	assert.Equal(t, ExampleToolName, res.Tools[0].Name)
	assert.NotEmpty(t, res.Tools[0].Description)
}

func TestServer_CallExampleTool(t *testing.T) {
	session := connect(t, NewHost(nil, nil, NewExampleTool()))

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ExampleToolName,
		Arguments: map[string]any{"message": "hello"},
	})

	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, `Tool example_tool executed with args: {"message":"hello"}`, text.Text)
}

func TestServer_HandlerFailureIsToolError(t *testing.T) {
	session := connect(t, NewHost(nil, nil, stubTool("fails", "", errors.New("disk full"))))

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: "fails"})

	require.NoError(t, err)
	assert.True(t, res.IsError)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "disk full", text.Text)
}

func TestServer_UnknownToolFails(t *testing.T) {
	session := connect(t, NewHost(nil, nil, NewExampleTool()))

	_, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: "missing"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestDecodeArguments(t *testing.T) {
	args, err := decodeArguments(nil)
	require.NoError(t, err)
	assert.Empty(t, args)

	args, err = decodeArguments([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, args)

	args, err = decodeArguments([]byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, args)

	_, err = decodeArguments([]byte(`[1,2]`))
	assert.Error(t, err)
}
