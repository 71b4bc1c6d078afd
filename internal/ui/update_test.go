package ui

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/agentkit/internal/agent"
	"github.com/Cyclone1070/agentkit/internal/workflow"
)

type MockMarkdownRenderer struct{}

func (m *MockMarkdownRenderer) Render(content string, width int) (string, error) {
	return content, nil
}

type MockAgent struct {
	RunFunc  func(ctx context.Context, message string) (string, error)
	context  map[string]any
	resets   int
	messages []string
}

func (m *MockAgent) Run(ctx context.Context, message string) (string, error) {
	m.messages = append(m.messages, message)
	if m.RunFunc != nil {
		return m.RunFunc(ctx, message)
	}
	return "ok", nil
}

func (m *MockAgent) UpdateContext(key string, value any) {
	if m.context == nil {
		m.context = map[string]any{}
	}
	m.context[key] = value
}

func (m *MockAgent) Reset() { m.resets++ }

func mockSpinnerFactory() spinner.Model {
	return spinner.New()
}

func createTestModel(agent Agent, events <-chan workflow.Event) BubbleTeaModel {
	return newBubbleTeaModel(context.Background(), agent, Options{
		Events:   events,
		Renderer: &MockMarkdownRenderer{},
		Spinner:  mockSpinnerFactory,
		Model:    "test-model",
	})
}

func typeAndSubmit(t *testing.T, m BubbleTeaModel, text string) (BubbleTeaModel, tea.Cmd) {
	t.Helper()
	m.state.Input.SetValue(text)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(BubbleTeaModel), cmd
}

func TestInit_ReturnsCommands(t *testing.T) {
	model := createTestModel(&MockAgent{}, make(chan workflow.Event))
	assert.NotNil(t, model.Init())
}

func TestUpdate_KeyEnter_StartsRun(t *testing.T) {
	agent := &MockAgent{RunFunc: func(ctx context.Context, message string) (string, error) {
		return "**answer**", nil
	}}
	m := createTestModel(agent, nil)

	m, cmd := typeAndSubmit(t, m, "hello")

	require.NotNil(t, cmd)
	assert.True(t, m.state.Running)
	assert.Equal(t, "", m.state.Input.Value())
	require.Len(t, m.state.Messages, 1)
	assert.Equal(t, "user", m.state.Messages[0].Role)
	assert.Equal(t, "hello", m.state.Messages[0].Content)

	msg := cmd()
	result, ok := msg.(runResultMsg)
	require.True(t, ok)
	assert.Equal(t, "**answer**", result.text)
	assert.Equal(t, []string{"hello"}, agent.messages)

	next, _ := m.Update(msg)
	m = next.(BubbleTeaModel)
	assert.False(t, m.state.Running)
	assert.Equal(t, "done", m.state.StatusPhase)
	require.Len(t, m.state.Messages, 2)
	assert.Equal(t, "assistant", m.state.Messages[1].Role)
	assert.Equal(t, "**answer**", m.state.Messages[1].Content)
}

func TestUpdate_KeyEnter_IgnoredWhileRunning(t *testing.T) {
	m := createTestModel(&MockAgent{}, nil)
	m.state.Running = true

	m, cmd := typeAndSubmit(t, m, "again")

	assert.Nil(t, cmd)
	assert.Empty(t, m.state.Messages)
	assert.Equal(t, "again", m.state.Input.Value())
}

func TestUpdate_KeyEnter_EmptyInputIgnored(t *testing.T) {
	m := createTestModel(&MockAgent{}, nil)

	m, cmd := typeAndSubmit(t, m, "   ")

	assert.Nil(t, cmd)
	assert.False(t, m.state.Running)
}

func TestUpdate_RunError_ShowsError(t *testing.T) {
	m := createTestModel(&MockAgent{}, nil)
	m.state.Running = true

	next, _ := m.Update(runResultMsg{err: errors.New("max iterations (10) reached")})
	m = next.(BubbleTeaModel)

	assert.False(t, m.state.Running)
	assert.Equal(t, "error", m.state.StatusPhase)
	require.Len(t, m.state.Messages, 1)
	assert.Equal(t, "error", m.state.Messages[0].Role)
	assert.Contains(t, m.state.Messages[0].Content, "max iterations")
}

func TestUpdate_RunError_MaxIterationsSuggestsReset(t *testing.T) {
	m := createTestModel(&MockAgent{}, nil)
	m.state.Running = true

	next, _ := m.Update(runResultMsg{err: &agent.MaxIterationsError{Max: 10}})
	m = next.(BubbleTeaModel)

	require.Len(t, m.state.Messages, 1)
	assert.Contains(t, m.state.Messages[0].Content, "max iterations (10) reached")
	assert.Contains(t, m.state.Messages[0].Content, "/reset")
}

func TestUpdate_RunError_OtherErrorsHaveNoResetHint(t *testing.T) {
	m := createTestModel(&MockAgent{}, nil)

	next, _ := m.Update(runResultMsg{err: errors.New("rate limit exceeded")})
	m = next.(BubbleTeaModel)

	assert.NotContains(t, m.state.Messages[0].Content, "/reset")
}

func TestUpdate_WorkflowEvents_UpdateStatus(t *testing.T) {
	events := make(chan workflow.Event, 1)
	m := createTestModel(&MockAgent{}, events)

	next, cmd := m.Update(eventMsg{event: workflow.ThinkingEvent{Iteration: 1}})
	m = next.(BubbleTeaModel)
	assert.Equal(t, "thinking", m.state.StatusPhase)
	assert.Equal(t, "(round 2)", m.state.StatusMessage)
	require.NotNil(t, cmd)

	next, _ = m.Update(eventMsg{event: workflow.ToolStartEvent{ToolName: "example_tool", Input: `{"message":"hi"}`}})
	m = next.(BubbleTeaModel)
	assert.Equal(t, "executing", m.state.StatusPhase)
	assert.Equal(t, "example_tool message=hi", m.state.StatusMessage)

	next, _ = m.Update(eventMsg{event: workflow.ToolEndEvent{ToolName: "example_tool", IsError: true}})
	m = next.(BubbleTeaModel)
	assert.Equal(t, "example_tool failed", m.state.StatusMessage)

	events <- workflow.TextEvent{Text: "hi"}
	assert.Equal(t, eventMsg{event: workflow.TextEvent{Text: "hi"}}, cmd())
}

func TestUpdate_SetCommand_UpdatesContext(t *testing.T) {
	agent := &MockAgent{}
	m := createTestModel(agent, nil)

	m, cmd := typeAndSubmit(t, m, "/set user=ada lovelace")

	assert.Nil(t, cmd)
	assert.Equal(t, map[string]any{"user": "ada lovelace"}, agent.context)
	assert.Contains(t, m.state.Messages[0].Content, "Context updated")
	assert.Empty(t, agent.messages)
}

func TestUpdate_SetCommand_DecodesJSONValues(t *testing.T) {
	agent := &MockAgent{}
	m := createTestModel(agent, nil)

	m, _ = typeAndSubmit(t, m, "/set attempt=2")
	m, _ = typeAndSubmit(t, m, `/set tags=["a","b"]`)
	_, _ = typeAndSubmit(t, m, "/set ok=true")

	assert.Equal(t, map[string]any{
		"attempt": float64(2),
		"tags":    []any{"a", "b"},
		"ok":      true,
	}, agent.context)
}

func TestUpdate_SetCommand_InvalidUsage(t *testing.T) {
	agent := &MockAgent{}
	m := createTestModel(agent, nil)

	m, _ = typeAndSubmit(t, m, "/set novalue")

	assert.Nil(t, agent.context)
	assert.Contains(t, m.state.Messages[0].Content, "Usage")
}

func TestUpdate_ResetCommand(t *testing.T) {
	agent := &MockAgent{}
	m := createTestModel(agent, nil)

	m, _ = typeAndSubmit(t, m, "/reset")

	assert.Equal(t, 1, agent.resets)
	assert.Contains(t, m.state.Messages[0].Content, "reset")
}

func TestUpdate_UnknownCommand_ShowsHelp(t *testing.T) {
	m := createTestModel(&MockAgent{}, nil)

	m, _ = typeAndSubmit(t, m, "/bogus")

	assert.Contains(t, m.state.Messages[0].Content, "Unknown command /bogus")
	assert.Contains(t, m.state.Messages[0].Content, "/help")
}

func TestUpdate_WindowResize(t *testing.T) {
	m := createTestModel(&MockAgent{}, nil)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(BubbleTeaModel)

	assert.Equal(t, 100, m.state.Width)
	assert.Equal(t, 34, m.state.Viewport.Height)
}

func TestUpdate_CtrlC_Quits(t *testing.T) {
	m := createTestModel(&MockAgent{}, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView_ShowsModelName(t *testing.T) {
	m := createTestModel(&MockAgent{}, nil)
	assert.Contains(t, m.View(), "test-model")
}

func TestListenForEvents_ClosedChannel(t *testing.T) {
	ch := make(chan workflow.Event)
	close(ch)
	assert.Nil(t, listenForEvents(ch)())
	assert.Nil(t, listenForEvents(nil))
}
