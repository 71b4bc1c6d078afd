package views

import (
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/stretchr/testify/assert"

	"github.com/Cyclone1070/agentkit/internal/ui/models"
)

type MockMarkdownRenderer struct {
	RenderFunc func(string, int) (string, error)
}

func (m *MockMarkdownRenderer) Render(content string, width int) (string, error) {
	if m.RenderFunc != nil {
		return m.RenderFunc(content, width)
	}
	return content, nil
}

func createTestViewport() viewport.Model {
	return viewport.New(80, 10)
}

func createTestTextInput(value string) textinput.Model {
	ti := textinput.New()
	ti.SetValue(value)
	return ti
}

func TestRenderChat_NoMessages(t *testing.T) {
	result := RenderChat(models.State{})
	assert.Contains(t, result, "No messages yet")
}

func TestRenderChat_WithMessages(t *testing.T) {
	vp := createTestViewport()
	vp.SetContent("Rendered Content")

	state := models.State{
		Messages: []models.Message{{Role: "user", Content: "Hello"}},
		Viewport: vp,
	}

	assert.Contains(t, RenderChat(state), "Rendered Content")
}

func TestFormatChatContent_Roles(t *testing.T) {
	messages := []models.Message{
		{Role: "user", Content: "question"},
		{Role: "assistant", Content: "answer"},
		{Role: "error", Content: "max iterations (10) reached"},
	}

	result := FormatChatContent(messages, 76, &MockMarkdownRenderer{})

	assert.Contains(t, result, "You: question")
	assert.Contains(t, result, "answer")
	assert.Contains(t, result, "Error: max iterations (10) reached")
}

func TestFormatChatContent_RenderFailureFallsBack(t *testing.T) {
	renderer := &MockMarkdownRenderer{RenderFunc: func(string, int) (string, error) {
		return "", errors.New("boom")
	}}

	result := FormatChatContent([]models.Message{{Role: "assistant", Content: "plain"}}, 76, renderer)

	assert.Contains(t, result, "AI: plain")
}

func TestRenderStatus_Executing(t *testing.T) {
	state := models.State{
		StatusPhase:   "executing",
		StatusMessage: "example_tool message=hi",
		Spinner:       spinner.New(),
	}

	assert.Contains(t, RenderStatus(state), "example_tool message=hi")
}

func TestRenderStatus_Thinking(t *testing.T) {
	state := models.State{
		StatusPhase: "thinking",
		DotCount:    2,
		Spinner:     spinner.New(),
	}

	assert.Contains(t, RenderStatus(state), "Generating..")
}

func TestRenderStatus_DoneWithModel(t *testing.T) {
	state := models.State{
		StatusPhase:   "done",
		StatusMessage: "Finished",
		CurrentModel:  "claude-sonnet-4-5",
	}

	result := RenderStatus(state)

	assert.Contains(t, result, "✔")
	assert.Contains(t, result, "Finished")
	assert.Contains(t, result, "claude-sonnet-4-5")
}

func TestRenderStatus_DefaultReady(t *testing.T) {
	assert.Contains(t, RenderStatus(models.State{}), "Ready")
}

func TestRenderRoot_NormalState(t *testing.T) {
	messages := []models.Message{{Role: "user", Content: "Hi"}}
	vp := createTestViewport()
	vp.SetContent(FormatChatContent(messages, 76, &MockMarkdownRenderer{}))

	state := models.State{
		Width:       80,
		Height:      24,
		Messages:    messages,
		Input:       createTestTextInput("typing..."),
		StatusPhase: "ready",
		Viewport:    vp,
	}

	result := RenderRoot(state)

	assert.Contains(t, result, "Hi")
	assert.Contains(t, result, "typing...")
	assert.Contains(t, result, "Ready")
}
