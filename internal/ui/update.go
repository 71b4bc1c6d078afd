package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cyclone1070/agentkit/internal/agent"
	"github.com/Cyclone1070/agentkit/internal/ui/models"
	"github.com/Cyclone1070/agentkit/internal/ui/services"
	"github.com/Cyclone1070/agentkit/internal/ui/views"
	"github.com/Cyclone1070/agentkit/internal/workflow"
)

const helpText = "Available commands:\n" +
	"- /set key=value - Add an entry to the agent context\n" +
	"- /reset - Reset iteration count and context\n" +
	"- /help - Show this help"

// BubbleTeaModel implements tea.Model
type BubbleTeaModel struct {
	state models.State

	ctx      context.Context
	agent    Agent
	events   <-chan workflow.Event
	renderer services.MarkdownRenderer
}

func newBubbleTeaModel(ctx context.Context, agent Agent, opts Options) BubbleTeaModel {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Focus()

	return BubbleTeaModel{
		state: models.State{
			Input:        ti,
			Viewport:     viewport.New(80, 20),
			Spinner:      opts.Spinner(),
			Messages:     []models.Message{},
			StatusPhase:  "ready",
			CurrentModel: opts.Model,
		},
		ctx:      ctx,
		agent:    agent,
		events:   opts.Events,
		renderer: opts.Renderer,
	}
}

// Internal messages
type tickMsg time.Time
type eventMsg struct{ event workflow.Event }
type runResultMsg struct {
	text string
	err  error
}

// View renders the UI
func (m BubbleTeaModel) View() string {
	return views.RenderRoot(m.state)
}

// Init initializes the model
func (m BubbleTeaModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.state.Spinner.Tick,
		tick(),
		listenForEvents(m.events),
	)
}

// Update handles messages
func (m BubbleTeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.state.Viewport.Width = msg.Width
		m.state.Viewport.Height = msg.Height - 6 // Reserve space for input and status
		m.updateViewport()
		return m, nil

	case tickMsg:
		m.state.DotCount = (m.state.DotCount + 1) % 4
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, cmd

	case eventMsg:
		m.applyEvent(msg.event)
		return m, listenForEvents(m.events)

	case runResultMsg:
		m.state.Running = false
		if msg.err != nil {
			content := msg.err.Error()
			// The iteration count spans runs, so every later message fails the same way.
			if errors.Is(msg.err, agent.ErrMaxIterations) {
				content += "\n\nThe iteration budget is used up. Type /reset to start over."
			}
			m.state.Messages = append(m.state.Messages, models.Message{Role: "error", Content: content})
			m.state.StatusPhase = "error"
			m.state.StatusMessage = "Run failed"
		} else {
			m.state.Messages = append(m.state.Messages, models.Message{Role: "assistant", Content: msg.text})
			m.state.StatusPhase = "done"
			m.state.StatusMessage = "Finished"
		}
		m.updateViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

// applyEvent reflects loop progress in the status bar.
func (m *BubbleTeaModel) applyEvent(e workflow.Event) {
	switch e := e.(type) {
	case workflow.ThinkingEvent:
		m.state.StatusPhase = "thinking"
		m.state.StatusMessage = fmt.Sprintf("(round %d)", e.Iteration+1)
	case workflow.ToolStartEvent:
		m.state.StatusPhase = "executing"
		m.state.StatusMessage = services.FormatToolDescription(e.ToolName, e.Input)
	case workflow.ToolEndEvent:
		if e.IsError {
			m.state.StatusMessage = e.ToolName + " failed"
		}
	}
}

// handleKeyPress handles keyboard input
func (m BubbleTeaModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		input := strings.TrimSpace(m.state.Input.Value())
		if m.state.Running || input == "" {
			return m, nil
		}
		m.state.Input.SetValue("")

		if strings.HasPrefix(input, "/") {
			return m.handleCommand(input)
		}

		m.state.Messages = append(m.state.Messages, models.Message{Role: "user", Content: input})
		m.state.Running = true
		m.state.StatusPhase = "thinking"
		m.state.StatusMessage = ""
		m.updateViewport()
		return m, runAgent(m.ctx, m.agent, input)
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

// handleCommand handles slash commands
func (m BubbleTeaModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)

	switch parts[0] {
	case "/set":
		if len(parts) < 2 {
			m.addNotice("Usage: /set key=value")
			break
		}
		key, value, ok := strings.Cut(strings.Join(parts[1:], " "), "=")
		if !ok || strings.TrimSpace(key) == "" {
			m.addNotice("Usage: /set key=value")
			break
		}
		m.agent.UpdateContext(strings.TrimSpace(key), agent.ParseContextValue(value))
		m.addNotice(fmt.Sprintf("Context updated: `%s`", key))
	case "/reset":
		m.agent.Reset()
		m.addNotice("Agent state reset.")
	case "/help":
		m.addNotice(helpText)
	default:
		m.addNotice(fmt.Sprintf("Unknown command %s\n\n%s", parts[0], helpText))
	}
	return m, nil
}

func (m *BubbleTeaModel) addNotice(text string) {
	m.state.Messages = append(m.state.Messages, models.Message{Role: "assistant", Content: text})
	m.updateViewport()
}

// updateViewport updates the viewport content
func (m *BubbleTeaModel) updateViewport() {
	content := views.FormatChatContent(m.state.Messages, m.state.Width-4, m.renderer)
	m.state.Viewport.SetContent(content)
	m.state.Viewport.GotoBottom()
}

func runAgent(ctx context.Context, agent Agent, input string) tea.Cmd {
	return func() tea.Msg {
		text, err := agent.Run(ctx, input)
		return runResultMsg{text: text, err: err}
	}
}

func listenForEvents(ch <-chan workflow.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg{event: e}
	}
}

func tick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
