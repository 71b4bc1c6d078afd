// Package ui is the interactive chat front end for an agent.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cyclone1070/agentkit/internal/ui/services"
	"github.com/Cyclone1070/agentkit/internal/workflow"
)

// Agent is the part of the agent loop the chat drives.
type Agent interface {
	Run(ctx context.Context, message string) (string, error)
	UpdateContext(key string, value any)
	Reset()
}

// SpinnerFactory creates a new spinner
type SpinnerFactory func() spinner.Model

// Options configures the chat.
type Options struct {
	// Events is the channel the agent was constructed WithEvents on.
	Events   <-chan workflow.Event
	Renderer services.MarkdownRenderer
	Spinner  SpinnerFactory
	Model    string
}

// UI runs the chat program.
type UI struct {
	program *tea.Program
	cancel  context.CancelFunc
}

// NewUI creates a new Bubble Tea UI around agent.
func NewUI(ctx context.Context, agent Agent, opts Options) *UI {
	if opts.Renderer == nil {
		opts.Renderer = services.NewGlamourRenderer("")
	}
	if opts.Spinner == nil {
		opts.Spinner = func() spinner.Model { return spinner.New(spinner.WithSpinner(spinner.Dot)) }
	}
	ctx, cancel := context.WithCancel(ctx)
	model := newBubbleTeaModel(ctx, agent, opts)
	return &UI{
		program: tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)),
		cancel:  cancel,
	}
}

// Start runs the program until the user quits. In-flight runs are cancelled.
func (u *UI) Start() error {
	defer u.cancel()
	_, err := u.program.Run()
	return err
}
