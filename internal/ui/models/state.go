package models

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Message is one entry of the chat history shown to the user.
type Message struct {
	Role    string // "user", "assistant" or "error"
	Content string
}

// State holds everything the views render.
type State struct {
	Input    textinput.Model
	Viewport viewport.Model
	Spinner  spinner.Model

	Messages []Message

	Width  int
	Height int

	// Running is true while a loop run is in flight; input is not accepted.
	Running bool

	StatusPhase   string // "ready", "thinking", "executing", "done", "error"
	StatusMessage string
	DotCount      int

	CurrentModel string
}
