package views

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("63")
	ColorError   = lipgloss.Color("196")
	ColorDim     = lipgloss.Color("241")

	UserMessageStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	AssistantMessageStyle = lipgloss.NewStyle().PaddingLeft(1)
	ErrorMessageStyle     = lipgloss.NewStyle().Foreground(ColorError)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	StatusDefaultStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	StatusThinkingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	StatusExecutingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	StatusDoneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	StatusErrorStyle     = lipgloss.NewStyle().Foreground(ColorError)
)
