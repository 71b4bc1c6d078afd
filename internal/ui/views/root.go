package views

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Cyclone1070/agentkit/internal/ui/models"
)

// RenderRoot renders the complete UI layout
func RenderRoot(s models.State) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderChat(s),
		RenderInput(s),
		RenderStatus(s),
	)
}
