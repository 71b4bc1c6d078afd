package views

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/agentkit/internal/ui/models"
)

// RenderStatus renders the status bar
func RenderStatus(s models.State) string {
	var icon string
	var style = StatusDefaultStyle

	switch s.StatusPhase {
	case "executing":
		icon = s.Spinner.View()
		style = StatusExecutingStyle
	case "done":
		icon = "✔"
		style = StatusDoneStyle
	case "error":
		icon = "✘"
		style = StatusErrorStyle
	case "thinking":
		icon = s.Spinner.View()
		dots := strings.Repeat(".", s.DotCount)
		return StatusThinkingStyle.Render(fmt.Sprintf("%s Generating%s %s", icon, dots, s.StatusMessage))
	}

	status := "Ready"
	if s.StatusMessage != "" {
		status = strings.TrimSpace(fmt.Sprintf("%s %s", icon, s.StatusMessage))
	}

	left := style.Render(status)
	if s.CurrentModel == "" {
		return left
	}
	right := StatusDefaultStyle.Foreground(ColorDim).Render(s.CurrentModel)
	return fmt.Sprintf("%s  %s", left, right)
}
