package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pario-ai/premiumcalc/pkg/models"
)

// Styles degrade to plain text when stdout is not a terminal.
var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#879A39"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#DA702C"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6F6E69"))
	costStyle  = lipgloss.NewStyle().Bold(true)
)

func renderStatus(s models.BudgetStatus) string {
	switch s {
	case models.BudgetWithin:
		return okStyle.Render(string(s))
	case models.BudgetOver:
		return warnStyle.Render(string(s))
	default:
		return mutedStyle.Render(string(s))
	}
}
