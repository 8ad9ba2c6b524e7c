package controller

import (
	tea "github.com/charmbracelet/bubbletea"

	"streamctl/internal/tui/model"
)

// NewProgram creates the Bubble Tea program for an initialized panel model.
func NewProgram(m *model.Model) *tea.Program {
	app := NewAppModel(m)
	return tea.NewProgram(app, tea.WithAltScreen())
}
