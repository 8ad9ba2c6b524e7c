package controller

import (
	tea "github.com/charmbracelet/bubbletea"

	"streamctl/internal/tui/model"
	"streamctl/internal/tui/view"
)

// AppModel wraps the panel model to satisfy tea.Model.
type AppModel struct {
	model *model.Model
}

// NewAppModel creates the wrapper.
func NewAppModel(m *model.Model) AppModel {
	return AppModel{model: m}
}

// Init implements tea.Model.
func (a AppModel) Init() tea.Cmd {
	return tea.Batch(a.model.Spinner.Tick, scheduleTick())
}

// Update implements tea.Model.
func (a AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		a.model.Width = size.Width
		a.model.Height = size.Height
		a.model.LogViewport.Width = size.Width - view.SidePanelWidth - 4
		a.model.LogViewport.Height = size.Height - 6
		return a, nil
	}

	updated, cmd := Update(msg, a.model)
	a.model = updated
	return a, cmd
}

// View implements tea.Model.
func (a AppModel) View() string {
	return view.Render(a.model)
}
