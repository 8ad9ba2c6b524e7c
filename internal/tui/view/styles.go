package view

import "github.com/charmbracelet/lipgloss"

// SidePanelWidth is the fixed width of the tab rail.
const SidePanelWidth = 18

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	sidePanelStyle = lipgloss.NewStyle().
			Width(SidePanelWidth).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	tabStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	selectedTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	contentStyle = lipgloss.NewStyle().Padding(0, 2)

	connectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	disconnectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	statusInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	statusSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	notificationStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("220")).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("240"))

	overlayStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 3)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)
