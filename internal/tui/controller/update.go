package controller

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"streamctl/internal/tui/model"
)

// tickInterval paces the interactive loop. Each tick must finish in
// bounded time; all per-tick work is non-blocking.
const tickInterval = 100 * time.Millisecond

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return model.TickMsg(t)
	})
}

// Update routes messages to the panel model.
func Update(msg tea.Msg, m *model.Model) (*model.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case model.TickMsg:
		m.ApplyTick()
		return m, scheduleTick()

	case tea.KeyMsg:
		return handleKey(msg, m)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case model.ClearStatusBarMsg:
		m.StatusBarMessage = ""
		return m, nil
	}

	return m, nil
}

func handleKey(msg tea.KeyMsg, m *model.Model) (*model.Model, tea.Cmd) {
	// Overlays swallow the keyboard while open.
	if m.SetupWizardOpen {
		switch {
		case key.Matches(msg, m.Keys.FinishWizard):
			m.CloseSetupWizard(true)
		case key.Matches(msg, m.Keys.CloseOverlay):
			m.CloseSetupWizard(false)
		}
		return m, nil
	}
	if m.NewVersion != nil && key.Matches(msg, m.Keys.CloseOverlay) {
		m.NewVersion = nil
		return m, nil
	}
	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.BeginShutdown()
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Help):
		m.ShowHelp = true

	case key.Matches(msg, m.Keys.NextTab):
		m.ActiveTab = model.AllTabs[(int(m.ActiveTab)+1)%len(model.AllTabs)]

	case key.Matches(msg, m.Keys.PrevTab):
		m.ActiveTab = model.AllTabs[(int(m.ActiveTab)+len(model.AllTabs)-1)%len(model.AllTabs)]

	case key.Matches(msg, m.Keys.Restart):
		m.RequestRestart()
		m.StatusBarMessage = "runtime restart requested"
		m.StatusBarMessageType = model.StatusBarInfo
		return m, clearStatusLater()

	case key.Matches(msg, m.Keys.CopyLogs):
		if err := clipboard.WriteAll(strings.Join(m.Logs.Entries, "\n")); err != nil {
			m.StatusBarMessage = "copy failed: " + err.Error()
			m.StatusBarMessageType = model.StatusBarError
		} else {
			m.StatusBarMessage = "logs copied to clipboard"
			m.StatusBarMessageType = model.StatusBarSuccess
		}
		return m, clearStatusLater()

	case key.Matches(msg, m.Keys.InstallStable):
		if m.ActiveTab == model.TabInstallation {
			m.InstallServerFromChannel(false)
		}

	case key.Matches(msg, m.Keys.InstallNightly):
		if m.ActiveTab == model.TabInstallation {
			m.InstallServerFromChannel(true)
		}

	case key.Matches(msg, m.Keys.InstallClient):
		if m.ActiveTab == model.TabInstallation {
			m.InstallClientFromChannel()
		}
	}

	return m, nil
}

func clearStatusLater() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return model.ClearStatusBarMsg{}
	})
}
