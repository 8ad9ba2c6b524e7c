package controller

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamctl/internal/installer"
	"streamctl/internal/protocol"
	"streamctl/internal/restart"
	"streamctl/internal/tui/model"
)

type fakeTransport struct {
	sent []protocol.OutboundRequest
}

func (f *fakeTransport) PollEvent() (protocol.Event, bool) { return protocol.Event{}, false }
func (f *fakeTransport) Send(req protocol.OutboundRequest) { f.sent = append(f.sent, req) }
func (f *fakeTransport) Connected() bool                   { return true }

type noopSteps struct{}

func (noopSteps) InstallServer(context.Context, protocol.ReleaseInfo, string, installer.ProgressFunc) error {
	return nil
}

func (noopSteps) InstallClient(context.Context, protocol.ReleaseInfo, installer.ProgressFunc) error {
	return nil
}

func newTestModel(t *testing.T) *model.Model {
	t.Helper()
	worker := installer.NewActor(noopSteps{}, nil)
	worker.Start()
	return model.InitializeModel(model.Deps{
		Transport:   &fakeTransport{},
		Coordinator: restart.NewCoordinator(func() {}),
		Worker:      worker,
		Version:     "1.0.0",
	})
}

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestUpdateTickReschedules(t *testing.T) {
	m := newTestModel(t)

	_, cmd := Update(model.TickMsg{}, m)

	assert.NotNil(t, cmd, "every tick must schedule the next one")
}

func TestTabCyclingWrapsAround(t *testing.T) {
	m := newTestModel(t)
	require.Equal(t, model.TabDevices, m.ActiveTab)

	next := tea.KeyMsg{Type: tea.KeyTab}
	for range model.AllTabs {
		m, _ = Update(next, m)
	}
	assert.Equal(t, model.TabDevices, m.ActiveTab, "cycling through all tabs returns to the first")

	m, _ = Update(tea.KeyMsg{Type: tea.KeyShiftTab}, m)
	assert.Equal(t, model.TabAbout, m.ActiveTab, "reverse cycling wraps to the last tab")
}

func TestQuitKeyShutsDown(t *testing.T) {
	m := newTestModel(t)

	m, cmd := Update(keyMsg('q'), m)

	assert.True(t, m.Quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRestartKeySetsStatusAndQueuesRequest(t *testing.T) {
	m := newTestModel(t)

	m, cmd := Update(keyMsg('r'), m)

	assert.Equal(t, "runtime restart requested", m.StatusBarMessage)
	assert.NotNil(t, cmd, "status message schedules its own expiry")
	assert.Equal(t, 2, m.Requests.Len(), "restart_runtime joins the initial get_session")
}

func TestWizardOverlaySwallowsKeys(t *testing.T) {
	m := newTestModel(t)
	m.SetupWizardOpen = true

	// Tab key does nothing while the wizard is open.
	m, _ = Update(tea.KeyMsg{Type: tea.KeyTab}, m)
	assert.Equal(t, model.TabDevices, m.ActiveTab)
	assert.True(t, m.SetupWizardOpen)

	// Escape skips the wizard without writing the flag back.
	before := m.Requests.Len()
	m, _ = Update(tea.KeyMsg{Type: tea.KeyEsc}, m)
	assert.False(t, m.SetupWizardOpen)
	assert.Equal(t, before, m.Requests.Len())
}

func TestWizardFinishedWritesFlagBack(t *testing.T) {
	m := newTestModel(t)
	m.SetupWizardOpen = true

	before := m.Requests.Len()
	m, _ = Update(tea.KeyMsg{Type: tea.KeyEnter}, m)

	assert.False(t, m.SetupWizardOpen)
	assert.Equal(t, before+1, m.Requests.Len(), "finishing queues the set_values write-back")
}

func TestNewVersionOverlayDismissedByEscape(t *testing.T) {
	m := newTestModel(t)
	m.NewVersion = &protocol.NewVersion{Version: "20.2.0"}

	m, _ = Update(tea.KeyMsg{Type: tea.KeyEsc}, m)

	assert.Nil(t, m.NewVersion)
}

func TestHelpOverlayClosesOnAnyKey(t *testing.T) {
	m := newTestModel(t)

	m, _ = Update(keyMsg('?'), m)
	assert.True(t, m.ShowHelp)

	m, _ = Update(keyMsg('x'), m)
	assert.False(t, m.ShowHelp)
}

func TestInstallKeysOnlyActOnInstallationTab(t *testing.T) {
	m := newTestModel(t)
	require.Equal(t, model.TabDevices, m.ActiveTab)

	m, _ = Update(keyMsg('i'), m)
	assert.Empty(t, m.StatusBarMessage, "install keys are inert outside the installation tab")

	m.ActiveTab = model.TabInstallation
	m, _ = Update(keyMsg('i'), m)
	assert.Equal(t, "release channels not discovered yet", m.StatusBarMessage)
}

func TestClearStatusBarMsg(t *testing.T) {
	m := newTestModel(t)
	m.StatusBarMessage = "stale"

	m, _ = Update(model.ClearStatusBarMsg{}, m)

	assert.Empty(t, m.StatusBarMessage)
}
