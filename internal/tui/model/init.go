package model

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"

	"streamctl/internal/dispatch"
	"streamctl/internal/installer"
	"streamctl/internal/protocol"
	"streamctl/internal/requests"
	"streamctl/internal/restart"
	"streamctl/pkg/logging"
)

const subsystem = "panel"

// Deps is everything the host constructs before the panel starts. Runtime
// may be nil when no local process control is available.
type Deps struct {
	Transport   Transport
	Coordinator *restart.Coordinator
	Worker      *installer.Actor
	Runtime     RuntimeStopper
	Version     string
	LogChannel  <-chan logging.Entry
}

// InitializeModel builds the panel state and wires the dispatcher to its
// observers. The first GetSession request is queued here so it goes out on
// the first tick flush.
func InitializeModel(deps Deps) *Model {
	m := &Model{
		Transport:   deps.Transport,
		Coordinator: deps.Coordinator,
		Worker:      deps.Worker,
		Runtime:     deps.Runtime,
		Requests:    requests.NewQueue(),
		Version:     deps.Version,
		LogChannel:  deps.LogChannel,

		Logs:          NewLogsTab(),
		Notifications: NewNotificationBar(),
		Statistics:    NewStatisticsTab(),
		Devices:       NewDevicesTab(),
		Settings:      NewSettingsTab(),
		Installation:  NewInstallationTab(),

		Keys:            DefaultKeyMap(),
		Help:            help.New(),
		Spinner:         spinner.New(spinner.WithSpinner(spinner.Dot)),
		LogViewport:     viewport.New(0, 0),
		InstallProgress: progress.New(progress.WithDefaultGradient()),
	}

	m.Dispatcher = dispatch.NewDispatcher(dispatch.Config{
		Source:       deps.Transport,
		Restarter:    m,
		History:      m.Logs,
		Notifier:     m.Notifications,
		Statistics:   m.Statistics,
		Installation: m.Installation,
		AdbProgress:  m.Devices,
		OnSetupWizard: func() {
			m.SetupWizardOpen = true
		},
		OnNewVersion: func(v protocol.NewVersion) {
			m.NewVersion = &v
		},
		// Same order the server-side panel applies: device list first,
		// then settings, then the log and notification filters.
		SessionObservers: []dispatch.SessionObserver{
			m.Devices,
			m.Settings,
			m.Logs,
			m.Notifications,
		},
	})

	m.Requests.Append(protocol.NewGetSession())
	return m
}

// ApplyTick runs the state-update phase of one tick: drain inbound events,
// fold in worker replies and panel logs, then flush outbound requests.
// Everything here is non-blocking.
func (m *Model) ApplyTick() {
	m.Dispatcher.DrainAndApply()

	for {
		msg, ok := m.Worker.Poll()
		if !ok {
			break
		}
		m.Installation.ApplyWorkerMessage(msg)
		if errMsg, isErr := msg.(installer.Error); isErr {
			m.StatusBarMessage = "install failed: " + errMsg.Message
			m.StatusBarMessageType = StatusBarError
		}
	}

	m.drainPanelLogs()
	m.Requests.Flush(m.Transport)
}

func (m *Model) drainPanelLogs() {
	if m.LogChannel == nil {
		return
	}
	for {
		select {
		case entry, ok := <-m.LogChannel:
			if !ok {
				m.LogChannel = nil
				return
			}
			m.Logs.PushLine("[" + entry.Level.String() + "] " + entry.Subsystem + ": " + entry.Message)
		default:
			return
		}
	}
}

// RequestRestart queues the server-side restart request and then claims
// the single-flight gate. This is the one interactive-thread call that may
// block, while a previous restart drains.
func (m *Model) RequestRestart() {
	m.Requests.Append(protocol.NewRestartRuntime())
	m.Coordinator.RequestRestart()
}

// CloseSetupWizard dismisses the wizard; when the operator finished it,
// the open flag is written back to the server so it never reopens.
func (m *Model) CloseSetupWizard(finished bool) {
	if finished {
		m.Requests.Append(protocol.NewSetValues(protocol.PathValue{
			Path:  []string{"extra", "open_setup_wizard"},
			Value: false,
		}))
	}
	m.SetupWizardOpen = false
}

// InstallServerFromChannel submits a server install for the chosen channel.
func (m *Model) InstallServerFromChannel(nightly bool) {
	if !m.Installation.ChannelsKnown {
		m.StatusBarMessage = "release channels not discovered yet"
		m.StatusBarMessageType = StatusBarInfo
		return
	}
	release := m.Installation.Stable
	if nightly {
		release = m.Installation.Nightly
	}
	m.Worker.Submit(installer.InstallServer{
		Release:        release.Clone(),
		SessionVersion: m.Settings.SessionVersion(),
	})
}

// InstallClientFromChannel submits a client install from the stable channel.
func (m *Model) InstallClientFromChannel() {
	if !m.Installation.ChannelsKnown {
		m.StatusBarMessage = "release channels not discovered yet"
		m.StatusBarMessageType = StatusBarInfo
		return
	}
	m.Worker.Submit(installer.InstallClient{Release: m.Installation.Stable.Clone()})
}

// BeginShutdown performs the graceful termination path: optionally ask the
// server to shut the runtime down and make sure the local process is gone,
// flush what is queued, then stop the worker and wait for it.
func (m *Model) BeginShutdown() {
	if m.Settings.Derived.CloseWithPanel {
		m.Requests.Append(protocol.NewShutdownRuntime())
	}
	m.Requests.Flush(m.Transport)

	if m.Settings.Derived.CloseWithPanel && m.Runtime != nil {
		if err := m.Runtime.EnsureShutdown(); err != nil {
			logging.Error(subsystem, err, "runtime shutdown on exit failed")
		}
	}

	m.Worker.Stop()
	m.Quitting = true
}
