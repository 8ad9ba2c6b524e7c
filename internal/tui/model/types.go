package model

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
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

// Tab identifies the main dashboard tabs.
type Tab int

const (
	TabDevices Tab = iota
	TabStatistics
	TabSettings
	TabInstallation
	TabLogs
	TabAbout
)

// String provides a human-readable representation of the Tab.
func (t Tab) String() string {
	switch t {
	case TabDevices:
		return "Devices"
	case TabStatistics:
		return "Statistics"
	case TabSettings:
		return "Settings"
	case TabInstallation:
		return "Installation"
	case TabLogs:
		return "Logs"
	case TabAbout:
		return "About"
	default:
		return "Unknown"
	}
}

// AllTabs is the display order of the side panel.
var AllTabs = []Tab{TabDevices, TabStatistics, TabSettings, TabInstallation, TabLogs, TabAbout}

// MessageType represents the type of status bar message.
type MessageType int

const (
	StatusBarInfo MessageType = iota
	StatusBarSuccess
	StatusBarError
)

// Transport is the slice of the transport client the panel needs: a
// pollable event source, a request sink and a link indicator.
type Transport interface {
	dispatch.Source
	Send(protocol.OutboundRequest)
	Connected() bool
}

// RuntimeStopper is the slice of the launcher the shutdown path needs:
// making sure no runtime process outlives the panel.
type RuntimeStopper interface {
	EnsureShutdown() error
}

// KeyMap defines all the key bindings for the panel.
type KeyMap struct {
	NextTab        key.Binding
	PrevTab        key.Binding
	Restart        key.Binding
	InstallStable  key.Binding
	InstallNightly key.Binding
	InstallClient  key.Binding
	CopyLogs       key.Binding
	CloseOverlay   key.Binding
	FinishWizard   key.Binding
	Help           key.Binding
	Quit           key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:        key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous tab")),
		Restart:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart runtime")),
		InstallStable:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "install stable server")),
		InstallNightly: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "install nightly server")),
		InstallClient:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "install client")),
		CopyLogs:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy logs")),
		CloseOverlay:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close overlay")),
		FinishWizard:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "finish wizard")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the complete state of the panel. The interactive loop mutates
// it during the state-update phase; the view only reads it.
type Model struct {
	// Terminal dimensions
	Width  int
	Height int

	// Global application state
	ActiveTab Tab
	Quitting  bool
	ShowHelp  bool
	Version   string

	// Coordination core
	Transport   Transport
	Dispatcher  *dispatch.Dispatcher
	Coordinator *restart.Coordinator
	Worker      *installer.Actor
	Requests    *requests.Queue
	Runtime     RuntimeStopper

	// State holders fed by the dispatcher
	Logs          *LogsTab
	Notifications *NotificationBar
	Statistics    *StatisticsTab
	Devices       *DevicesTab
	Settings      *SettingsTab
	Installation  *InstallationTab

	// One-shot overlays
	SetupWizardOpen bool
	NewVersion      *protocol.NewVersion

	// UI state
	Keys            KeyMap
	Help            help.Model
	Spinner         spinner.Model
	LogViewport     viewport.Model
	InstallProgress progress.Model

	StatusBarMessage     string
	StatusBarMessageType MessageType

	// Logging
	LogChannel <-chan logging.Entry
}
