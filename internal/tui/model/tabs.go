package model

import (
	"fmt"

	"streamctl/internal/installer"
	"streamctl/internal/protocol"
)

// severityRank orders log severities for filtering.
func severityRank(s protocol.LogSeverity) int {
	switch s {
	case protocol.LogError:
		return 3
	case protocol.LogWarning:
		return 2
	case protocol.LogInfo:
		return 1
	default:
		return 0
	}
}

// MaxLogLines bounds the raw event history.
const MaxLogLines = 1000

// LogsTab holds the raw event history shown on the logs tab, filtered by
// the session's log level.
type LogsTab struct {
	Entries []string
	Level   protocol.LogSeverity
	Dirty   bool
}

// NewLogsTab returns an empty history at info level.
func NewLogsTab() *LogsTab {
	return &LogsTab{Level: protocol.LogInfo}
}

// PushEvent implements dispatch.EventSink.
func (t *LogsTab) PushEvent(event protocol.Event) {
	if event.Kind == protocol.EventLog && severityRank(event.Log.Severity) < severityRank(t.Level) {
		return
	}
	t.Entries = append(t.Entries, event.String())
	if len(t.Entries) > MaxLogLines {
		t.Entries = t.Entries[len(t.Entries)-MaxLogLines:]
	}
	t.Dirty = true
}

// PushLine appends a panel-internal log line, bypassing the server filter.
func (t *LogsTab) PushLine(line string) {
	t.Entries = append(t.Entries, line)
	if len(t.Entries) > MaxLogLines {
		t.Entries = t.Entries[len(t.Entries)-MaxLogLines:]
	}
	t.Dirty = true
}

// UpdateSession implements dispatch.SessionObserver.
func (t *LogsTab) UpdateSession(_ *protocol.SessionSnapshot, derived protocol.DerivedSettings) {
	t.Level = derived.LogLevel
}

// Notification is one entry on the notification bar.
type Notification struct {
	Severity protocol.LogSeverity
	Message  string
}

// NotificationBar keeps the most recent notification at or above the
// session's notification level.
type NotificationBar struct {
	Current *Notification
	Level   protocol.LogSeverity
}

// NewNotificationBar returns a bar filtering below warning.
func NewNotificationBar() *NotificationBar {
	return &NotificationBar{Level: protocol.LogWarning}
}

// PushNotification implements dispatch.NotificationSink.
func (b *NotificationBar) PushNotification(entry protocol.LogEntry) {
	if severityRank(entry.Severity) < severityRank(b.Level) {
		return
	}
	b.Current = &Notification{Severity: entry.Severity, Message: entry.Message}
}

// UpdateSession implements dispatch.SessionObserver.
func (b *NotificationBar) UpdateSession(_ *protocol.SessionSnapshot, derived protocol.DerivedSettings) {
	b.Level = derived.NotificationLevel
}

// Dismiss clears the current notification.
func (b *NotificationBar) Dismiss() {
	b.Current = nil
}

// StatisticsTab is the rolling statistics view.
type StatisticsTab struct {
	Summary protocol.StatisticsSummary
	// Graph keeps the most recent latency samples, oldest first.
	Graph    []protocol.GraphStatistics
	MaxGraph int
}

// NewStatisticsTab returns a view holding up to 256 graph samples.
func NewStatisticsTab() *StatisticsTab {
	return &StatisticsTab{MaxGraph: 256}
}

// UpdateGraph implements dispatch.StatisticsView.
func (t *StatisticsTab) UpdateGraph(sample protocol.GraphStatistics) {
	t.Graph = append(t.Graph, sample)
	if len(t.Graph) > t.MaxGraph {
		t.Graph = t.Graph[len(t.Graph)-t.MaxGraph:]
	}
}

// UpdateSummary implements dispatch.StatisticsView.
func (t *StatisticsTab) UpdateSummary(summary protocol.StatisticsSummary) {
	t.Summary = summary
}

// DevicesTab lists the clients known to the server plus the adb download
// indicator.
type DevicesTab struct {
	Clients     []protocol.ClientEntry
	AdbProgress *protocol.AdbProgress
}

// NewDevicesTab returns an empty device list.
func NewDevicesTab() *DevicesTab {
	return &DevicesTab{}
}

// UpdateSession implements dispatch.SessionObserver.
func (t *DevicesTab) UpdateSession(snapshot *protocol.SessionSnapshot, _ protocol.DerivedSettings) {
	t.Clients = snapshot.Clients
}

// UpdateAdbProgress implements dispatch.ProgressView.
func (t *DevicesTab) UpdateAdbProgress(p protocol.AdbProgress) {
	t.AdbProgress = &p
}

// AdbFraction returns the bounded download fraction, or -1 when unknown.
func (t *DevicesTab) AdbFraction() float64 {
	if t.AdbProgress == nil || t.AdbProgress.TotalBytes == 0 {
		return -1
	}
	f := float64(t.AdbProgress.DownloadedBytes) / float64(t.AdbProgress.TotalBytes)
	if f > 1 {
		f = 1
	}
	return f
}

// SettingsTab owns the session-derived settings display.
type SettingsTab struct {
	Snapshot *protocol.SessionSnapshot
	Derived  protocol.DerivedSettings
}

// NewSettingsTab returns an empty settings editor.
func NewSettingsTab() *SettingsTab {
	return &SettingsTab{}
}

// UpdateSession implements dispatch.SessionObserver.
func (t *SettingsTab) UpdateSession(snapshot *protocol.SessionSnapshot, derived protocol.DerivedSettings) {
	t.Snapshot = snapshot
	t.Derived = derived
}

// SessionVersion returns the server version the session reports, empty
// before the first Session event.
func (t *SettingsTab) SessionVersion() string {
	if t.Snapshot == nil {
		return ""
	}
	return t.Snapshot.ServerVersion
}

// InstallationTab tracks drivers, release channels and install progress.
type InstallationTab struct {
	Drivers []string

	ChannelsKnown bool
	Stable        protocol.ReleaseInfo
	Nightly       protocol.ReleaseInfo

	Installing      bool
	ProgressMessage string
	Progress        float64
	LastError       string
}

// NewInstallationTab returns an empty installation view.
func NewInstallationTab() *InstallationTab {
	return &InstallationTab{}
}

// UpdateDrivers implements dispatch.InstallationView.
func (t *InstallationTab) UpdateDrivers(drivers []string) {
	t.Drivers = drivers
}

// ApplyWorkerMessage folds one installer reply into the display state.
func (t *InstallationTab) ApplyWorkerMessage(msg installer.Message) {
	switch m := msg.(type) {
	case installer.ReleaseChannelsInfo:
		t.ChannelsKnown = true
		t.Stable = m.Stable
		t.Nightly = m.Nightly
	case installer.ProgressUpdate:
		t.Installing = true
		t.ProgressMessage = m.Message
		t.Progress = m.Progress
	case installer.Done:
		t.Installing = false
		t.Progress = 1
		t.LastError = ""
	case installer.Error:
		t.Installing = false
		t.LastError = m.Message
	}
}

// StatusLine summarizes the install state for the status bar.
func (t *InstallationTab) StatusLine() string {
	switch {
	case t.LastError != "":
		return fmt.Sprintf("install failed: %s", t.LastError)
	case t.Installing:
		return fmt.Sprintf("%s (%.0f%%)", t.ProgressMessage, t.Progress*100)
	default:
		return ""
	}
}
