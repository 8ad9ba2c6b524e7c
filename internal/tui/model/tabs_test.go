package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamctl/internal/installer"
	"streamctl/internal/protocol"
)

func TestLogsTabFiltersBelowSessionLevel(t *testing.T) {
	tab := NewLogsTab()
	tab.UpdateSession(nil, protocol.DerivedSettings{LogLevel: protocol.LogWarning})

	tab.PushEvent(protocol.Event{Kind: protocol.EventLog, Log: &protocol.LogEntry{Severity: protocol.LogInfo, Message: "dropped"}})
	tab.PushEvent(protocol.Event{Kind: protocol.EventLog, Log: &protocol.LogEntry{Severity: protocol.LogError, Message: "kept"}})
	tab.PushEvent(protocol.Event{Kind: protocol.EventSelfRestart})

	require.Len(t, tab.Entries, 2)
	assert.Equal(t, "[error] kept", tab.Entries[0])
	assert.Equal(t, "self_restart", tab.Entries[1], "non-log events bypass the severity filter")
}

func TestLogsTabBoundsHistory(t *testing.T) {
	tab := NewLogsTab()
	for i := 0; i < MaxLogLines+10; i++ {
		tab.PushLine("line")
	}
	assert.Len(t, tab.Entries, MaxLogLines)
}

func TestNotificationBarKeepsLatestAtOrAboveLevel(t *testing.T) {
	bar := NewNotificationBar()

	bar.PushNotification(protocol.LogEntry{Severity: protocol.LogInfo, Message: "too quiet"})
	assert.Nil(t, bar.Current, "default level is warning")

	bar.PushNotification(protocol.LogEntry{Severity: protocol.LogWarning, Message: "first"})
	bar.PushNotification(protocol.LogEntry{Severity: protocol.LogError, Message: "second"})
	require.NotNil(t, bar.Current)
	assert.Equal(t, "second", bar.Current.Message)

	bar.Dismiss()
	assert.Nil(t, bar.Current)
}

func TestStatisticsTabBoundsGraphSamples(t *testing.T) {
	tab := NewStatisticsTab()
	for i := 0; i < tab.MaxGraph+5; i++ {
		tab.UpdateGraph(protocol.GraphStatistics{TotalPipelineLatencyS: float64(i)})
	}

	assert.Len(t, tab.Graph, tab.MaxGraph)
	// Oldest samples fall off the front.
	assert.Equal(t, float64(5), tab.Graph[0].TotalPipelineLatencyS)
}

func TestDevicesTabAdbFraction(t *testing.T) {
	tab := NewDevicesTab()
	assert.Equal(t, float64(-1), tab.AdbFraction(), "unknown before any progress event")

	tab.UpdateAdbProgress(protocol.AdbProgress{DownloadedBytes: 50, TotalBytes: 0})
	assert.Equal(t, float64(-1), tab.AdbFraction(), "unknown while total size is unknown")

	tab.UpdateAdbProgress(protocol.AdbProgress{DownloadedBytes: 50, TotalBytes: 200})
	assert.Equal(t, 0.25, tab.AdbFraction())

	tab.UpdateAdbProgress(protocol.AdbProgress{DownloadedBytes: 300, TotalBytes: 200})
	assert.Equal(t, 1.0, tab.AdbFraction(), "fraction is bounded at 1")
}

func TestInstallationTabFoldsWorkerLifecycle(t *testing.T) {
	tab := NewInstallationTab()

	tab.ApplyWorkerMessage(installer.ReleaseChannelsInfo{
		Stable:  protocol.ReleaseInfo{Version: "20.2.0"},
		Nightly: protocol.ReleaseInfo{Version: "20.3.0-nightly"},
	})
	assert.True(t, tab.ChannelsKnown)

	tab.ApplyWorkerMessage(installer.ProgressUpdate{Message: "downloading", Progress: 0.4})
	assert.True(t, tab.Installing)
	assert.Equal(t, "downloading (40%)", tab.StatusLine())

	tab.ApplyWorkerMessage(installer.Done{})
	assert.False(t, tab.Installing)
	assert.Empty(t, tab.StatusLine())

	tab.ApplyWorkerMessage(installer.ProgressUpdate{Message: "downloading", Progress: 0.1})
	tab.ApplyWorkerMessage(installer.Error{Message: "archive corrupt"})
	assert.False(t, tab.Installing)
	assert.Equal(t, "install failed: archive corrupt", tab.StatusLine())

	// A later success clears the sticky error.
	tab.ApplyWorkerMessage(installer.Done{})
	assert.Empty(t, tab.LastError)
}
