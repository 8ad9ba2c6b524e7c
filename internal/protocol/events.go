package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventKind identifies the payload carried by an Event.
type EventKind string

const (
	EventLog               EventKind = "log"
	EventGraphStatistics   EventKind = "graph_statistics"
	EventStatisticsSummary EventKind = "statistics_summary"
	EventSession           EventKind = "session"
	EventSelfRestart       EventKind = "self_restart"
	EventDriversList       EventKind = "drivers_list"
	EventAdbProgress       EventKind = "adb_progress"
	EventNewVersionFound   EventKind = "new_version_found"

	// Kinds the panel receives but does not act on. They are still
	// consumed and counted so the stream never backs up.
	EventDebug    EventKind = "debug"
	EventTracking EventKind = "tracking"
	EventButtons  EventKind = "buttons"
	EventHaptics  EventKind = "haptics"
)

// LogSeverity mirrors the server-side log levels.
type LogSeverity string

const (
	LogError   LogSeverity = "error"
	LogWarning LogSeverity = "warning"
	LogInfo    LogSeverity = "info"
	LogDebug   LogSeverity = "debug"
)

// LogEntry is a log line published by the streaming server.
type LogEntry struct {
	Severity LogSeverity `json:"severity"`
	Message  string      `json:"message"`
}

// GraphStatistics is one per-frame latency sample for the latency graph.
type GraphStatistics struct {
	TotalPipelineLatencyS float64 `json:"total_pipeline_latency_s"`
	GameTimeS             float64 `json:"game_time_s"`
	ServerCompositorS     float64 `json:"server_compositor_s"`
	EncodeS               float64 `json:"encode_s"`
	NetworkS              float64 `json:"network_s"`
	DecodeS               float64 `json:"decode_s"`
	ClientCompositorS     float64 `json:"client_compositor_s"`
}

// StatisticsSummary is the rolling aggregate shown on the statistics tab.
type StatisticsSummary struct {
	VideoPacketsTotal  int     `json:"video_packets_total"`
	VideoPacketsPerSec int     `json:"video_packets_per_sec"`
	VideoMbitsPerSec   float64 `json:"video_mbits_per_sec"`
	TotalLatencyMs     float64 `json:"total_latency_ms"`
	NetworkLatencyMs   float64 `json:"network_latency_ms"`
	EncodeLatencyMs    float64 `json:"encode_latency_ms"`
	DecodeLatencyMs    float64 `json:"decode_latency_ms"`
	PacketsLostTotal   int     `json:"packets_lost_total"`
	PacketsLostPerSec  int     `json:"packets_lost_per_sec"`
	ClientFPS          float64 `json:"client_fps"`
	ServerFPS          float64 `json:"server_fps"`
	BatteryHmd         int     `json:"battery_hmd"`
	HmdPlugged         bool    `json:"hmd_plugged"`
}

// AdbProgress reports how much of the adb bundle has been downloaded.
// TotalBytes is zero when the size is not yet known.
type AdbProgress struct {
	DownloadedBytes uint64 `json:"downloaded_bytes"`
	TotalBytes      uint64 `json:"total_bytes"`
}

// NewVersion announces that the server found a newer release.
type NewVersion struct {
	Version string `json:"version"`
	Message string `json:"message"`
}

// Event is a closed tagged union of everything the streaming server can
// publish to the panel. Exactly the payload field matching Kind is non-nil;
// the no-op kinds carry no payload at all.
type Event struct {
	Timestamp time.Time
	Kind      EventKind

	Log        *LogEntry
	Graph      *GraphStatistics
	Statistics *StatisticsSummary
	Session    *SessionSnapshot
	Drivers    []string
	Adb        *AdbProgress
	NewVersion *NewVersion
}

// wireEvent is the on-the-wire envelope: a kind tag plus a raw payload.
type wireEvent struct {
	Timestamp time.Time       `json:"timestamp"`
	Kind      EventKind       `json:"kind"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// UnmarshalJSON decodes the kind-tagged wire envelope into the union.
func (e *Event) UnmarshalJSON(data []byte) error {
	var wire wireEvent
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decoding event envelope: %w", err)
	}

	*e = Event{Timestamp: wire.Timestamp, Kind: wire.Kind}

	var err error
	switch wire.Kind {
	case EventLog:
		e.Log = &LogEntry{}
		err = json.Unmarshal(wire.Data, e.Log)
	case EventGraphStatistics:
		e.Graph = &GraphStatistics{}
		err = json.Unmarshal(wire.Data, e.Graph)
	case EventStatisticsSummary:
		e.Statistics = &StatisticsSummary{}
		err = json.Unmarshal(wire.Data, e.Statistics)
	case EventSession:
		e.Session = &SessionSnapshot{}
		err = json.Unmarshal(wire.Data, e.Session)
	case EventDriversList:
		err = json.Unmarshal(wire.Data, &e.Drivers)
	case EventAdbProgress:
		e.Adb = &AdbProgress{}
		err = json.Unmarshal(wire.Data, e.Adb)
	case EventNewVersionFound:
		e.NewVersion = &NewVersion{}
		err = json.Unmarshal(wire.Data, e.NewVersion)
	case EventSelfRestart, EventDebug, EventTracking, EventButtons, EventHaptics:
		// No payload.
	default:
		// Unknown kinds are kept with their tag so the dispatcher can
		// count them as consumed no-ops.
	}
	if err != nil {
		return fmt.Errorf("decoding %s event payload: %w", wire.Kind, err)
	}
	return nil
}

// MarshalJSON encodes the union back into the wire envelope.
func (e Event) MarshalJSON() ([]byte, error) {
	wire := wireEvent{Timestamp: e.Timestamp, Kind: e.Kind}

	var payload any
	switch e.Kind {
	case EventLog:
		payload = e.Log
	case EventGraphStatistics:
		payload = e.Graph
	case EventStatisticsSummary:
		payload = e.Statistics
	case EventSession:
		payload = e.Session
	case EventDriversList:
		payload = e.Drivers
	case EventAdbProgress:
		payload = e.Adb
	case EventNewVersionFound:
		payload = e.NewVersion
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding %s event payload: %w", e.Kind, err)
		}
		wire.Data = data
	}
	return json.Marshal(wire)
}

// String returns a short human-readable form used by the log history.
func (e Event) String() string {
	switch e.Kind {
	case EventLog:
		return fmt.Sprintf("[%s] %s", e.Log.Severity, e.Log.Message)
	case EventNewVersionFound:
		return fmt.Sprintf("new version available: %s", e.NewVersion.Version)
	default:
		return string(e.Kind)
	}
}
