package protocol

// SessionSnapshot is the full server-side configuration state embedded in a
// Session event. Whoever receives it from the dispatcher owns it outright;
// it is never mutated after decoding.
type SessionSnapshot struct {
	ServerVersion string            `json:"server_version"`
	Clients       []ClientEntry     `json:"clients"`
	Settings      map[string]any    `json:"settings"`
	Extra         ExtraSettings     `json:"extra"`
	DriverPaths   map[string]string `json:"driver_paths,omitempty"`
}

// ClientEntry describes one device known to the streaming server.
type ClientEntry struct {
	Hostname    string   `json:"hostname"`
	DisplayName string   `json:"display_name"`
	Trusted     bool     `json:"trusted"`
	IPs         []string `json:"ips,omitempty"`
	Connected   bool     `json:"connected"`
}

// ExtraSettings are the panel-facing toggles derived from the session.
type ExtraSettings struct {
	OpenSetupWizard       bool   `json:"open_setup_wizard"`
	CloseRuntimeWithPanel bool   `json:"close_runtime_with_panel"`
	LogLevel              string `json:"log_level"`
	NotificationLevel     string `json:"notification_level"`
}

// DerivedSettings is what observers actually consume: the snapshot reduced
// to the display-relevant values. Recomputed on every Session event.
type DerivedSettings struct {
	ServerVersion     string
	OpenSetupWizard   bool
	CloseWithPanel    bool
	LogLevel          LogSeverity
	NotificationLevel LogSeverity
}

// Derive reduces the snapshot to its display-relevant settings.
func (s *SessionSnapshot) Derive() DerivedSettings {
	return DerivedSettings{
		ServerVersion:     s.ServerVersion,
		OpenSetupWizard:   s.Extra.OpenSetupWizard,
		CloseWithPanel:    s.Extra.CloseRuntimeWithPanel,
		LogLevel:          severityOrDefault(s.Extra.LogLevel, LogInfo),
		NotificationLevel: severityOrDefault(s.Extra.NotificationLevel, LogWarning),
	}
}

func severityOrDefault(raw string, fallback LogSeverity) LogSeverity {
	switch LogSeverity(raw) {
	case LogError, LogWarning, LogInfo, LogDebug:
		return LogSeverity(raw)
	default:
		return fallback
	}
}
