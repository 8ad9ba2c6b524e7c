package installer

import "streamctl/internal/protocol"

// Command is the closed union of operator commands the actor consumes.
// Commands are produced by the UI and consumed exactly once, in send order.
type Command interface {
	isCommand()
}

// InstallServer installs a server release. SessionVersion is the version
// currently reported by the session, empty when no server is installed.
type InstallServer struct {
	Release        protocol.ReleaseInfo
	SessionVersion string
}

// InstallClient installs a client release on the connected device.
type InstallClient struct {
	Release protocol.ReleaseInfo
}

// Quit terminates the actor loop immediately. Commands still queued behind
// it are never started.
type Quit struct{}

func (InstallServer) isCommand() {}
func (InstallClient) isCommand() {}
func (Quit) isCommand()          {}

// Message is the closed union of replies the actor emits. Every message
// belongs to exactly one command lifecycle except ReleaseChannelsInfo,
// which the actor pushes on its own during startup.
type Message interface {
	isMessage()
}

// ReleaseChannelsInfo carries the discovered stable and nightly releases.
type ReleaseChannelsInfo struct {
	Stable  protocol.ReleaseInfo
	Nightly protocol.ReleaseInfo
}

// ProgressUpdate reports install progress. Progress is always within
// [0, 1] and Message is never empty.
type ProgressUpdate struct {
	Message  string
	Progress float64
}

// Done terminates a command lifecycle successfully.
type Done struct{}

// Error terminates a command lifecycle with a human-readable description.
type Error struct {
	Message string
}

func (ReleaseChannelsInfo) isMessage() {}
func (ProgressUpdate) isMessage()      {}
func (Done) isMessage()                {}
func (Error) isMessage()               {}
