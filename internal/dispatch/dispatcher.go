// Package dispatch drains the inbound server event stream once per tick and
// routes each event, by kind, to every interested state holder in strict
// arrival order.
package dispatch

import (
	"streamctl/internal/protocol"
	"streamctl/pkg/logging"
)

const subsystem = "dispatch"

// Source is a non-blocking supply of server events. PollEvent returns
// false when nothing is pending.
type Source interface {
	PollEvent() (protocol.Event, bool)
}

// Restarter receives self-restart requests from the server.
type Restarter interface {
	RequestRestart()
}

// EventSink keeps the raw event history shown on the logs tab.
type EventSink interface {
	PushEvent(protocol.Event)
}

// NotificationSink surfaces log events on the notification bar.
type NotificationSink interface {
	PushNotification(protocol.LogEntry)
}

// StatisticsView is the rolling statistics display.
type StatisticsView interface {
	UpdateGraph(protocol.GraphStatistics)
	UpdateSummary(protocol.StatisticsSummary)
}

// InstallationView tracks registered driver paths where the platform
// supports them.
type InstallationView interface {
	UpdateDrivers([]string)
}

// ProgressView is the bounded adb download indicator.
type ProgressView interface {
	UpdateAdbProgress(protocol.AdbProgress)
}

// SessionObserver is any state holder that derives display state from the
// session. Observers are updated in registration order on every Session
// event.
type SessionObserver interface {
	UpdateSession(*protocol.SessionSnapshot, protocol.DerivedSettings)
}

// Config wires the dispatcher to its collaborators. Nil fields mean the
// matching event kinds become silent no-ops; that is deliberate, not an
// error.
type Config struct {
	Source    Source
	Restarter Restarter

	History      EventSink
	Notifier     NotificationSink
	Statistics   StatisticsView
	Installation InstallationView
	AdbProgress  ProgressView

	// OnSetupWizard fires at most once, on the first Session event whose
	// settings ask for the setup wizard.
	OnSetupWizard func()

	// OnNewVersion replaces any prior pending update notice.
	OnNewVersion func(protocol.NewVersion)

	SessionObservers []SessionObserver
}

// Dispatcher applies pending events to the registered observers.
type Dispatcher struct {
	cfg          Config
	sessionSeen  bool
	lastSnapshot *protocol.SessionSnapshot
}

// NewDispatcher creates a dispatcher from its wiring.
func NewDispatcher(cfg Config) *Dispatcher {
	return &Dispatcher{cfg: cfg}
}

// LastSession returns the most recently applied session snapshot, or nil
// before the first Session event.
func (d *Dispatcher) LastSession() *protocol.SessionSnapshot {
	return d.lastSnapshot
}

// DrainAndApply pulls every pending event from the source and applies it.
// It returns the number of events consumed. Called once per tick from the
// interactive loop; never blocks.
func (d *Dispatcher) DrainAndApply() int {
	if d.cfg.Source == nil {
		return 0
	}

	consumed := 0
	for {
		event, ok := d.cfg.Source.PollEvent()
		if !ok {
			return consumed
		}
		d.apply(event)
		consumed++
	}
}

func (d *Dispatcher) apply(event protocol.Event) {
	if d.cfg.History != nil {
		d.cfg.History.PushEvent(event)
	}

	switch event.Kind {
	case protocol.EventLog:
		if d.cfg.Notifier != nil {
			d.cfg.Notifier.PushNotification(*event.Log)
		}

	case protocol.EventGraphStatistics:
		if d.cfg.Statistics != nil {
			d.cfg.Statistics.UpdateGraph(*event.Graph)
		}

	case protocol.EventStatisticsSummary:
		if d.cfg.Statistics != nil {
			d.cfg.Statistics.UpdateSummary(*event.Statistics)
		}

	case protocol.EventSession:
		d.applySession(event.Session)

	case protocol.EventSelfRestart:
		if d.cfg.Restarter != nil {
			d.cfg.Restarter.RequestRestart()
		}

	case protocol.EventDriversList:
		if d.cfg.Installation != nil {
			d.cfg.Installation.UpdateDrivers(event.Drivers)
		}

	case protocol.EventAdbProgress:
		if d.cfg.AdbProgress != nil {
			d.cfg.AdbProgress.UpdateAdbProgress(*event.Adb)
		}

	case protocol.EventNewVersionFound:
		if d.cfg.OnNewVersion != nil {
			d.cfg.OnNewVersion(*event.NewVersion)
		}

	default:
		// Debug, Tracking, Buttons, Haptics and anything the server adds
		// later: consumed, counted, otherwise ignored.
		logging.Debug(subsystem, "ignoring %s event", event.Kind)
	}
}

func (d *Dispatcher) applySession(snapshot *protocol.SessionSnapshot) {
	derived := snapshot.Derive()

	for _, observer := range d.cfg.SessionObservers {
		observer.UpdateSession(snapshot, derived)
	}

	if !d.sessionSeen {
		d.sessionSeen = true
		if derived.OpenSetupWizard && d.cfg.OnSetupWizard != nil {
			d.cfg.OnSetupWizard()
		}
	}

	d.lastSnapshot = snapshot
}
