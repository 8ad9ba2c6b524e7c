// Package launcher controls the local runtime process: finding it,
// shutting it down, and relaunching it. It is a context object owned by
// the host and handed to whoever needs process control; there is no
// package-level singleton.
package launcher

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"streamctl/pkg/logging"
)

const subsystem = "launcher"

const defaultShutdownGrace = 5 * time.Second

// Launcher locates the runtime by executable name and relaunches it with
// the configured command line.
type Launcher struct {
	processName   string
	launchCommand []string
	shutdownGrace time.Duration
}

// New builds a launcher. launchCommand may be empty, in which case
// RestartRuntime only performs the shutdown half and leaves the relaunch
// to the server's own supervisor.
func New(processName string, launchCommand []string) *Launcher {
	return &Launcher{
		processName:   processName,
		launchCommand: launchCommand,
		shutdownGrace: defaultShutdownGrace,
	}
}

// RuntimeRunning reports whether a process with the configured name exists.
func (l *Launcher) RuntimeRunning() bool {
	procs, err := l.findRuntime()
	if err != nil {
		logging.Debug(subsystem, "process scan failed: %v", err)
		return false
	}
	return len(procs) > 0
}

// EnsureShutdown terminates every runtime process, escalating from
// SIGTERM to SIGKILL after the grace period.
func (l *Launcher) EnsureShutdown() error {
	procs, err := l.findRuntime()
	if err != nil {
		return fmt.Errorf("locating runtime processes: %w", err)
	}

	for _, p := range procs {
		if err := p.Terminate(); err != nil {
			logging.Debug(subsystem, "terminate pid %d: %v", p.Pid, err)
		}
	}

	deadline := time.Now().Add(l.shutdownGrace)
	for time.Now().Before(deadline) {
		if !l.RuntimeRunning() {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	procs, err = l.findRuntime()
	if err != nil {
		return fmt.Errorf("locating runtime processes: %w", err)
	}
	for _, p := range procs {
		if err := p.Kill(); err != nil {
			logging.Warn(subsystem, "kill pid %d: %v", p.Pid, err)
		}
	}
	return nil
}

// LaunchRuntime starts the runtime with the configured command and does
// not wait for it.
func (l *Launcher) LaunchRuntime() error {
	if len(l.launchCommand) == 0 {
		return nil
	}
	cmd := exec.Command(l.launchCommand[0], l.launchCommand[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching runtime: %w", err)
	}
	// Reap the child in the background so it never turns into a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

// RestartRuntime is the restart.Action used by the coordinator: stop, then
// start. Failures are logged only; the coordinator has no error channel.
func (l *Launcher) RestartRuntime() {
	if err := l.EnsureShutdown(); err != nil {
		logging.Error(subsystem, err, "runtime shutdown failed")
	}
	if err := l.LaunchRuntime(); err != nil {
		logging.Error(subsystem, err, "runtime launch failed")
	}
}

func (l *Launcher) findRuntime() ([]*process.Process, error) {
	all, err := process.Processes()
	if err != nil {
		return nil, err
	}
	var matches []*process.Process
	for _, p := range all {
		name, err := p.Name()
		if err != nil {
			continue
		}
		if name == l.processName {
			matches = append(matches, p)
		}
	}
	return matches, nil
}
