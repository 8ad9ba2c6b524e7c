// Package restart serializes "restart the runtime" requests. Overlapping
// requests are deduplicated by a blocking wait on a condition variable, not
// queued: every caller eventually performs its own restart, one at a time.
package restart

import (
	"sync"

	"streamctl/pkg/logging"
)

const subsystem = "restart"

// Action performs the actual stop/start sequence. It runs on its own
// goroutine and has no error channel: a failed restart looks the same as a
// successful one to the coordinator.
type Action func()

// Coordinator guarantees at most one restart action in flight. The zero
// value is not usable; construct with NewCoordinator.
type Coordinator struct {
	mu         sync.Mutex
	cond       *sync.Cond
	restarting bool
	action     Action
}

// NewCoordinator wires the coordinator to the restart action, typically
// Launcher.RestartRuntime.
func NewCoordinator(action Action) *Coordinator {
	c := &Coordinator{action: action}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Restarting reports whether a restart action is currently in flight.
func (c *Coordinator) Restarting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restarting
}

// RequestRestart blocks while a previous restart is in flight, then claims
// the flag and launches the action on a fresh goroutine. The mutex is never
// held across the action itself, only around the flag and the wait/notify.
func (c *Coordinator) RequestRestart() {
	c.mu.Lock()
	for c.restarting {
		c.cond.Wait()
	}
	c.restarting = true
	c.mu.Unlock()

	go func() {
		logging.Info(subsystem, "restarting runtime")
		c.action()

		c.mu.Lock()
		c.restarting = false
		c.mu.Unlock()
		c.cond.Signal()
	}()
}
