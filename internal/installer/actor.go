// Package installer runs the long-lived background worker that performs
// software installs off the interactive thread. The UI submits commands
// over a channel and polls replies non-blockingly once per tick; no other
// state is shared with the worker.
package installer

import (
	"context"
	"fmt"

	"streamctl/internal/protocol"
	"streamctl/pkg/logging"
)

const subsystem = "installer"

const (
	// commandBuffer bounds queued operator commands. Submitting is
	// effectively non-blocking: an operator cannot realistically queue
	// this many installs within one worker action.
	commandBuffer = 64
	replyBuffer   = 256
)

// ProgressFunc reports progress of a running install step. progress must
// stay within [0, 1].
type ProgressFunc func(message string, progress float64)

// Steps performs the actual blocking install work. Implementations run on
// the worker goroutine only.
type Steps interface {
	InstallServer(ctx context.Context, release protocol.ReleaseInfo, sessionVersion string, progress ProgressFunc) error
	InstallClient(ctx context.Context, release protocol.ReleaseInfo, progress ProgressFunc) error
}

// Actor owns the FIFO command queue and the reply channel. Construct with
// NewActor, then Start exactly once.
type Actor struct {
	steps    Steps
	releases ReleaseSource
	commands chan Command
	replies  chan Message
	done     chan struct{}
}

// NewActor wires the worker to its install steps and, optionally, a
// release source queried once at startup. releases may be nil.
func NewActor(steps Steps, releases ReleaseSource) *Actor {
	return &Actor{
		steps:    steps,
		releases: releases,
		commands: make(chan Command, commandBuffer),
		replies:  make(chan Message, replyBuffer),
		done:     make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (a *Actor) Start() {
	go a.run()
}

// Submit enqueues a command from the interactive thread. Order of
// submission is preserved end-to-end.
func (a *Actor) Submit(cmd Command) {
	a.commands <- cmd
}

// Poll returns the next available reply without blocking; ok is false when
// the backlog is empty.
func (a *Actor) Poll() (Message, bool) {
	select {
	case msg := <-a.replies:
		return msg, true
	default:
		return nil, false
	}
}

// Wait blocks until the worker has terminated. Only meaningful after a
// Quit command has been submitted.
func (a *Actor) Wait() {
	<-a.done
}

// Stop submits Quit and discards buffered replies until the worker has
// terminated. The discard matters: a worker mid-command blocks publishing
// progress once the reply buffer fills, and without a drain it would never
// get back to the command channel to observe the Quit.
func (a *Actor) Stop() {
	a.commands <- Quit{}
	for {
		select {
		case <-a.done:
			return
		case <-a.replies:
		}
	}
}

func (a *Actor) run() {
	defer close(a.done)

	if a.releases != nil {
		a.publishChannels()
	}

	for {
		cmd := <-a.commands
		if _, quit := cmd.(Quit); quit {
			logging.Debug(subsystem, "worker quitting")
			return
		}
		a.execute(cmd)
	}
}

// publishChannels pushes one ReleaseChannelsInfo message outside any
// command lifecycle. Discovery failures are logged, not surfaced: the
// installation tab simply shows no channels.
func (a *Actor) publishChannels() {
	stable, nightly, err := a.releases.Channels(context.Background())
	if err != nil {
		logging.Error(subsystem, err, "release channel discovery failed")
		return
	}
	a.replies <- ReleaseChannelsInfo{Stable: stable, Nightly: nightly}
}

// execute runs one command to its terminal message. Panics and errors are
// both converted to Error replies; the worker never dies mid-queue.
func (a *Actor) execute(cmd Command) {
	var err error

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("install step panicked: %v", r)
			}
		}()

		progress := func(message string, fraction float64) {
			a.replies <- ProgressUpdate{Message: message, Progress: clamp01(fraction)}
		}

		switch c := cmd.(type) {
		case InstallServer:
			err = a.steps.InstallServer(context.Background(), c.Release, c.SessionVersion, progress)
		case InstallClient:
			err = a.steps.InstallClient(context.Background(), c.Release, progress)
		default:
			err = fmt.Errorf("unsupported command %T", cmd)
		}
	}()

	if err != nil {
		logging.Error(subsystem, err, "install failed")
		a.replies <- Error{Message: err.Error()}
		return
	}
	a.replies <- Done{}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
