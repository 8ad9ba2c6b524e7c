package installer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamctl/internal/protocol"
)

// scriptedSteps runs canned behaviors keyed by release version.
type scriptedSteps struct {
	mu    sync.Mutex
	calls []string
}

func (s *scriptedSteps) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *scriptedSteps) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *scriptedSteps) InstallServer(_ context.Context, release protocol.ReleaseInfo, _ string, progress ProgressFunc) error {
	s.record("server:" + release.Version)
	switch release.Version {
	case "panics":
		panic("disk on fire")
	case "fails":
		return errors.New("archive corrupt")
	case "overshoots":
		progress("unpacking", -0.3)
		progress("unpacking", 1.7)
		return nil
	default:
		progress("downloading", 0.25)
		progress("unpacking", 0.75)
		return nil
	}
}

func (s *scriptedSteps) InstallClient(_ context.Context, release protocol.ReleaseInfo, progress ProgressFunc) error {
	s.record("client:" + release.Version)
	if release.Version == "fails" {
		return errors.New("device unreachable")
	}
	progress("pushing apk", 0.5)
	return nil
}

type stubReleaseSource struct {
	stable  protocol.ReleaseInfo
	nightly protocol.ReleaseInfo
	err     error
}

func (s *stubReleaseSource) Channels(context.Context) (protocol.ReleaseInfo, protocol.ReleaseInfo, error) {
	return s.stable, s.nightly, s.err
}

func release(version string) protocol.ReleaseInfo {
	return protocol.ReleaseInfo{Version: version, Assets: map[string]string{"streamer.tar.gz": "https://example.invalid/" + version}}
}

// drainAfterQuit submits Quit, waits for the worker, then collects every
// buffered reply.
func drainAfterQuit(t *testing.T, a *Actor) []Message {
	t.Helper()
	a.Submit(Quit{})

	quit := make(chan struct{})
	go func() {
		a.Wait()
		close(quit)
	}()
	select {
	case <-quit:
	case <-time.After(5 * time.Second):
		t.Fatal("worker never quit")
	}

	var msgs []Message
	for {
		msg, ok := a.Poll()
		if !ok {
			return msgs
		}
		msgs = append(msgs, msg)
	}
}

func TestActorCommandsRunInSubmissionOrder(t *testing.T) {
	steps := &scriptedSteps{}
	a := NewActor(steps, nil)
	a.Start()

	a.Submit(InstallServer{Release: release("20.1.0")})
	a.Submit(InstallClient{Release: release("20.1.0")})
	msgs := drainAfterQuit(t, a)

	assert.Equal(t, []string{"server:20.1.0", "client:20.1.0"}, steps.recorded())
	require.Len(t, msgs, 5)
	assert.Equal(t, ProgressUpdate{Message: "downloading", Progress: 0.25}, msgs[0])
	assert.Equal(t, ProgressUpdate{Message: "unpacking", Progress: 0.75}, msgs[1])
	assert.Equal(t, Done{}, msgs[2])
	assert.Equal(t, ProgressUpdate{Message: "pushing apk", Progress: 0.5}, msgs[3])
	assert.Equal(t, Done{}, msgs[4])
}

func TestActorEmitsExactlyOneTerminalMessagePerCommand(t *testing.T) {
	steps := &scriptedSteps{}
	a := NewActor(steps, nil)
	a.Start()

	a.Submit(InstallServer{Release: release("20.1.0")})
	a.Submit(InstallServer{Release: release("fails")})
	a.Submit(InstallServer{Release: release("panics")})
	msgs := drainAfterQuit(t, a)

	var terminals []Message
	for _, msg := range msgs {
		switch msg.(type) {
		case Done, Error:
			terminals = append(terminals, msg)
		}
	}
	require.Len(t, terminals, 3, "one terminal message per command")
	assert.Equal(t, Done{}, terminals[0])
	assert.Equal(t, Error{Message: "archive corrupt"}, terminals[1])
	errMsg, ok := terminals[2].(Error)
	require.True(t, ok, "panic must terminate as an Error, not kill the worker")
	assert.Contains(t, errMsg.Message, "disk on fire")
}

func TestActorSurvivesPanicAndKeepsServingQueue(t *testing.T) {
	steps := &scriptedSteps{}
	a := NewActor(steps, nil)
	a.Start()

	a.Submit(InstallServer{Release: release("panics")})
	a.Submit(InstallClient{Release: release("20.2.0")})
	msgs := drainAfterQuit(t, a)

	assert.Equal(t, []string{"server:panics", "client:20.2.0"}, steps.recorded())
	require.NotEmpty(t, msgs)
	assert.Equal(t, Done{}, msgs[len(msgs)-1], "the command behind the panic still completes")
}

func TestActorClampsProgressIntoUnitRange(t *testing.T) {
	steps := &scriptedSteps{}
	a := NewActor(steps, nil)
	a.Start()

	a.Submit(InstallServer{Release: release("overshoots")})
	msgs := drainAfterQuit(t, a)

	for _, msg := range msgs {
		if update, ok := msg.(ProgressUpdate); ok {
			assert.GreaterOrEqual(t, update.Progress, 0.0)
			assert.LessOrEqual(t, update.Progress, 1.0)
			assert.NotEmpty(t, update.Message)
		}
	}
}

func TestActorQuitSkipsQueuedCommands(t *testing.T) {
	steps := &scriptedSteps{}
	a := NewActor(steps, nil)

	// Queue Quit ahead of an install before the worker starts draining, so
	// the install is guaranteed to sit behind it.
	a.Submit(Quit{})
	a.Submit(InstallServer{Release: release("20.1.0")})
	a.Start()

	done := make(chan struct{})
	go func() {
		a.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker never quit")
	}

	assert.Empty(t, steps.recorded(), "commands behind Quit must never start")
	_, ok := a.Poll()
	assert.False(t, ok)
}

func TestActorPollNeverBlocks(t *testing.T) {
	a := NewActor(&scriptedSteps{}, nil)

	finished := make(chan struct{})
	go func() {
		_, ok := a.Poll()
		assert.False(t, ok)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Poll blocked on an empty backlog")
	}
}

func TestActorPublishesReleaseChannelsBeforeAnyCommand(t *testing.T) {
	source := &stubReleaseSource{stable: release("20.2.0"), nightly: release("20.3.0-nightly")}
	a := NewActor(&scriptedSteps{}, source)
	a.Start()

	a.Submit(InstallServer{Release: release("20.2.0")})
	msgs := drainAfterQuit(t, a)

	require.NotEmpty(t, msgs)
	info, ok := msgs[0].(ReleaseChannelsInfo)
	require.True(t, ok, "channel info must precede command replies")
	assert.Equal(t, "20.2.0", info.Stable.Version)
	assert.Equal(t, "20.3.0-nightly", info.Nightly.Version)
}

func TestActorSwallowsReleaseDiscoveryFailure(t *testing.T) {
	source := &stubReleaseSource{err: errors.New("rate limited")}
	a := NewActor(&scriptedSteps{}, source)
	a.Start()

	msgs := drainAfterQuit(t, a)
	assert.Empty(t, msgs, "discovery failure emits no message at all")
}

// floodSteps emits far more progress updates than the reply buffer holds,
// so the worker is guaranteed to block publishing mid-command unless the
// shutdown path keeps draining.
type floodSteps struct {
	updates int
}

func (s floodSteps) InstallServer(_ context.Context, _ protocol.ReleaseInfo, _ string, progress ProgressFunc) error {
	for i := 0; i < s.updates; i++ {
		progress("unpacking", float64(i)/float64(s.updates))
	}
	return nil
}

func (s floodSteps) InstallClient(_ context.Context, _ protocol.ReleaseInfo, progress ProgressFunc) error {
	return nil
}

func TestActorStopUnblocksWorkerFloodingReplies(t *testing.T) {
	a := NewActor(floodSteps{updates: replyBuffer + 100}, nil)
	a.Start()
	a.Submit(InstallServer{Release: release("20.1.0")})

	stopped := make(chan struct{})
	go func() {
		a.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(10 * time.Second):
		t.Fatal("Stop hung behind a worker blocked on a full reply channel")
	}
}

func TestActorStopIdleWorker(t *testing.T) {
	a := NewActor(&scriptedSteps{}, nil)
	a.Start()

	stopped := make(chan struct{})
	go func() {
		a.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop hung on an idle worker")
	}

	_, ok := a.Poll()
	assert.False(t, ok, "Stop leaves no buffered replies behind")
}
