package restart

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinatorRunsAction(t *testing.T) {
	done := make(chan struct{})
	c := NewCoordinator(func() { close(done) })

	c.RequestRestart()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("restart action never ran")
	}
}

func TestCoordinatorMutualExclusion(t *testing.T) {
	const callers = 8

	var active int32
	var maxActive int32
	var runs int32

	action := func() {
		cur := atomic.AddInt32(&active, 1)
		for {
			prev := atomic.LoadInt32(&maxActive)
			if cur <= prev || atomic.CompareAndSwapInt32(&maxActive, prev, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		atomic.AddInt32(&runs, 1)
	}

	c := NewCoordinator(action)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RequestRestart()
		}()
	}
	wg.Wait()

	// Every caller triggers its own restart once woken; wait for the
	// whole chain to drain.
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) == callers && !c.Restarting()
	}, 5*time.Second, 10*time.Millisecond, "restart chain did not drain")

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxActive), "two restart actions overlapped")
}

func TestCoordinatorSecondCallerWaitsForFirst(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	var calls int32
	c := NewCoordinator(func() {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(firstStarted)
			<-releaseFirst
		}
	})

	c.RequestRestart()
	<-firstStarted

	secondReturned := make(chan struct{})
	go func() {
		c.RequestRestart()
		close(secondReturned)
	}()

	select {
	case <-secondReturned:
		t.Fatal("second caller returned while a restart was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(releaseFirst)

	select {
	case <-secondReturned:
	case <-time.After(time.Second):
		t.Fatal("second caller never woke up")
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, time.Second, 5*time.Millisecond, "second restart never ran")
}

func TestCoordinatorRestartingFlag(t *testing.T) {
	block := make(chan struct{})
	c := NewCoordinator(func() { <-block })

	assert.False(t, c.Restarting())

	c.RequestRestart()
	assert.True(t, c.Restarting())

	close(block)
	require.Eventually(t, func() bool { return !c.Restarting() }, time.Second, 5*time.Millisecond)
}
