// Package transport maintains the websocket link to the streaming server.
// Inbound events are buffered for non-blocking polls by the dispatcher;
// outbound requests are fire-and-forget writes.
package transport

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"streamctl/internal/protocol"
	"streamctl/pkg/logging"
)

const subsystem = "transport"

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second

	// eventBuffer absorbs bursts between ticks. The reader blocks when it
	// fills, so nothing is dropped and arrival order is preserved.
	eventBuffer = 1024
)

// Client connects to the server's event endpoint and keeps reconnecting
// until closed.
type Client struct {
	url string

	mu      sync.Mutex
	writeMu sync.Mutex
	conn    *websocket.Conn

	connected atomic.Bool
	events    chan protocol.Event
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewClient creates a client for the given websocket URL.
func NewClient(url string) *Client {
	return &Client{
		url:    url,
		events: make(chan protocol.Event, eventBuffer),
		done:   make(chan struct{}),
	}
}

// Start launches the connect/read loop. Call once.
func (c *Client) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	go c.run(ctx)
}

// Close tears the connection down and stops reconnecting.
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.mu.Unlock()
	<-c.done
}

// Connected reports whether the server link is currently up.
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// PollEvent returns the next buffered event without blocking. It
// implements dispatch.Source.
func (c *Client) PollEvent() (protocol.Event, bool) {
	select {
	case event := <-c.events:
		return event, true
	default:
		return protocol.Event{}, false
	}
}

// Send writes one request to the server. Requests are fire-and-forget:
// when the link is down the request is logged and discarded.
func (c *Client) Send(req protocol.OutboundRequest) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		logging.Warn(subsystem, "dropping %s request: not connected", req.Kind)
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(req); err != nil {
		logging.Error(subsystem, err, "sending %s request", req.Kind)
	}
}

func (c *Client) run(ctx context.Context) {
	defer close(c.done)

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 0 // retry forever

	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			delay := policy.NextBackOff()
			logging.Debug(subsystem, "dial failed: %v (retry in %v)", err, delay)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			continue
		}
		policy.Reset()

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		c.connected.Store(true)
		logging.Info(subsystem, "connected to %s", c.url)

		pingCtx, stopPing := context.WithCancel(ctx)
		go c.pingLoop(pingCtx, conn)

		c.readLoop(ctx, conn)

		stopPing()
		c.connected.Store(false)
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
		conn.Close()
	}
}

// readLoop decodes events until the connection breaks, forwarding each one
// in arrival order. The send blocks when the buffer is full rather than
// drop events.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})
	conn.SetReadDeadline(time.Now().Add(pongTimeout))

	for {
		var event protocol.Event
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() == nil {
				logging.Warn(subsystem, "connection lost: %v", err)
			}
			return
		}

		select {
		case c.events <- event:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
