// Package requests holds the per-tick buffer of commands destined for the
// streaming server. Components append while the tick runs; the host flushes
// once the tick is done. Order of submission is the only guarantee: no
// deduplication, no batching, no priorities.
package requests

import "streamctl/internal/protocol"

// Sink receives flushed requests, in append order. The transport client
// implements it; tests substitute their own.
type Sink interface {
	Send(protocol.OutboundRequest)
}

// Queue accumulates outbound requests for one tick. It is owned by the
// interactive loop and must not be shared across goroutines.
type Queue struct {
	pending []protocol.OutboundRequest
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Append records a request for the end-of-tick flush.
func (q *Queue) Append(req protocol.OutboundRequest) {
	q.pending = append(q.pending, req)
}

// Len reports how many requests are waiting.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Flush hands every pending request to the sink in append order and leaves
// the queue empty for the next tick.
func (q *Queue) Flush(sink Sink) {
	for _, req := range q.pending {
		sink.Send(req)
	}
	q.pending = q.pending[:0]
}
