package protocol

import (
	"github.com/google/uuid"
)

// RequestKind identifies an operator-intent command sent to the server.
type RequestKind string

const (
	RequestRestartRuntime  RequestKind = "restart_runtime"
	RequestShutdownRuntime RequestKind = "shutdown_runtime"
	RequestSetValues       RequestKind = "set_values"
	RequestGetSession      RequestKind = "get_session"
)

// PathValue addresses a single session setting by its path segments.
type PathValue struct {
	Path  []string `json:"path"`
	Value any      `json:"value"`
}

// OutboundRequest is a fire-and-forget command for the streaming server.
// The ID exists only so transport logs can be correlated; the server never
// answers a request directly.
type OutboundRequest struct {
	ID     string      `json:"id"`
	Kind   RequestKind `json:"kind"`
	Values []PathValue `json:"values,omitempty"`
}

// NewRestartRuntime asks the server to restart the runtime process.
func NewRestartRuntime() OutboundRequest {
	return OutboundRequest{ID: uuid.NewString(), Kind: RequestRestartRuntime}
}

// NewShutdownRuntime asks the server to shut the runtime down.
func NewShutdownRuntime() OutboundRequest {
	return OutboundRequest{ID: uuid.NewString(), Kind: RequestShutdownRuntime}
}

// NewSetValues writes session settings back to the server.
func NewSetValues(values ...PathValue) OutboundRequest {
	return OutboundRequest{ID: uuid.NewString(), Kind: RequestSetValues, Values: values}
}

// NewGetSession asks the server to publish a fresh Session event.
func NewGetSession() OutboundRequest {
	return OutboundRequest{ID: uuid.NewString(), Kind: RequestGetSession}
}
