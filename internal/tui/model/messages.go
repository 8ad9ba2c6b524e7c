package model

import "time"

// TickMsg drives one pass of the interactive loop: drain events, apply
// worker replies, flush outbound requests.
type TickMsg time.Time

// ClearStatusBarMsg clears a transient status bar message.
type ClearStatusBarMsg struct{}
