// Package tui provides a Bubble Tea terminal UI for cluster
// provisioning progress.
package tui

import "github.com/imamik/slipway/internal/provision"

// EventMsg carries a provisioning event into the UI.
type EventMsg struct {
	Event provision.Event
}

// ProgressMsg reports per-phase progress, such as nodes created.
type ProgressMsg struct {
	Phase   string
	Current int
	Total   int
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that provisioning is complete.
type DoneMsg struct{}
