package provision

import (
	"time"

	"github.com/go-logr/logr"
)

// EventType classifies provisioning progress events.
type EventType string

const (
	EventPhaseStarted   EventType = "phase.started"
	EventPhaseCompleted EventType = "phase.completed"
	EventPhaseFailed    EventType = "phase.failed"

	EventResourceCreating EventType = "resource.creating"
	EventResourceCreated  EventType = "resource.created"
	EventResourceExists   EventType = "resource.exists"
	EventResourceDeleted  EventType = "resource.deleted"
)

// Event is one step of provisioning progress.
type Event struct {
	Type      EventType
	Phase     string
	Resource  string
	Message   string
	Timestamp time.Time
}

// Observer receives provisioning progress. The provisioner emits from a
// single goroutine.
type Observer interface {
	Event(e Event)
	Progress(phase string, current, total int)
}

// NopObserver discards all progress.
type NopObserver struct{}

func (NopObserver) Event(Event) {}

func (NopObserver) Progress(string, int, int) {}

// LogObserver writes progress to a logger.
type LogObserver struct {
	log logr.Logger
}

// NewLogObserver returns an observer logging every event at info level.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) Event(e Event) {
	kv := []interface{}{"phase", e.Phase}
	if e.Resource != "" {
		kv = append(kv, "resource", e.Resource)
	}
	o.log.Info(e.Message, kv...)
}

func (o *LogObserver) Progress(phase string, current, total int) {
	o.log.Info("progress", "phase", phase, "current", current, "total", total)
}
