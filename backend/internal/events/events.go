package events

import (
	"context"
	"time"

	"socialgraph/backend/internal/model"
)

// Type identifies a mutation, e.g. "account.created"
type Type string

// Actions
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Follow edge events have no record kind of their own
const (
	FollowCreated Type = "follow.created"
	FollowDeleted Type = "follow.deleted"
)

// TypeFor builds the event type for a record mutation
func TypeFor(kind model.Kind, action string) Type {
	return Type(string(kind) + "." + action)
}

// Event describes one committed mutation. For follow events RecordID is the
// follower and TargetID the followed account.
type Event struct {
	ID        string     `json:"id"`
	Type      Type       `json:"type"`
	Kind      model.Kind `json:"kind"`
	RecordID  string     `json:"recordId"`
	TargetID  string     `json:"targetId,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// Emitter accepts events without blocking the caller
type Emitter interface {
	Emit(e Event)
}

// Sink delivers events to an external system
type Sink interface {
	Name() string
	Handle(ctx context.Context, e Event) error
}

// Nop discards every event
type Nop struct{}

func (Nop) Emit(Event) {}

// Recorder keeps emitted events in memory, for tests and local inspection
type Recorder struct {
	events chan Event
}

// NewRecorder creates a Recorder holding up to size events
func NewRecorder(size int) *Recorder {
	return &Recorder{events: make(chan Event, size)}
}

func (r *Recorder) Emit(e Event) {
	select {
	case r.events <- e:
	default:
	}
}

// Drain returns every recorded event and empties the recorder
func (r *Recorder) Drain() []Event {
	var out []Event
	for {
		select {
		case e := <-r.events:
			out = append(out, e)
		default:
			return out
		}
	}
}
