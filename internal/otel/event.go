// Package otel records structured session events.
//
// Events are typed structs serialized as JSONL. The Logger writes them
// asynchronously through a buffered channel; an optional RingBuffer keeps
// the most recent ones in memory for the TUI debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind is dot-delimited: "<stream>.<action>".
type EventKind string

const (
	// Live polling
	KindPollSkip    EventKind = "poll.skip" // tick arrived while searching
	KindPollStart   EventKind = "poll.start"
	KindPollApply   EventKind = "poll.apply"
	KindPollError   EventKind = "poll.error"
	KindPollDiscard EventKind = "poll.discard"

	// Search
	KindSearchStart   EventKind = "search.start"
	KindSearchApply   EventKind = "search.apply"
	KindSearchError   EventKind = "search.error"
	KindSearchDiscard EventKind = "search.discard"

	// Per-request completion detail, emitted only with RESQ_TRACE set
	KindRequestTrace EventKind = "req.trace"

	// State machine
	KindModeChange EventKind = "mode.change"
	KindFilter     EventKind = "view.filter"

	// System
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"
)

// Event is one observability record. Everything but Kind and Time is
// optional.
type Event struct {
	Time      time.Time     `json:"t"`
	Level     Level         `json:"level,omitempty"`
	Kind      EventKind     `json:"kind"`
	Comp      string        `json:"comp,omitempty"` // "ui", "coord", "main"
	SessionID string        `json:"session_id,omitempty"`
	Epoch     uint64        `json:"epoch,omitempty"`
	Mode      string        `json:"mode,omitempty"`
	Status    string        `json:"status,omitempty"`
	Query     string        `json:"query,omitempty"`
	Count     int           `json:"count,omitempty"`
	Dur       time.Duration `json:"-"`
	DurMs     float64       `json:"dur_ms,omitempty"`
	Err       string        `json:"err,omitempty"`
	Msg       string        `json:"msg,omitempty"`
}

// MarshalJSON converts Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	p := plain(e)
	if e.Dur > 0 {
		p.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(p)
}
