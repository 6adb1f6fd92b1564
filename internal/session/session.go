// Package session owns the stored alert collection and the Live/Search mode
// state machine that decides which in-flight request may write into it.
//
// A Session is not safe for concurrent use. It is driven from a single
// goroutine (the Bubble Tea update loop): requests are issued off-loop and
// their results come back as messages carrying the Ticket they were issued
// under.
package session

import (
	"strings"

	"github.com/abelbrown/resqwatch/internal/alert"
	"github.com/abelbrown/resqwatch/internal/reconcile"
	"github.com/abelbrown/resqwatch/internal/view"
)

// Mode is the active operating mode.
type Mode int

const (
	ModeLive Mode = iota
	ModeSearching
)

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeSearching:
		return "searching"
	default:
		return "unknown"
	}
}

// Status is the label surfaced to the user.
type Status string

const (
	StatusScanning  Status = "SCANNING"
	StatusOnline    Status = "ONLINE"
	StatusError     Status = "ERROR"
	StatusSearching Status = "SEARCHING..."
	StatusFound     Status = "FOUND"
	StatusNoResults Status = "NO RESULTS"
)

// RequestKind distinguishes the two request streams.
type RequestKind int

const (
	RequestPoll RequestKind = iota
	RequestSearch
)

func (k RequestKind) String() string {
	if k == RequestSearch {
		return "search"
	}
	return "poll"
}

// Ticket authorizes one request. Its result is applied only while the
// session is still in the epoch the ticket was issued in.
type Ticket struct {
	Kind  RequestKind
	Epoch uint64
	Query string // empty for polls
}

// Outcome reports what happened to a completed request.
type Outcome int

const (
	Applied Outcome = iota
	Failed
	Discarded
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Failed:
		return "failed"
	default:
		return "discarded"
	}
}

// Session is the single writer of the stored collection.
type Session struct {
	mode     Mode
	status   Status
	epoch    uint64 // bumped on every mode transition
	query    string
	category alert.Category
	capacity int
	alerts   []alert.Alert
	lastErr  error
}

// New returns a session in Live mode with status SCANNING.
// A capacity <= 0 selects reconcile.MaxAlerts.
func New(capacity int) *Session {
	if capacity <= 0 {
		capacity = reconcile.MaxAlerts
	}
	return &Session{
		mode:     ModeLive,
		status:   StatusScanning,
		category: alert.All,
		capacity: capacity,
	}
}

// BeginPoll is the issue-time check for a scheduled poll. It returns false
// while a search is active; the tick is then a no-op.
func (s *Session) BeginPoll() (Ticket, bool) {
	if s.mode != ModeLive {
		return Ticket{}, false
	}
	return Ticket{Kind: RequestPoll, Epoch: s.epoch}, true
}

// CompletePoll is the completion-time check for a poll. A result whose
// ticket predates the current epoch is discarded without touching state.
func (s *Session) CompletePoll(t Ticket, batch []alert.Alert, err error) Outcome {
	if t.Kind != RequestPoll || t.Epoch != s.epoch || s.mode != ModeLive {
		return Discarded
	}
	if err != nil {
		s.status = StatusError
		s.lastErr = err
		return Failed
	}
	s.alerts = reconcile.Merge(s.alerts, batch, s.capacity)
	s.status = StatusOnline
	s.lastErr = nil
	return Applied
}

// Submit handles a search box submission. A non-empty query (after
// trimming) enters Searching and returns the search ticket to issue. An
// empty query returns to Live and returns a poll ticket the caller must
// issue right away.
func (s *Session) Submit(query string) Ticket {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.goLive()
	}

	s.epoch++
	s.mode = ModeSearching
	s.query = query
	s.alerts = nil
	s.status = StatusSearching
	s.lastErr = nil
	return Ticket{Kind: RequestSearch, Epoch: s.epoch, Query: query}
}

// CompleteSearch applies a search result if it still belongs to the active
// search. Results replace the collection wholesale.
func (s *Session) CompleteSearch(t Ticket, results []alert.Alert, err error) Outcome {
	if t.Kind != RequestSearch || t.Epoch != s.epoch || s.mode != ModeSearching {
		return Discarded
	}
	if err != nil {
		s.status = StatusError
		s.lastErr = err
		return Failed
	}
	s.alerts = reconcile.Replace(results)
	if len(s.alerts) == 0 {
		s.status = StatusNoResults
	} else {
		s.status = StatusFound
	}
	s.lastErr = nil
	return Applied
}

// Reset clears the category filter and query and returns to Live mode.
// The returned poll ticket must be issued right away.
func (s *Session) Reset() Ticket {
	s.category = alert.All
	return s.goLive()
}

func (s *Session) goLive() Ticket {
	s.epoch++
	s.mode = ModeLive
	s.query = ""
	s.alerts = nil
	s.status = StatusScanning
	s.lastErr = nil
	return Ticket{Kind: RequestPoll, Epoch: s.epoch}
}

// SetCategory changes the read-side filter. It never touches the collection.
func (s *Session) SetCategory(c alert.Category) {
	if c == "" {
		c = alert.All
	}
	s.category = c
}

// Visible returns the filtered view of the stored collection.
func (s *Session) Visible() []alert.Alert {
	return view.Filter(s.alerts, s.category)
}

// Critical returns the highlighted subset of the visible view.
func (s *Session) Critical() []alert.Alert {
	return view.Critical(s.Visible())
}

// Alerts returns a copy of the stored collection.
func (s *Session) Alerts() []alert.Alert {
	out := make([]alert.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

func (s *Session) Mode() Mode               { return s.mode }
func (s *Session) Status() Status           { return s.status }
func (s *Session) Query() string            { return s.query }
func (s *Session) Category() alert.Category { return s.category }
func (s *Session) Epoch() uint64            { return s.epoch }
func (s *Session) Len() int                 { return len(s.alerts) }
func (s *Session) Capacity() int            { return s.capacity }

// LastError returns the error behind the current ERROR status, if any.
func (s *Session) LastError() error { return s.lastErr }
