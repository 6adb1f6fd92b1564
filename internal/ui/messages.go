// Package ui provides the Bubble Tea TUI for resqwatch.
package ui

import (
	"time"

	"github.com/abelbrown/resqwatch/internal/alert"
	"github.com/abelbrown/resqwatch/internal/session"
)

// PollDue is sent by the scheduler when a live refresh is due.
type PollDue struct {
	At time.Time
}

// LiveFetched carries the result of a live-feed request.
type LiveFetched struct {
	Ticket session.Ticket
	Alerts []alert.Alert
	Err    error
	Dur    time.Duration
}

// SearchFetched carries the result of a search request.
type SearchFetched struct {
	Ticket session.Ticket
	Alerts []alert.Alert
	Err    error
	Dur    time.Duration
}

// Journaled is sent after applied alerts were written to the session journal.
type Journaled struct {
	Added int // alerts not seen before
	Total int // distinct alerts seen this session
	Err   error
}
