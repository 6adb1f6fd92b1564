package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/resqwatch/internal/alert"
	"github.com/abelbrown/resqwatch/internal/session"
)

// Fetcher is the slice of the feed client the UI needs.
type Fetcher interface {
	FetchLive(ctx context.Context) ([]alert.Alert, error)
	Search(ctx context.Context, query string) ([]alert.Alert, error)
}

// Recorder stores every applied alert for the session summary.
type Recorder interface {
	Record(alerts []alert.Alert) (int, error)
	Count() (int, error)
}

// LiveCmd returns a command factory that runs one live fetch per ticket.
// The ticket rides along so the update loop can discard stale results.
func LiveCmd(ctx context.Context, f Fetcher) func(session.Ticket) tea.Cmd {
	return func(t session.Ticket) tea.Cmd {
		return func() tea.Msg {
			start := time.Now()
			alerts, err := f.FetchLive(ctx)
			return LiveFetched{Ticket: t, Alerts: alerts, Err: err, Dur: time.Since(start)}
		}
	}
}

// SearchCmd returns a command factory that runs the ticket's search.
func SearchCmd(ctx context.Context, f Fetcher) func(session.Ticket) tea.Cmd {
	return func(t session.Ticket) tea.Cmd {
		return func() tea.Msg {
			start := time.Now()
			alerts, err := f.Search(ctx, t.Query)
			return SearchFetched{Ticket: t, Alerts: alerts, Err: err, Dur: time.Since(start)}
		}
	}
}

// RecordCmd returns a command factory that journals applied alerts.
func RecordCmd(r Recorder) func([]alert.Alert) tea.Cmd {
	return func(alerts []alert.Alert) tea.Cmd {
		return func() tea.Msg {
			added, err := r.Record(alerts)
			if err != nil {
				return Journaled{Err: err}
			}
			total, err := r.Count()
			return Journaled{Added: added, Total: total, Err: err}
		}
	}
}
