// Package coord drives the periodic live-feed refresh.
package coord

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/resqwatch/internal/logging"
	"github.com/abelbrown/resqwatch/internal/ui"
)

// DefaultInterval is the time between poll triggers.
const DefaultInterval = 10 * time.Second

// Sender delivers messages to the UI loop. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Scheduler emits ui.PollDue once at start and then every interval.
// It never fetches: the UI loop decides whether a tick becomes a request.
// Context cancellation is the only stop mechanism.
type Scheduler struct {
	interval time.Duration
	wg       sync.WaitGroup
}

// NewScheduler creates a Scheduler. A non-positive interval uses
// DefaultInterval.
func NewScheduler(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval}
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start launches the tick goroutine. The first PollDue is sent immediately.
func (s *Scheduler) Start(ctx context.Context, out Sender) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		log := logging.WithPrefix("coord")
		log.Debug("scheduler started", "interval", s.interval)
		defer log.Debug("scheduler stopped")

		if !s.send(ctx, out, time.Now()) {
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if !s.send(ctx, out, now) {
					return
				}
			}
		}
	}()
}

// send delivers one tick unless ctx is already done.
func (s *Scheduler) send(ctx context.Context, out Sender, at time.Time) bool {
	if ctx.Err() != nil {
		return false
	}
	out.Send(ui.PollDue{At: at})
	return true
}

// Wait blocks until the tick goroutine exits.
// Call after cancelling the context passed to Start.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
