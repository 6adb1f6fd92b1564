package main

import (
	"bufio"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/resqwatch/internal/otel"
)

const sampleLog = `{"t":"2026-01-02T10:00:00Z","level":"info","kind":"poll.start","comp":"ui","epoch":0}
{"t":"2026-01-02T10:00:01Z","level":"info","kind":"poll.apply","comp":"ui","epoch":0,"count":12,"dur_ms":140.2}
not json at all

{"t":"2026-01-02T10:00:05Z","level":"info","kind":"search.start","comp":"ui","epoch":1,"query":"flood"}
{"t":"2026-01-02T10:00:06Z","level":"debug","kind":"poll.discard","comp":"ui","epoch":0}
{"t":"2026-01-02T10:00:07Z","level":"error","kind":"search.error","comp":"ui","epoch":1,"query":"flood","err":"timeout"}
`

func allEvents(otel.Event) bool { return true }

func mustTail(t *testing.T, log string, n int, match func(otel.Event) bool) []eventLine {
	t.Helper()
	lines, err := tailEvents(strings.NewReader(log), n, match)
	if err != nil {
		t.Fatalf("tailEvents: %v", err)
	}
	return lines
}

func TestTailEventsSkipsGarbage(t *testing.T) {
	lines := mustTail(t, sampleLog, 100, allEvents)
	if len(lines) != 5 {
		t.Fatalf("got %d events, want 5", len(lines))
	}
	if lines[1].ev.Count != 12 || lines[1].ev.DurMs != 140.2 {
		t.Errorf("poll.apply decoded as %+v", lines[1].ev)
	}
}

func TestTailEventsKeepsLastN(t *testing.T) {
	lines := mustTail(t, sampleLog, 2, allEvents)
	if len(lines) != 2 {
		t.Fatalf("got %d events, want 2", len(lines))
	}
	if lines[0].ev.Kind != otel.KindPollDiscard || lines[1].ev.Kind != otel.KindSearchError {
		t.Errorf("kinds = %s, %s", lines[0].ev.Kind, lines[1].ev.Kind)
	}
	if !strings.Contains(string(lines[1].raw), `"err":"timeout"`) {
		t.Errorf("raw line = %s", lines[1].raw)
	}
}

func TestTailEventsZero(t *testing.T) {
	if got := mustTail(t, sampleLog, 0, allEvents); got != nil {
		t.Errorf("n=0 should return nil, got %d", len(got))
	}
}

func TestTailEventsHugeLast(t *testing.T) {
	lines := mustTail(t, sampleLog, 1<<40, allEvents)
	if len(lines) != 5 {
		t.Errorf("got %d events, want 5", len(lines))
	}
}

func TestTailEventsOversizedLine(t *testing.T) {
	long := `{"t":"2026-01-02T10:00:08Z","kind":"sys.error","msg":"` + strings.Repeat("x", maxEventLine) + `"}`
	log := sampleLog + long + "\n" + sampleLog

	lines, err := tailEvents(strings.NewReader(log), 100, allEvents)
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Fatalf("err = %v, want bufio.ErrTooLong", err)
	}
	if len(lines) != 5 {
		t.Errorf("got %d events before the long line, want 5", len(lines))
	}
}

func TestEventFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter eventFilter
		want   int
	}{
		{"no filter", eventFilter{}, 5},
		{"kind prefix", eventFilter{kind: "poll"}, 3},
		{"exact kind", eventFilter{kind: "search.error"}, 1},
		{"min level warn", eventFilter{minLevel: levelRank(otel.LevelWarn)}, 1},
		{"min level info", eventFilter{minLevel: levelRank(otel.LevelInfo)}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustTail(t, sampleLog, 100, tt.filter.match)
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFormatEvent(t *testing.T) {
	e := otel.Event{
		Time:   time.Date(2026, 1, 2, 10, 0, 7, 0, time.UTC),
		Level:  otel.LevelError,
		Kind:   otel.KindSearchError,
		Comp:   "ui",
		Epoch:  4,
		Mode:   "searching",
		Query:  "flood",
		DurMs:  12.34,
		Err:    "timeout",
		Status: "ERROR",
	}
	got := formatEvent(e)
	for _, want := range []string{"10:00:07.000", "ERROR", "search.error", "e4", "mode=searching", "status=ERROR", `q="flood"`, "(12.3ms)", "err=timeout"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatEvent missing %q: %s", want, got)
		}
	}
}

func TestDurPrecision(t *testing.T) {
	tests := []struct {
		ms   float64
		want int
	}{
		{250, 0},
		{12.5, 1},
		{0.4, 2},
	}
	for _, tt := range tests {
		if got := durPrecision(tt.ms); got != tt.want {
			t.Errorf("durPrecision(%v) = %d, want %d", tt.ms, got, tt.want)
		}
	}
}
