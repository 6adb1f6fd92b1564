package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/resqwatch/internal/otel"
)

// debugPanelChrome is the border plus vertical padding of DebugPanel.
const debugPanelChrome = 4

// debugOverlay renders request stats and recent events from the ring.
// Returns "" when ring is nil.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()

	lines := []string{
		DebugHeaderStyle.Render("Request Stats"),
		fmt.Sprintf("  Polls:      %d started, %d applied, %d errors, %d stale, %d skipped",
			stats[otel.KindPollStart], stats[otel.KindPollApply], stats[otel.KindPollError],
			stats[otel.KindPollDiscard], stats[otel.KindPollSkip]),
		fmt.Sprintf("  Searches:   %d started, %d applied, %d errors, %d stale",
			stats[otel.KindSearchStart], stats[otel.KindSearchApply], stats[otel.KindSearchError],
			stats[otel.KindSearchDiscard]),
		fmt.Sprintf("  Modes:      %d changes", stats[otel.KindModeChange]),
		fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()),
		"",
		DebugHeaderStyle.Render("Recent Events"),
	}

	for _, e := range ring.Last(20) {
		line := fmt.Sprintf("  %6s  %-15s e%-3d", formatAge(time.Since(e.Time)), string(e.Kind), e.Epoch)
		if e.Query != "" {
			line += fmt.Sprintf("  q=%q", truncateRunes(e.Query, 20))
		}
		if e.Count > 0 {
			line += fmt.Sprintf("  n=%d", e.Count)
		}
		if e.Msg != "" {
			line += "  " + truncateRunes(e.Msg, 30)
		}
		if e.Err != "" {
			line += "  ERR:" + truncateRunes(e.Err, 30)
		}
		lines = append(lines, line)
	}

	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 86
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}
	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration compactly. Negative values clamp to "0ms".
func formatAge(d time.Duration) string {
	switch {
	case d < 0:
		return "0ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// debugStatusBar renders the status bar shown with the overlay.
func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("D") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}
