package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/abelbrown/resqwatch/internal/alert"
	"github.com/abelbrown/resqwatch/internal/session"
)

// cardHeight is the number of lines one alert card occupies.
const cardHeight = 2

// Age returns a relative age such as "3 minutes ago".
// Timestamps slightly in the future (clock skew) read as "now".
func Age(a alert.Alert, now time.Time) string {
	t := a.Time()
	if t.After(now) {
		return "now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Verified formats the confidence score.
func Verified(confidence float64) string {
	return fmt.Sprintf("%.0f%% Verified", confidence)
}

// RenderStream renders the visible alerts as cards, scrolled so the cursor
// stays on screen. Empty collections show a spinner while a search is
// pending and a placeholder otherwise.
func RenderStream(alerts []alert.Alert, cursor, width, height int, status session.Status, spin string, now time.Time) string {
	if len(alerts) == 0 {
		if status == session.StatusSearching || status == session.StatusScanning {
			return HelpStyle.Render(spin + " " + strings.TrimSuffix(string(status), "...") + "...")
		}
		return HelpStyle.Render("No reports found.")
	}

	visible := height / cardHeight
	if visible < 1 {
		visible = 1
	}
	offset := scrollOffset(len(alerts), cursor, visible)

	var b strings.Builder
	for i := offset; i < len(alerts) && i < offset+visible; i++ {
		b.WriteString(renderCard(alerts[i], i == cursor, width, now))
		b.WriteString("\n")
	}
	return b.String()
}

// scrollOffset returns the first card index that keeps cursor visible.
func scrollOffset(n, cursor, visible int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		cursor = n - 1
	}
	if cursor >= visible {
		return cursor - visible + 1
	}
	return 0
}

// renderCard renders a title line and a metadata line.
func renderCard(a alert.Alert, selected bool, width int, now time.Time) string {
	badge := CategoryBadge.Foreground(categoryColor(a.Category)).Render(string(a.Category))

	titleWidth := width - lipgloss.Width(badge) - 4
	if titleWidth < 20 {
		titleWidth = 20
	}
	title := truncateRunes(a.Title, titleWidth)

	style := NormalItem
	if selected {
		style = SelectedItem
	}

	meta := []string{}
	if a.Subreddit != "" {
		meta = append(meta, a.Subreddit)
	}
	meta = append(meta, Age(a, now), Verified(a.Confidence))

	return badge + style.Render(title) + "\n" + MetaItem.Render(strings.Join(meta, " · "))
}

// RenderCritical renders the highlighted section. Returns "" when empty.
func RenderCritical(alerts []alert.Alert, width int, now time.Time) string {
	if len(alerts) == 0 {
		return ""
	}

	inner := width - 2
	if inner < 20 {
		inner = 20
	}

	lines := []string{CriticalHeader.Render(fmt.Sprintf("⚠ CRITICAL (%d)", len(alerts)))}
	for _, a := range alerts {
		title := truncateRunes(a.Title, inner-lipgloss.Width(string(a.Category))-20)
		lines = append(lines, fmt.Sprintf(" %s  %s  %s",
			lipgloss.NewStyle().Foreground(categoryColor(a.Category)).Render(string(a.Category)),
			title,
			MetaItem.Render(Verified(a.Confidence))))
	}
	return CriticalBox.Width(inner).Render(strings.Join(lines, "\n"))
}

// HeaderLabelText returns "Live Reports" or the search label.
func HeaderLabelText(mode session.Mode, query string) string {
	if mode == session.ModeSearching {
		return fmt.Sprintf("Search Results for %q", query)
	}
	return "Live Reports"
}

// RenderHeader renders the top line: name, label, filter tag, status.
func RenderHeader(mode session.Mode, query string, category alert.Category, status session.Status, width int) string {
	left := Title.Render("RESQWATCH") + HeaderLabel.Render(HeaderLabelText(mode, query))
	if category != alert.All {
		left += FilterTag.Render("#" + string(category))
	}
	right := StatusIndicator(status)

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

// RenderSidebar lists the filter choices with visible counts.
func RenderSidebar(active alert.Category, counts map[alert.Category]int, height int) string {
	var lines []string
	for _, c := range alert.FilterChoices() {
		label := fmt.Sprintf("%-22s %3d", truncateRunes(string(c), 22), counts[c])
		if c == active {
			lines = append(lines, SidebarActive.Render("▸ "+label))
		} else {
			lines = append(lines, SidebarItem.Render("  "+label))
		}
	}
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	return Sidebar.Render(strings.Join(lines, "\n"))
}

// RenderStatusBar renders position, journal totals and key hints.
func RenderStatusBar(cursor, total, seen int, width int) string {
	position := " 0/0 "
	if total > 0 {
		position = fmt.Sprintf(" %d/%d ", cursor+1, total)
	}
	if seen > 0 {
		position += StatusBarText.Render(fmt.Sprintf("· %d seen ", seen))
	}

	keys := []string{
		StatusBarKey.Render("j/k") + StatusBarText.Render(":nav"),
		StatusBarKey.Render("/") + StatusBarText.Render(":search"),
		StatusBarKey.Render("tab") + StatusBarText.Render(":category"),
		StatusBarKey.Render("r") + StatusBarText.Render(":refresh"),
		StatusBarKey.Render("x") + StatusBarText.Render(":reset"),
		StatusBarKey.Render("q") + StatusBarText.Render(":quit"),
	}
	keyHints := strings.Join(keys, " ")

	padding := width - lipgloss.Width(position) - lipgloss.Width(keyHints)
	if padding < 0 {
		padding = 0
	}
	return StatusBar.Width(width).Render(position + strings.Repeat(" ", padding) + keyHints)
}

// truncateRunes shortens s to at most n runes, ending in "...".
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
