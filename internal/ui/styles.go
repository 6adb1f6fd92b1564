package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/resqwatch/internal/alert"
	"github.com/abelbrown/resqwatch/internal/session"
)

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorOnline    = lipgloss.Color("78")  // Green
	colorDanger    = lipgloss.Color("196") // Red
	colorPending   = lipgloss.Color("220") // Yellow
	colorCritical  = lipgloss.Color("203") // Salmon
)

// Title style for the app name in the header.
var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// HeaderLabel style for "Live Reports" / search label.
var HeaderLabel = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// FilterTag style for the active category tag.
var FilterTag = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// SelectedItem style for the highlighted card title.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// NormalItem style for unselected card titles.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// MetaItem style for the card metadata line.
var MetaItem = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// CategoryBadge style; the foreground is set per category.
var CategoryBadge = lipgloss.NewStyle().
	Background(lipgloss.Color("236")).
	Padding(0, 1).
	MarginRight(1)

// CriticalHeader style for the critical section heading.
var CriticalHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorCritical).
	Padding(0, 1)

// CriticalBox wraps the critical section.
var CriticalBox = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(colorCritical)

// Sidebar style for the category column.
var Sidebar = lipgloss.NewStyle().
	Padding(0, 1).
	BorderStyle(lipgloss.NormalBorder()).
	BorderRight(true).
	BorderForeground(colorMuted)

// SidebarActive style for the selected category.
var SidebarActive = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// SidebarItem style for other categories.
var SidebarItem = lipgloss.NewStyle().
	Foreground(colorSecondary)

// SearchBar style for the query input row.
var SearchBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("237")).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorDanger).
	Bold(true).
	Padding(0, 1)

// HelpStyle for empty-state text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// DebugPanel wraps the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section headings inside the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// statusColor maps a session status to its indicator colour.
func statusColor(s session.Status) lipgloss.Color {
	switch s {
	case session.StatusOnline:
		return colorOnline
	case session.StatusError:
		return colorDanger
	default:
		return colorPending
	}
}

// StatusIndicator renders the coloured status label.
func StatusIndicator(s session.Status) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(statusColor(s)).
		Render("● " + string(s))
}

// categoryColor picks a badge colour. Severe categories stand out.
func categoryColor(c alert.Category) lipgloss.Color {
	switch c {
	case alert.Fire, alert.Violence:
		return colorDanger
	case alert.Earthquake, alert.InfrastructureDamage:
		return lipgloss.Color("208")
	case alert.Flood, alert.Storm, alert.Cold, alert.OtherWeather:
		return lipgloss.Color("39")
	case alert.MedicalEmergency, alert.DeathMissing, alert.RequestsForHelp, alert.SearchAndRescue:
		return colorCritical
	default:
		return lipgloss.Color("141")
	}
}
