package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/resqwatch/internal/alert"
	"github.com/abelbrown/resqwatch/internal/logging"
	"github.com/abelbrown/resqwatch/internal/otel"
	"github.com/abelbrown/resqwatch/internal/session"
	"github.com/abelbrown/resqwatch/internal/view"
)

// Config wires the App to the outside world. Every field is optional: a
// nil command factory turns the corresponding request into a no-op.
type Config struct {
	FetchLive func(session.Ticket) tea.Cmd
	Search    func(session.Ticket) tea.Cmd
	Record    func([]alert.Alert) tea.Cmd

	Events *otel.Logger     // JSONL event stream
	Ring   *otel.RingBuffer // debug overlay source

	MaxAlerts int
	Now       func() time.Time // clock for relative ages
	Trace     bool             // emit a req.trace event for every completed request
}

// App is the root Bubble Tea model.
// It owns the Session; every Session mutation happens inside Update.
// Network work runs in commands and returns with the Ticket it was issued
// under.
type App struct {
	cfg     Config
	sess    *session.Session
	input   textinput.Model
	spinner spinner.Model

	cursor   int
	catIndex int // index into alert.FilterChoices()

	pollPending  bool
	pendingEpoch uint64

	seen      int   // distinct alerts journaled this session
	err       error // journal failure, dismissed on key press
	width     int
	height    int
	ready     bool
	showDebug bool
}

// NewApp creates an App in Live mode with status SCANNING.
func NewApp(cfg Config) App {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	ti := textinput.New()
	ti.Placeholder = "Search reports..."
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorHighlight).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	ti.CharLimit = 200

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPending)

	return App{
		cfg:     cfg,
		sess:    session.New(cfg.MaxAlerts),
		input:   ti,
		spinner: s,
	}
}

// Init starts the spinner. The first poll arrives from the scheduler.
func (a App) Init() tea.Cmd {
	return a.spinner.Tick
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 6
		a.ready = true
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case PollDue:
		return a.poll()

	case LiveFetched:
		return a.handleLive(msg)

	case SearchFetched:
		return a.handleSearch(msg)

	case Journaled:
		if msg.Err != nil {
			a.err = msg.Err
			logging.Error("journal write failed", "err", msg.Err)
			a.emit(otel.Event{Level: otel.LevelError, Kind: otel.KindError, Err: msg.Err.Error(), Msg: "journal"})
			return a, nil
		}
		a.seen = msg.Total
		return a, nil
	}

	return a, nil
}

// poll is the issue-time check for a live refresh. Ticks are no-ops while
// searching or while a poll for the current epoch is still out.
func (a App) poll() (App, tea.Cmd) {
	t, ok := a.sess.BeginPoll()
	if !ok {
		a.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindPollSkip, Epoch: a.sess.Epoch(), Msg: "search active"})
		return a, nil
	}
	if a.pollPending && a.pendingEpoch == t.Epoch {
		a.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindPollSkip, Epoch: t.Epoch, Msg: "poll in flight"})
		return a, nil
	}
	return a.issue(t)
}

// issue turns a ticket into a request command.
func (a App) issue(t session.Ticket) (App, tea.Cmd) {
	switch t.Kind {
	case session.RequestPoll:
		if a.cfg.FetchLive == nil {
			return a, nil
		}
		a.pollPending = true
		a.pendingEpoch = t.Epoch
		a.emit(otel.Event{Kind: otel.KindPollStart, Epoch: t.Epoch})
		return a, a.cfg.FetchLive(t)

	case session.RequestSearch:
		if a.cfg.Search == nil {
			return a, nil
		}
		a.emit(otel.Event{Kind: otel.KindSearchStart, Epoch: t.Epoch, Query: t.Query})
		return a, a.cfg.Search(t)
	}
	return a, nil
}

func (a App) handleLive(msg LiveFetched) (App, tea.Cmd) {
	a.trace(msg.Ticket, len(msg.Alerts), msg.Dur, msg.Err)
	if a.pollPending && a.pendingEpoch == msg.Ticket.Epoch {
		a.pollPending = false
	}

	ev := otel.Event{Epoch: msg.Ticket.Epoch, Count: len(msg.Alerts), Dur: msg.Dur}
	switch a.sess.CompletePoll(msg.Ticket, msg.Alerts, msg.Err) {
	case session.Applied:
		ev.Kind = otel.KindPollApply
		a.emit(ev)
		a.clampCursor()
		return a, a.record(msg.Alerts)

	case session.Failed:
		logging.Warn("live poll failed", "epoch", msg.Ticket.Epoch, "err", msg.Err)
		ev.Kind, ev.Level, ev.Err = otel.KindPollError, otel.LevelError, msg.Err.Error()
		a.emit(ev)

	case session.Discarded:
		ev.Kind, ev.Level = otel.KindPollDiscard, otel.LevelDebug
		a.emit(ev)
	}
	return a, nil
}

func (a App) handleSearch(msg SearchFetched) (App, tea.Cmd) {
	a.trace(msg.Ticket, len(msg.Alerts), msg.Dur, msg.Err)
	ev := otel.Event{Epoch: msg.Ticket.Epoch, Query: msg.Ticket.Query, Count: len(msg.Alerts), Dur: msg.Dur}
	switch a.sess.CompleteSearch(msg.Ticket, msg.Alerts, msg.Err) {
	case session.Applied:
		ev.Kind = otel.KindSearchApply
		a.emit(ev)
		a.cursor = 0
		return a, a.record(msg.Alerts)

	case session.Failed:
		logging.Warn("search failed", "query", msg.Ticket.Query, "err", msg.Err)
		ev.Kind, ev.Level, ev.Err = otel.KindSearchError, otel.LevelError, msg.Err.Error()
		a.emit(ev)

	case session.Discarded:
		ev.Kind, ev.Level = otel.KindSearchDiscard, otel.LevelDebug
		a.emit(ev)
	}
	return a, nil
}

func (a App) record(alerts []alert.Alert) tea.Cmd {
	if a.cfg.Record == nil || len(alerts) == 0 {
		return nil
	}
	return a.cfg.Record(alerts)
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.input.Focused() {
		return a.handleInputKey(msg)
	}

	a.err = nil

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Debug):
		a.showDebug = !a.showDebug
		return a, nil

	case key.Matches(msg, keys.Escape):
		if a.showDebug {
			a.showDebug = false
			return a, nil
		}
		if a.sess.Mode() == session.ModeSearching {
			return a.submit("")
		}
		return a, nil

	case key.Matches(msg, keys.Search):
		cmd := a.input.Focus()
		return a, cmd

	case key.Matches(msg, keys.Down):
		if a.cursor < len(a.sess.Visible())-1 {
			a.cursor++
		}
		return a, nil

	case key.Matches(msg, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case key.Matches(msg, keys.Top):
		a.cursor = 0
		return a, nil

	case key.Matches(msg, keys.Bottom):
		if n := len(a.sess.Visible()); n > 0 {
			a.cursor = n - 1
		}
		return a, nil

	case key.Matches(msg, keys.NextCat):
		return a.cycleCategory(1), nil

	case key.Matches(msg, keys.PrevCat):
		return a.cycleCategory(-1), nil

	case key.Matches(msg, keys.Refresh):
		return a.poll()

	case key.Matches(msg, keys.Reset):
		a.input.SetValue("")
		a.catIndex = 0
		a.cursor = 0
		from := a.sess.Mode()
		t := a.sess.Reset()
		a.emit(otel.Event{Kind: otel.KindModeChange, Epoch: t.Epoch, Msg: fmt.Sprintf("reset %s -> %s", from, a.sess.Mode())})
		return a.issue(t)
	}

	return a, nil
}

// handleInputKey routes keys while the search box has focus.
func (a App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return a, tea.Quit

	case key.Matches(msg, keys.Submit):
		a.input.Blur()
		return a.submit(a.input.Value())

	case key.Matches(msg, keys.Escape):
		a.input.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit hands the search box contents to the session. A blank query
// returns to Live and refetches at once.
func (a App) submit(query string) (App, tea.Cmd) {
	from := a.sess.Mode()
	t := a.sess.Submit(query)
	if t.Kind == session.RequestPoll {
		a.input.SetValue("")
	}
	a.cursor = 0
	a.emit(otel.Event{Kind: otel.KindModeChange, Epoch: t.Epoch, Query: t.Query, Msg: fmt.Sprintf("%s -> %s", from, a.sess.Mode())})
	return a.issue(t)
}

func (a App) cycleCategory(step int) App {
	choices := alert.FilterChoices()
	a.catIndex = (a.catIndex + step + len(choices)) % len(choices)
	a.sess.SetCategory(choices[a.catIndex])
	a.cursor = 0
	a.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindFilter, Epoch: a.sess.Epoch(), Msg: string(choices[a.catIndex])})
	return a
}

func (a *App) clampCursor() {
	n := len(a.sess.Visible())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// trace records a completed request against the session state it lands
// in, before the ticket is checked.
func (a App) trace(t session.Ticket, n int, dur time.Duration, err error) {
	if !a.cfg.Trace {
		return
	}
	e := otel.Event{
		Level: otel.LevelDebug,
		Kind:  otel.KindRequestTrace,
		Epoch: t.Epoch,
		Query: t.Query,
		Count: n,
		Dur:   dur,
		Msg:   fmt.Sprintf("%s ticket e%d session e%d pending=%v", t.Kind, t.Epoch, a.sess.Epoch(), a.pollPending),
	}
	if err != nil {
		e.Err = err.Error()
	}
	a.emit(e)
}

// emit stamps UI context onto e and sends it to the event stream.
func (a App) emit(e otel.Event) {
	if a.cfg.Events == nil {
		return
	}
	if e.Level == "" {
		e.Level = otel.LevelInfo
	}
	e.Comp = "ui"
	e.Mode = a.sess.Mode().String()
	e.Status = string(a.sess.Status())
	a.cfg.Events.Emit(e)
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.showDebug {
		return debugOverlay(a.cfg.Ring, a.width, a.height-1) + "\n" + debugStatusBar(a.width)
	}

	now := a.cfg.Now()
	visible := a.sess.Visible()
	counts := view.Counts(a.sess.Alerts())

	header := RenderHeader(a.sess.Mode(), a.sess.Query(), a.sess.Category(), a.sess.Status(), a.width)
	search := SearchBar.Width(a.width).Render(a.input.View())

	errorBar := ""
	switch {
	case a.sess.LastError() != nil:
		errorBar = ErrorStyle.Width(a.width).Render("Error: " + a.sess.LastError().Error())
	case a.err != nil:
		errorBar = ErrorStyle.Width(a.width).Render("Error: " + a.err.Error() + " (press any key to dismiss)")
	}

	statusBar := RenderStatusBar(a.cursor, len(visible), a.seen, a.width)

	sidebarWidth := lipgloss.Width(RenderSidebar(a.sess.Category(), counts, 0))
	mainWidth := a.width - sidebarWidth
	if mainWidth < 20 {
		mainWidth = 20
	}

	critical := ""
	if a.sess.Mode() == session.ModeLive {
		critical = RenderCritical(a.sess.Critical(), mainWidth, now)
	}

	bodyHeight := a.height - lipgloss.Height(header) - lipgloss.Height(search) - lipgloss.Height(statusBar)
	if errorBar != "" {
		bodyHeight -= lipgloss.Height(errorBar)
	}
	streamHeight := bodyHeight
	if critical != "" {
		streamHeight -= lipgloss.Height(critical)
	}

	stream := RenderStream(visible, a.cursor, mainWidth, streamHeight, a.sess.Status(), a.spinner.View(), now)
	main := stream
	if critical != "" {
		main = lipgloss.JoinVertical(lipgloss.Left, critical, stream)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, RenderSidebar(a.sess.Category(), counts, bodyHeight), main)

	parts := []string{header, search, body}
	if errorBar != "" {
		parts = append(parts, errorBar)
	}
	parts = append(parts, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Session exposes the session (for testing).
func (a App) Session() *session.Session {
	return a.sess
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Searching reports whether the search box has focus.
func (a App) Searching() bool {
	return a.input.Focused()
}

// Seen returns the journal total last reported.
func (a App) Seen() int {
	return a.seen
}
