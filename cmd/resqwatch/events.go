package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abelbrown/resqwatch/internal/config"
	"github.com/abelbrown/resqwatch/internal/otel"
)

var (
	flagKind  string
	flagLast  int
	flagLevel string
	flagJSON  bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent entries from the JSONL event log",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

func init() {
	eventsCmd.Flags().StringVar(&flagKind, "kind", "", "filter by event kind prefix (e.g. poll, search.discard)")
	eventsCmd.Flags().IntVarP(&flagLast, "last", "n", 50, "number of recent events to show")
	eventsCmd.Flags().StringVar(&flagLevel, "level", "", "minimum level: debug, info, warn, error")
	eventsCmd.Flags().BoolVar(&flagJSON, "json", false, "print raw JSON lines")
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	path := cfg.EventLogPath()
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("event log not found at %s (run the TUI first): %w", path, err)
	}
	defer f.Close()

	match := eventFilter{kind: flagKind, minLevel: levelRank(otel.Level(flagLevel))}
	lines, err := tailEvents(f, flagLast, match.match)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	for _, line := range lines {
		if flagJSON {
			fmt.Fprintln(cmd.OutOrStdout(), string(line.raw))
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatEvent(line.ev))
	}
	return nil
}

// levelRank orders levels by severity.
func levelRank(l otel.Level) int {
	switch l {
	case otel.LevelInfo:
		return 1
	case otel.LevelWarn:
		return 2
	case otel.LevelError:
		return 3
	default:
		return 0
	}
}

type eventFilter struct {
	kind     string
	minLevel int
}

func (f eventFilter) match(e otel.Event) bool {
	if f.kind != "" && !strings.HasPrefix(string(e.Kind), f.kind) {
		return false
	}
	return levelRank(e.Level) >= f.minLevel
}

type eventLine struct {
	ev  otel.Event
	raw []byte
}

// maxEventLine bounds a single JSONL line; longer lines fail the scan.
const maxEventLine = 256 * 1024

// tailEvents returns the last n matching events. Unparseable lines are
// skipped; a read failure or an oversized line is returned as an error.
func tailEvents(r io.Reader, n int, match func(otel.Event) bool) ([]eventLine, error) {
	if n <= 0 {
		return nil, nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLine)

	window := make([]eventLine, 0, min(n, 1024))
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev otel.Event
		if json.Unmarshal(raw, &ev) != nil || !match(ev) {
			continue
		}

		line := eventLine{ev: ev, raw: append([]byte(nil), raw...)}
		if len(window) < n {
			window = append(window, line)
			continue
		}
		copy(window, window[1:])
		window[n-1] = line
	}
	if err := scanner.Err(); err != nil {
		return window, err
	}
	return window, nil
}

// formatEvent renders one event as a log line.
func formatEvent(e otel.Event) string {
	lvl := strings.ToUpper(string(e.Level))
	if lvl == "" {
		lvl = "?"
	}

	parts := []string{fmt.Sprintf("%s %-5s [%-4s] %-15s e%d",
		e.Time.Format("15:04:05.000"), lvl, e.Comp, e.Kind, e.Epoch)}

	if e.Mode != "" {
		parts = append(parts, "mode="+e.Mode)
	}
	if e.Status != "" {
		parts = append(parts, "status="+e.Status)
	}
	if e.Msg != "" {
		parts = append(parts, "- "+e.Msg)
	}
	if e.DurMs > 0 {
		parts = append(parts, fmt.Sprintf("(%.*fms)", durPrecision(e.DurMs), e.DurMs))
	}
	if e.Count > 0 {
		parts = append(parts, fmt.Sprintf("n=%d", e.Count))
	}
	if e.Query != "" {
		parts = append(parts, fmt.Sprintf("q=%q", e.Query))
	}
	if e.Err != "" {
		parts = append(parts, "err="+e.Err)
	}
	return strings.Join(parts, " ")
}

func durPrecision(ms float64) int {
	switch {
	case ms >= 100:
		return 0
	case ms >= 1:
		return 1
	default:
		return 2
	}
}
