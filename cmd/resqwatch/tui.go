package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/abelbrown/resqwatch/internal/alert"
	"github.com/abelbrown/resqwatch/internal/config"
	"github.com/abelbrown/resqwatch/internal/coord"
	"github.com/abelbrown/resqwatch/internal/feed"
	"github.com/abelbrown/resqwatch/internal/journal"
	"github.com/abelbrown/resqwatch/internal/logging"
	"github.com/abelbrown/resqwatch/internal/otel"
	"github.com/abelbrown/resqwatch/internal/ui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := logging.Init(version); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Close()

	events, closeLog, err := openEventLog(cfg.EventLogPath())
	if err != nil {
		return err
	}
	defer closeLog()
	defer events.Close()

	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	events.SetRingBuffer(ring)

	client, err := feed.NewClient(cfg.APIURL, cfg.RequestTimeoutDuration(),
		feed.WithSearchInterval(cfg.SearchIntervalDuration()),
		feed.WithLogger(logging.WithPrefix("feed")),
	)
	if err != nil {
		return err
	}

	seen, err := journal.Open(":memory:")
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer seen.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app := ui.NewApp(ui.Config{
		FetchLive: ui.LiveCmd(ctx, client),
		Search:    ui.SearchCmd(ctx, client),
		Record:    ui.RecordCmd(seen),
		Events:    events,
		Ring:      ring,
		MaxAlerts: cfg.MaxAlerts,
		Trace:     otel.TraceEnabled(),
	})

	events.Info(otel.KindStartup, "main", fmt.Sprintf("resqwatch %s api=%s poll=%s", version, client.BaseURL(), cfg.PollDuration()))
	logging.Info("config loaded", "api", client.BaseURL(), "poll", cfg.PollDuration(), "max_alerts", cfg.MaxAlerts)

	program := tea.NewProgram(app, tea.WithAltScreen())

	sched := coord.NewScheduler(cfg.PollDuration())
	sched.Start(ctx, program)

	_, runErr := program.Run()

	cancel()
	sched.Wait()

	total, err := seen.Count()
	if err != nil {
		logging.Warn("journal count failed", "err", err)
	}
	counts, err := seen.CategoryCounts()
	if err != nil {
		logging.Warn("journal category counts failed", "err", err)
	}
	logging.Info("session summary", summaryFields(total, counts)...)
	if runErr != nil {
		events.Error(otel.KindError, "main", runErr)
	}
	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindShutdown, Comp: "main", Count: total})

	if runErr != nil {
		return fmt.Errorf("running TUI: %w", runErr)
	}
	return nil
}

var summaryKey = strings.NewReplacer(" ", "_", "/", "_")

// summaryFields flattens journal totals into logger key/value pairs,
// categories in name order.
func summaryFields(total int, counts map[alert.Category]int) []any {
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)

	fields := []any{"alerts", total}
	for _, c := range cats {
		fields = append(fields, summaryKey.Replace(strings.ToLower(c)), counts[alert.Category(c)])
	}
	return fields
}

// openEventLog opens the JSONL event log for appending.
func openEventLog(path string) (*otel.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating event log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening event log: %w", err)
	}
	return otel.NewLogger(f), f.Close, nil
}
