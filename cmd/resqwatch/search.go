package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abelbrown/resqwatch/internal/alert"
	"github.com/abelbrown/resqwatch/internal/config"
	"github.com/abelbrown/resqwatch/internal/feed"
	"github.com/abelbrown/resqwatch/internal/logging"
	"github.com/abelbrown/resqwatch/internal/reconcile"
	"github.com/abelbrown/resqwatch/internal/session"
	"github.com/abelbrown/resqwatch/internal/ui"
	"github.com/abelbrown/resqwatch/internal/view"
)

var flagCategory string

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search the service once and print the results",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Fetch the current live batch once and print it",
	Args:  cobra.NoArgs,
	RunE:  runLive,
}

func init() {
	for _, c := range []*cobra.Command{searchCmd, liveCmd} {
		c.Flags().StringVarP(&flagCategory, "category", "c", "", "only show this category (e.g. Fire, \"Medical Emergency\")")
	}
}

// newClient loads config and builds a feed client, validating --category.
func newClient() (*config.Config, *feed.Client, alert.Category, error) {
	stderrLogging()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, "", fmt.Errorf("loading config: %w", err)
	}

	cat, ok := alert.ParseFilter(flagCategory)
	if !ok {
		names := make([]string, 0, len(alert.Categories)+1)
		for _, c := range alert.FilterChoices() {
			names = append(names, string(c))
		}
		return nil, nil, "", fmt.Errorf("unknown category %q (choose from: %s)", flagCategory, strings.Join(names, ", "))
	}

	client, err := feed.NewClient(cfg.APIURL, cfg.RequestTimeoutDuration(),
		feed.WithLogger(logging.WithPrefix("feed")))
	if err != nil {
		return nil, nil, "", err
	}
	return cfg, client, cat, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	_, client, cat, err := newClient()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results, err := client.Search(cmd.Context(), query)
	if err != nil {
		return err
	}

	visible := view.Filter(reconcile.Replace(results), cat)
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n\n", ui.HeaderLabelText(session.ModeSearching, query), len(visible))
	printAlerts(cmd.OutOrStdout(), visible, time.Now())
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, client, cat, err := newClient()
	if err != nil {
		return err
	}

	batch, err := client.FetchLive(cmd.Context())
	if err != nil {
		return err
	}

	visible := view.Filter(reconcile.Merge(nil, batch, cfg.MaxAlerts), cat)
	now := time.Now()
	out := cmd.OutOrStdout()

	if critical := view.Critical(visible); len(critical) > 0 {
		fmt.Fprintf(out, "CRITICAL (%d)\n", len(critical))
		printAlerts(out, critical, now)
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Live Reports (%d)\n\n", len(visible))
	printAlerts(out, visible, now)
	return nil
}

// printAlerts writes one alert per line followed by its link.
func printAlerts(w io.Writer, alerts []alert.Alert, now time.Time) {
	if len(alerts) == 0 {
		fmt.Fprintln(w, "No reports found.")
		return
	}
	for _, a := range alerts {
		fmt.Fprintf(w, "%-22s %-14s %-16s %s\n", a.Category, ui.Verified(a.Confidence), ui.Age(a, now), a.Title)
		if a.URL != "" {
			fmt.Fprintf(w, "%22s %s\n", "", a.URL)
		}
	}
}
