// Command resqwatch monitors a disaster-report classification service.
//
// Usage:
//
//	resqwatch                       Run the TUI
//	resqwatch live                  Print the current live batch
//	resqwatch search <query...>     One-shot search
//	resqwatch events                Event log viewer
//	resqwatch version               Print version information
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/abelbrown/resqwatch/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "resqwatch",
	Short: "Live disaster report monitor",
	Long: "resqwatch polls a disaster-report classification service, keeps a bounded " +
		"live feed of classified alerts and lets you search the service's archive.",
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging on stderr (non-interactive commands)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(liveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(eventsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "resqwatch %s (commit: %s)\n", version, commit)
	},
}

// stderrLogging routes diagnostics to stderr for commands that do not own
// the terminal.
func stderrLogging() {
	level := log.WarnLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	logging.SetOutput(os.Stderr, level)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
