package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/output"
	"github.com/gantryworks/gantry/internal/query"
	"github.com/gantryworks/gantry/internal/store"
	"github.com/gantryworks/gantry/internal/watcher"
)

var flagStatsWatch bool

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"statistics"},
	Short:   "Show workspace statistics",
	Long: `Displays task counts by status and priority, plus trigger counts by
status. Counts always reflect the store at call time.

Use --watch to keep the display live. The view re-renders whenever
workspace files change on disk (e.g., from another terminal or an AI
agent). Press Ctrl+C to stop.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVarP(&flagStatsWatch, "watch", "w", false, "live-update on file changes")
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	// Render once.
	if err := renderStats(st); err != nil {
		return err
	}

	if !flagStatsWatch {
		return nil
	}

	return watchStats(st)
}

func renderStats(st *store.Store) error {
	tasks, warnings, err := st.ListTasksLenient()
	if err != nil {
		return err
	}
	printWarnings(warnings)

	triggers, err := st.ListTriggers()
	if err != nil {
		return err
	}

	s := query.Collect(tasks, triggers)

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, s)
	}
	if format == output.FormatCompact {
		output.StatsCompact(os.Stdout, s)
		return nil
	}

	output.StatsTable(os.Stdout, s)
	return nil
}

func watchStats(st *store.Store) error {
	cfg := st.Config()
	watchPaths := []string{cfg.TasksPath(), cfg.TriggersPath(), cfg.Dir()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(watchPaths, func() {
		clearScreen()
		if renderErr := renderStats(st); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering stats: %v\n", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})

	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
