package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/output"
	"github.com/gantryworks/gantry/internal/store"
)

var logCmd = &cobra.Command{
	Use:     "log",
	Aliases: []string{"events"},
	Short:   "Show the workspace event log",
	Long: `Prints the append-only event log: one entry per successful mutation,
oldest first. The log is capped; the oldest entries rotate out. --limit
keeps only the most recent entries after filtering.`,
	RunE: runLog,
}

func init() {
	logCmd.Flags().IntP("limit", "n", 0, "show only the most recent N events")
	logCmd.Flags().Int("task", 0, "filter by task id")
	logCmd.Flags().String("kind", "", "filter by event kind (e.g. task-created)")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	events, err := st.Events()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("task") {
		taskID, _ := cmd.Flags().GetInt("task")
		events = filterEvents(events, func(e store.Event) bool { return e.TaskID == taskID })
	}
	if kind, _ := cmd.Flags().GetString("kind"); kind != "" {
		events = filterEvents(events, func(e store.Event) bool { return e.Kind == kind })
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}

	if outputFormat() == output.FormatJSON {
		if events == nil {
			events = []store.Event{} // empty array, not null
		}
		return output.JSON(os.Stdout, events)
	}

	if len(events) == 0 {
		output.Messagef(os.Stdout, "No events recorded.")
		return nil
	}
	for _, e := range events {
		fmt.Fprintln(os.Stdout, formatEventLine(e))
	}
	return nil
}

func filterEvents(events []store.Event, keep func(store.Event) bool) []store.Event {
	out := events[:0]
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// formatEventLine renders one event as a grep-friendly line.
func formatEventLine(e store.Event) string {
	parts := []string{
		e.Timestamp.Format("2006-01-02 15:04:05"),
		fmt.Sprintf("%-22s", e.Kind),
	}
	if e.TaskID > 0 {
		parts = append(parts, fmt.Sprintf("#%d", e.TaskID))
	}
	if e.ProjectID > 0 {
		parts = append(parts, fmt.Sprintf("project #%d", e.ProjectID))
	}
	if e.TriggerID != "" {
		parts = append(parts, shortEventID(e.TriggerID))
	}
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	return strings.Join(parts, " ")
}

// shortEventID returns the first uuid segment of a trigger id.
func shortEventID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
