package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/clierr"
	"github.com/gantryworks/gantry/internal/dispatch"
	"github.com/gantryworks/gantry/internal/output"
	"github.com/gantryworks/gantry/internal/store"
	"github.com/gantryworks/gantry/internal/trigger"
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Run the trigger dispatch worker",
	Long: `Executes pending workflow triggers: webhook triggers POST to their
configured URL, codegen triggers run their configured command, log
triggers print an acknowledgement. By default the worker keeps
running, waking on trigger file changes; --once drains the current
backlog and exits.

Executor configuration values pass through ${ENV} expansion. A .env
file in the working directory is loaded first, so secrets can stay out
of trigger records.`,
	RunE: runDispatch,
}

func init() {
	dispatchCmd.Flags().Bool("once", false, "drain pending triggers and exit")
	dispatchCmd.Flags().Bool("dry-run", false, "list what would be dispatched without executing")
	dispatchCmd.Flags().Int("workers", 0, "number of dispatch workers (default from config)")
	rootCmd.AddCommand(dispatchCmd)
}

func runDispatch(cmd *cobra.Command, _ []string) error {
	// Executor secrets may live in a local .env; a missing file is fine.
	_ = godotenv.Load()

	st, err := openStore()
	if err != nil {
		return err
	}

	reg := dispatch.DefaultRegistry(os.Stderr)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		return dispatchDryRun(st, reg)
	}

	wcfg := dispatch.WorkerConfigFrom(st.Config())
	if n, _ := cmd.Flags().GetInt("workers"); n > 0 {
		wcfg.Workers = n
	}

	worker := dispatch.NewWorker(st, reg, wcfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	once, _ := cmd.Flags().GetBool("once")
	var sum dispatch.Summary
	if once {
		sum, err = worker.RunOnce(ctx)
	} else {
		fmt.Fprintln(os.Stderr, "Dispatching triggers... (Ctrl+C to stop)")
		sum, err = worker.Run(ctx)
	}
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		if jsonErr := output.JSON(os.Stdout, sum); jsonErr != nil {
			return jsonErr
		}
	} else {
		output.Messagef(os.Stdout, "Dispatched %d triggers: %d succeeded, %d failed",
			sum.Dispatched, sum.Succeeded, sum.Failed)
	}

	// Summary is already on stdout; signal failures through the exit
	// code only.
	if sum.Failed > 0 {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}

// dispatchDryRun reports what a worker run would pick up, claiming
// nothing.
func dispatchDryRun(st *store.Store, reg *dispatch.Registry) error {
	pending, err := st.PendingTriggers()
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		if pending == nil {
			pending = []*trigger.Trigger{} // empty array, not null
		}
		return output.JSON(os.Stdout, pending)
	}

	if len(pending) == 0 {
		output.Messagef(os.Stdout, "No pending triggers.")
		return nil
	}
	for _, tr := range pending {
		note := ""
		if _, ok := reg.Lookup(tr.Type); !ok {
			note = " (no executor registered)"
		}
		output.Messagef(os.Stdout, "Would dispatch %s: %s for task #%d%s", tr.ID, tr.Type, tr.TaskID, note)
	}
	return nil
}
