package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/output"
	"github.com/gantryworks/gantry/internal/task"
)

var moveCmd = &cobra.Command{
	Use:     "move ID STATUS",
	Aliases: []string{"mv"},
	Short:   "Move a task to a new status",
	Long: `Changes a task's lifecycle status. Valid statuses: pending,
in_progress, blocked, completed, cancelled. Started and completed
timestamps are maintained automatically; moving to the current status
is a no-op.`,
	Args: cobra.ExactArgs(2), //nolint:mnd // id and status
	RunE: runMove,
}

func init() {
	moveCmd.Flags().Int("version", 0, "expected task version (0 skips the check)")
	rootCmd.AddCommand(moveCmd)
}

// moveResult wraps the task with whether the move changed anything,
// so agents can tell an idempotent re-move from a real transition.
type moveResult struct {
	*task.Task
	Changed bool `json:"changed"`
}

func runMove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	target := args[1]
	if err := task.ValidateStatus(target); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	// Idempotent fast path: moving to the current status is a no-op
	// and must not bump the version.
	current, err := st.GetTask(id)
	if err != nil {
		return err
	}
	if current.Status == target {
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, moveResult{Task: current, Changed: false})
		}
		output.Messagef(os.Stdout, "Task #%d is already at %s", id, target)
		return nil
	}

	expected, _ := cmd.Flags().GetInt("version")
	from := current.Status
	t, err := st.UpdateTask(id, expected, func(t *task.Task) error {
		from = t.Status
		t.Status = target
		return nil
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, moveResult{Task: t, Changed: true})
	}

	output.Messagef(os.Stdout, "Moved task #%d: %s -> %s", t.ID, from, target)
	return nil
}
