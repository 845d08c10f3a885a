package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gantryworks/gantry/internal/clierr"
	"github.com/gantryworks/gantry/internal/output"
	"github.com/gantryworks/gantry/internal/store"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Removes a task file and every dependency edge touching it. Trigger
records owned by the task are kept for audit. Prompts for confirmation
in interactive mode; use --yes to skip.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	t, err := st.GetTask(id)
	if err != nil {
		return err
	}

	warnDependents(st, id)

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return clierr.New(clierr.ConfirmationReq,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(os.Stderr, "Delete task #%d %q? [y/N] ", t.ID, t.Title)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	deleted, err := st.DeleteTask(id)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]interface{}{
			"status": "deleted",
			"id":     deleted.ID,
			"title":  deleted.Title,
		})
	}

	output.Messagef(os.Stdout, "Deleted task #%d: %s", deleted.ID, deleted.Title)
	return nil
}

// warnDependents lists tasks that will lose a prerequisite when id is
// deleted. Warnings only; the edges themselves go with the task.
func warnDependents(st *store.Store, id int) {
	g, _, err := st.Snapshot()
	if err != nil {
		return
	}
	for _, dep := range g.Dependents(id) {
		title := ""
		if t := g.Task(dep); t != nil {
			title = ": " + t.Title
		}
		fmt.Fprintf(os.Stderr, "Warning: task #%d depends on #%d%s\n", dep, id, title)
	}
}
