package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/output"
	"github.com/gantryworks/gantry/internal/query"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long: `Displays full details of a single task: fields, readiness, project,
prerequisites and dependents, triggers, and the description.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	ctx, err := query.Describe(st, id)
	if err != nil {
		return err
	}

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, ctx)
	}
	if format == output.FormatCompact {
		output.TaskDetailCompact(os.Stdout, ctx)
		return nil
	}

	output.TaskDetail(os.Stdout, ctx)
	return nil
}
