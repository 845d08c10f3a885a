package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/query"
)

var readyCmd = &cobra.Command{
	Use:   "ready",
	Short: "List tasks ready to start",
	Long: `Lists pending tasks whose every blocking prerequisite is completed or
cancelled. Tasks with no prerequisites are trivially ready. Highest
priority first.`,
	RunE: runReady,
}

func init() {
	readyCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	rootCmd.AddCommand(readyCmd)
}

func runReady(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	tasks, warnings, err := query.List(st, query.Options{
		Ready:   true,
		SortBy:  "priority",
		Reverse: true,
		Limit:   limit,
	})
	if err != nil {
		return err
	}
	printWarnings(warnings)

	return outputTaskList(tasks)
}
