package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/query"
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search tasks",
	Long: `Case-insensitive substring search over title, description, and tags.
Exact title matches rank above substring matches; ties go to the most
recently updated task.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	tasks, warnings, err := st.ListTasksLenient()
	if err != nil {
		return err
	}
	printWarnings(warnings)

	limit, _ := cmd.Flags().GetInt("limit")
	return outputTaskList(query.Search(tasks, args[0], limit))
}
