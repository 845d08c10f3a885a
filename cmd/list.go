package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/clierr"
	"github.com/gantryworks/gantry/internal/output"
	"github.com/gantryworks/gantry/internal/query"
	"github.com/gantryworks/gantry/internal/store"
	"github.com/gantryworks/gantry/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists tasks with optional filtering, sorting, and grouping.
--ready restricts the list to pending tasks whose every blocking
prerequisite is completed or cancelled.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringSliceP("status", "s", nil, "filter by status (repeatable)")
	listCmd.Flags().StringSliceP("priority", "p", nil, "filter by priority (repeatable)")
	listCmd.Flags().String("tag", "", "filter by tag")
	listCmd.Flags().Int("project", 0, "filter by project id")
	listCmd.Flags().String("search", "", "filter by substring over title, description, tags")
	listCmd.Flags().Bool("ready", false, "only tasks ready to start")
	listCmd.Flags().String("sort", "", "sort by field ("+strings.Join(query.SortFields(), ", ")+")")
	listCmd.Flags().Bool("reverse", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	listCmd.Flags().String("group-by", "", "group by field ("+strings.Join(query.GroupFields(), ", ")+")")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	opts, err := listOptions(cmd)
	if err != nil {
		return err
	}

	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy != "" && !slices.Contains(query.GroupFields(), groupBy) {
		return clierr.Newf(clierr.InvalidGroupBy, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(query.GroupFields(), ", "))
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	tasks, warnings, err := query.List(st, opts)
	if err != nil {
		return err
	}
	printWarnings(warnings)

	if groupBy != "" {
		return outputGroupedList(st, tasks, groupBy)
	}
	return outputTaskList(tasks)
}

// listOptions translates list flags into query options, validating
// enum-valued filters up front.
func listOptions(cmd *cobra.Command) (query.Options, error) {
	var opts query.Options

	opts.Filter.Statuses, _ = cmd.Flags().GetStringSlice("status")
	for _, s := range opts.Filter.Statuses {
		if err := task.ValidateStatus(s); err != nil {
			return opts, err
		}
	}
	opts.Filter.Priorities, _ = cmd.Flags().GetStringSlice("priority")
	for _, p := range opts.Filter.Priorities {
		if err := task.ValidatePriority(p); err != nil {
			return opts, err
		}
	}
	opts.Filter.Tag, _ = cmd.Flags().GetString("tag")
	opts.Filter.Search, _ = cmd.Flags().GetString("search")
	if cmd.Flags().Changed("project") {
		v, _ := cmd.Flags().GetInt("project")
		opts.Filter.Project = &v
	}

	opts.Ready, _ = cmd.Flags().GetBool("ready")
	opts.SortBy, _ = cmd.Flags().GetString("sort")
	if opts.SortBy != "" && !slices.Contains(query.SortFields(), opts.SortBy) {
		return opts, clierr.Newf(clierr.InvalidInput, "invalid --sort field %q; valid: %s",
			opts.SortBy, strings.Join(query.SortFields(), ", "))
	}
	opts.Reverse, _ = cmd.Flags().GetBool("reverse")
	opts.Limit, _ = cmd.Flags().GetInt("limit")

	return opts, nil
}

func outputTaskList(tasks []*task.Task) error {
	format := outputFormat()
	if format == output.FormatJSON {
		if tasks == nil {
			tasks = []*task.Task{} // empty array, not null
		}
		return output.JSON(os.Stdout, tasks)
	}
	if format == output.FormatCompact {
		output.TaskCompact(os.Stdout, tasks)
		return nil
	}

	output.TaskTable(os.Stdout, tasks)
	return nil
}

func outputGroupedList(st *store.Store, tasks []*task.Task, groupBy string) error {
	grouped := query.GroupBy(tasks, groupBy, projectNames(st))

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, grouped)
	}

	output.GroupedTable(os.Stdout, grouped)
	return nil
}

// projectNames maps project ids to names for group labels. Unreadable
// projects degrade to bare ids.
func projectNames(st *store.Store) map[int]string {
	projects, err := st.ListProjects()
	if err != nil {
		return nil
	}
	names := make(map[int]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names
}
