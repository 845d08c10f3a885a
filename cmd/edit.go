package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/clierr"
	"github.com/gantryworks/gantry/internal/output"
	"github.com/gantryworks/gantry/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. Only specified fields change;
status changes go through 'gantry move'. Pass --version with the
version you last read to fail on concurrent edits instead of
overwriting them.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().Int("version", 0, "expected task version (0 skips the check)")
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().String("description", "", "new description (replaces existing)")
	editCmd.Flags().String("priority", "", "new priority")
	editCmd.Flags().Float64("estimate", 0, "new estimated hours")
	editCmd.Flags().Float64("actual", 0, "actual hours spent")
	editCmd.Flags().StringSlice("add-tag", nil, "add tags")
	editCmd.Flags().StringSlice("remove-tag", nil, "remove tags")
	editCmd.Flags().StringSlice("add-req", nil, "append technical requirements")
	editCmd.Flags().StringSlice("remove-req", nil, "remove technical requirements")
	editCmd.Flags().Int("project", 0, "assign to project id")
	editCmd.Flags().Bool("clear-project", false, "clear project assignment")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	expected, _ := cmd.Flags().GetInt("version")
	t, err := st.UpdateTask(id, expected, func(t *task.Task) error {
		changed, applyErr := applyEditFlags(cmd, t)
		if applyErr != nil {
			return applyErr
		}
		if !changed {
			return clierr.New(clierr.NoChanges, "no changes specified")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}

	output.Messagef(os.Stdout, "Updated task #%d: %s (now v%d)", t.ID, t.Title, t.Version)
	return nil
}

// applyEditFlags applies field edits to the task inside the store's
// update. Returns whether anything changed.
func applyEditFlags(cmd *cobra.Command, t *task.Task) (bool, error) {
	changed, err := applySimpleEditFlags(cmd, t)
	if err != nil {
		return false, err
	}

	// Apply grouped flag helpers, each returning (bool, error).
	for _, fn := range []func(*cobra.Command, *task.Task) (bool, error){
		applyTagFlags,
		applyReqFlags,
		applyProjectFlags,
	} {
		c, fnErr := fn(cmd, t)
		if fnErr != nil {
			return false, fnErr
		}
		if c {
			changed = true
		}
	}

	return changed, nil
}

func applySimpleEditFlags(cmd *cobra.Command, t *task.Task) (bool, error) {
	changed := false

	if v, _ := cmd.Flags().GetString("title"); v != "" {
		t.Title = v
		changed = true
	}
	if cmd.Flags().Changed("description") {
		v, _ := cmd.Flags().GetString("description")
		t.Description = v
		changed = true
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		if err := task.ValidatePriority(v); err != nil {
			return false, err
		}
		t.Priority = v
		changed = true
	}
	if cmd.Flags().Changed("estimate") {
		v, _ := cmd.Flags().GetFloat64("estimate")
		t.EstimatedHours = v
		changed = true
	}
	if cmd.Flags().Changed("actual") {
		v, _ := cmd.Flags().GetFloat64("actual")
		t.ActualHours = v
		changed = true
	}

	return changed, nil
}

func applyTagFlags(cmd *cobra.Command, t *task.Task) (bool, error) {
	changed := false

	if v, _ := cmd.Flags().GetStringSlice("add-tag"); len(v) > 0 {
		t.Tags = appendUnique(t.Tags, v...)
		changed = true
	}
	if v, _ := cmd.Flags().GetStringSlice("remove-tag"); len(v) > 0 {
		t.Tags = removeAll(t.Tags, v...)
		changed = true
	}

	return changed, nil
}

func applyReqFlags(cmd *cobra.Command, t *task.Task) (bool, error) {
	changed := false

	if v, _ := cmd.Flags().GetStringSlice("add-req"); len(v) > 0 {
		t.Requirements = appendUnique(t.Requirements, v...)
		changed = true
	}
	if v, _ := cmd.Flags().GetStringSlice("remove-req"); len(v) > 0 {
		t.Requirements = removeAll(t.Requirements, v...)
		changed = true
	}

	return changed, nil
}

func applyProjectFlags(cmd *cobra.Command, t *task.Task) (bool, error) {
	projectSet := cmd.Flags().Changed("project")
	clearProject, _ := cmd.Flags().GetBool("clear-project")

	if projectSet && clearProject {
		return false, clierr.New(clierr.InvalidInput, "cannot use --project and --clear-project together")
	}
	if projectSet {
		v, _ := cmd.Flags().GetInt("project")
		t.Project = &v
		return true, nil
	}
	if clearProject {
		t.Project = nil
		return true, nil
	}
	return false, nil
}

func appendUnique(slice []string, items ...string) []string {
	seen := make(map[string]bool, len(slice))
	for _, s := range slice {
		seen[s] = true
	}
	for _, item := range items {
		if !seen[item] {
			slice = append(slice, item)
			seen[item] = true
		}
	}
	return slice
}

func removeAll(slice []string, items ...string) []string {
	remove := make(map[string]bool, len(items))
	for _, item := range items {
		remove[item] = true
	}
	result := make([]string, 0, len(slice))
	for _, s := range slice {
		if !remove[s] {
			result = append(result, s)
		}
	}
	return result
}
