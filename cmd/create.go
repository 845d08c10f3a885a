package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gantryworks/gantry/internal/clierr"
	"github.com/gantryworks/gantry/internal/graph"
	"github.com/gantryworks/gantry/internal/output"
	"github.com/gantryworks/gantry/internal/store"
	"github.com/gantryworks/gantry/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "create [TITLE]",
	Aliases: []string{"add"},
	Short:   "Create a new task",
	Long: `Creates a task in the workspace. New tasks always start as pending;
use 'gantry move' to advance them. --after records blocks edges from
existing tasks so the new task is not ready until they finish.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringP("title", "t", "", "task title (alternative to positional argument)")
	createCmd.Flags().StringP("description", "d", "", "task description")
	createCmd.Flags().StringP("priority", "p", "", "priority (low, medium, high, critical)")
	createCmd.Flags().Float64("estimate", 0, "estimated hours")
	createCmd.Flags().Float64("actual", 0, "actual hours spent")
	createCmd.Flags().StringSlice("tag", nil, "tags (repeatable)")
	createCmd.Flags().StringSlice("req", nil, "technical requirements (repeatable)")
	createCmd.Flags().Int("project", 0, "project id this task belongs to")
	createCmd.Flags().IntSlice("after", nil, "ids of tasks that must finish first")
	createCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "tags":
			name = "tag"
		case "desc":
			name = "description"
		case "depends-on":
			name = "after"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	title, err := resolveCreateTitle(cmd, args)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	t := &task.Task{Title: title}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		if err := task.ValidatePriority(v); err != nil {
			return err
		}
		t.Priority = v
	}
	applyCreateFlags(cmd, t)

	created, err := st.CreateTask(t)
	if err != nil {
		return err
	}

	if after, _ := cmd.Flags().GetIntSlice("after"); len(after) > 0 {
		if err := addPrerequisites(st, created.ID, after); err != nil {
			return err
		}
	}

	return outputCreateResult(created)
}

// resolveCreateTitle takes the title from the positional argument or
// the --title flag, rejecting conflicting use of both.
func resolveCreateTitle(cmd *cobra.Command, args []string) (string, error) {
	flagTitle, _ := cmd.Flags().GetString("title")
	if len(args) > 0 && flagTitle != "" {
		return "", clierr.New(clierr.InvalidInput,
			"title given both as argument and --title flag")
	}

	title := flagTitle
	if len(args) > 0 {
		title = args[0]
	}
	if err := task.ValidateTitle(title); err != nil {
		return "", err
	}
	return title, nil
}

// applyCreateFlags copies optional field flags onto the draft. Range
// checks happen in the store's validation.
func applyCreateFlags(cmd *cobra.Command, t *task.Task) {
	if v, _ := cmd.Flags().GetString("description"); v != "" {
		t.Description = v
	}
	if v, _ := cmd.Flags().GetFloat64("estimate"); v != 0 {
		t.EstimatedHours = v
	}
	if v, _ := cmd.Flags().GetFloat64("actual"); v != 0 {
		t.ActualHours = v
	}
	if v, _ := cmd.Flags().GetStringSlice("tag"); len(v) > 0 {
		t.Tags = v
	}
	if v, _ := cmd.Flags().GetStringSlice("req"); len(v) > 0 {
		t.Requirements = v
	}
	if cmd.Flags().Changed("project") {
		v, _ := cmd.Flags().GetInt("project")
		t.Project = &v
	}
}

// addPrerequisites records a blocks edge from each given task to the
// newly created one. The new task has no dependents yet, so these
// additions cannot close a cycle.
func addPrerequisites(st *store.Store, id int, after []int) error {
	for _, dep := range after {
		if _, _, err := st.AddDependency(dep, id, graph.TypeBlocks); err != nil {
			return fmt.Errorf("task #%d created, but recording dependency on #%d failed: %w", id, dep, err)
		}
	}
	return nil
}

func outputCreateResult(t *task.Task) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}

	output.Messagef(os.Stdout, "Created task #%d: %s", t.ID, t.Title)
	output.Messagef(os.Stdout, "  File:   %s", t.File)
	output.Messagef(os.Stdout, "  Status: %s", t.Status)
	return nil
}
