package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/output"
	"github.com/gantryworks/gantry/internal/query"
	"github.com/gantryworks/gantry/internal/store"
	"github.com/gantryworks/gantry/internal/task"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects"},
	Short:   "Manage projects",
	Long: `Projects group related tasks. Tasks reference a project by id; the
reference is weak, so deleting a project keeps its tasks and clears
the reference.`,
}

var projectCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectCreate,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	RunE:    runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show project details and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete a project",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectDelete,
}

func init() {
	projectCreateCmd.Flags().StringP("description", "d", "", "project description")
	projectCreateCmd.Flags().String("repo", "", "repository URL")
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	p := &task.Project{Name: args[0]}
	if v, _ := cmd.Flags().GetString("description"); v != "" {
		p.Description = v
	}
	if v, _ := cmd.Flags().GetString("repo"); v != "" {
		p.RepositoryURL = v
	}

	created, err := st.CreateProject(p)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, created)
	}

	output.Messagef(os.Stdout, "Created project #%d: %s", created.ID, created.Name)
	return nil
}

func runProjectList(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	projects, err := st.ListProjects()
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		if projects == nil {
			projects = []*task.Project{} // empty array, not null
		}
		return output.JSON(os.Stdout, projects)
	}

	output.ProjectTable(os.Stdout, projects, projectTaskCounts(st))
	return nil
}

// projectTaskCounts tallies tasks per project id for the list view.
func projectTaskCounts(st *store.Store) map[int]int {
	tasks, _, err := st.ListTasksLenient()
	if err != nil {
		return nil
	}
	counts := make(map[int]int)
	for _, t := range tasks {
		if t.Project != nil {
			counts[*t.Project]++
		}
	}
	return counts
}

func runProjectShow(_ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	p, err := st.GetProject(id)
	if err != nil {
		return err
	}

	tasks, warnings, err := st.ListTasksLenient()
	if err != nil {
		return err
	}
	printWarnings(warnings)

	var members []*task.Task
	for _, t := range tasks {
		if t.Project != nil && *t.Project == id {
			members = append(members, t)
		}
	}
	query.Sort(members, "id", false)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"project": p, "tasks": members})
	}

	output.ProjectDetail(os.Stdout, p, members)
	return nil
}

func runProjectDelete(_ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	p, err := st.DeleteProject(id)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "deleted",
			"id":     p.ID,
			"name":   p.Name,
		})
	}

	output.Messagef(os.Stdout, "Deleted project #%d: %s", p.ID, p.Name)
	return nil
}
