package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/graph"
	"github.com/gantryworks/gantry/internal/output"
)

var depCmd = &cobra.Command{
	Use:     "dep",
	Aliases: []string{"deps"},
	Short:   "Manage dependencies between tasks",
	Long: `Adds, removes, and lists typed dependency edges. A blocks edge means
the first task must reach completed or cancelled before the second is
ready; related carries no ordering. Additions that would close a cycle
are rejected.`,
}

var depAddCmd = &cobra.Command{
	Use:   "add FROM TO",
	Short: "Add a dependency edge",
	Long: `Records an edge between two tasks. With the default type, #FROM blocks
#TO; type blocked_by flips the direction. Re-adding an existing edge
is a no-op.`,
	Args: cobra.ExactArgs(2), //nolint:mnd // from and to
	RunE: runDepAdd,
}

var depRemoveCmd = &cobra.Command{
	Use:     "remove FROM TO",
	Aliases: []string{"rm"},
	Short:   "Remove a dependency edge",
	Args:    cobra.ExactArgs(2), //nolint:mnd // from and to
	RunE:    runDepRemove,
}

var depListCmd = &cobra.Command{
	Use:   "list [ID]",
	Short: "List dependency edges",
	Long:  `Lists all edges, or with an ID only the edges touching that task.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDepList,
}

func init() {
	depAddCmd.Flags().String("type", graph.TypeBlocks, "edge type ("+strings.Join(graph.Types, ", ")+")")
	depRemoveCmd.Flags().String("type", graph.TypeBlocks, "edge type ("+strings.Join(graph.Types, ", ")+")")
	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRemoveCmd)
	depCmd.AddCommand(depListCmd)
	rootCmd.AddCommand(depCmd)
}

func runDepAdd(cmd *cobra.Command, args []string) error {
	from, to, err := parseEdgeArgs(args)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	edgeType, _ := cmd.Flags().GetString("type")
	e, existing, err := st.AddDependency(from, to, edgeType)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"edge": e, "existing": existing})
	}

	if existing {
		output.Messagef(os.Stdout, "Dependency already recorded: %s", e)
		return nil
	}
	output.Messagef(os.Stdout, "Added dependency: %s", e)
	return nil
}

func runDepRemove(cmd *cobra.Command, args []string) error {
	from, to, err := parseEdgeArgs(args)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	edgeType, _ := cmd.Flags().GetString("type")
	e, err := st.RemoveDependency(from, to, edgeType)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"edge": e, "removed": true})
	}

	output.Messagef(os.Stdout, "Removed dependency: %s", e)
	return nil
}

func runDepList(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	g, warnings, err := st.Snapshot()
	if err != nil {
		return err
	}
	printWarnings(warnings)

	edges, err := st.Edges()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		kept := edges[:0]
		for _, e := range edges {
			if e.From == id || e.To == id {
				kept = append(kept, e)
			}
		}
		edges = kept
	}

	if outputFormat() == output.FormatJSON {
		if edges == nil {
			edges = []graph.Edge{} // empty array, not null
		}
		return output.JSON(os.Stdout, edges)
	}

	output.EdgeTable(os.Stdout, edges, g)
	return nil
}

func parseEdgeArgs(args []string) (int, int, error) {
	from, err := parseID(args[0])
	if err != nil {
		return 0, 0, err
	}
	to, err := parseID(args[1])
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}
