package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/output"
)

var analyzeCmd = &cobra.Command{
	Use:     "analyze",
	Aliases: []string{"critical-path"},
	Short:   "Analyze the dependency graph",
	Long: `Computes the critical path and per-task schedules over the blocks
graph: earliest/latest start and finish in hours from now, and slack.
Tasks with zero slack sit on the critical path; they are the ones
where delay pushes the whole schedule.`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	g, warnings, err := st.Snapshot()
	if err != nil {
		return err
	}
	printWarnings(warnings)

	a, err := g.Analyze()
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, a)
	}

	output.AnalysisTable(os.Stdout, a, g)
	return nil
}
