package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/output"
	"github.com/gantryworks/gantry/internal/parse"
)

var parseCmd = &cobra.Command{
	Use:   "parse [TEXT]",
	Short: "Draft a task from requirement text",
	Long: `Runs the rule-driven requirement parser over free-form text and prints
the resulting task draft with a complexity analysis. Text comes from
the argument or stdin. Parsing never fails; thin input yields a
low-confidence placeholder draft. Use --create to persist the draft as
a pending task.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("context", "", "extra context weighed for priority, tags, and requirements")
	parseCmd.Flags().Bool("create", false, "create a task from the draft")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	text, err := parseInput(args)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	contextText, _ := cmd.Flags().GetString("context")
	res := parse.Parse(st.Config().Parser, text, contextText)

	create, _ := cmd.Flags().GetBool("create")
	if !create {
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, res)
		}
		output.ParseResult(os.Stdout, res)
		return nil
	}

	t, err := st.CreateTask(res.Draft.Task())
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"task":                t,
			"complexity_analysis": res.Complexity,
			"low_confidence":      res.LowConfidence,
		})
	}

	output.ParseResult(os.Stdout, res)
	output.Messagef(os.Stdout, "Created task #%d: %s", t.ID, t.Title)
	return nil
}

// parseInput takes the text from the argument, or from stdin when
// piped in.
func parseInput(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
