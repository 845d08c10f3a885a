package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/clierr"
	"github.com/gantryworks/gantry/internal/output"
	"github.com/gantryworks/gantry/internal/trigger"
)

var triggerCmd = &cobra.Command{
	Use:     "trigger",
	Aliases: []string{"triggers"},
	Short:   "Manage workflow triggers",
	Long: `Creates and inspects workflow trigger records. A trigger requests one
external workflow run for a task; at most one active trigger exists
per task and type. Run 'gantry dispatch' to execute pending triggers.`,
}

var triggerCreateCmd = &cobra.Command{
	Use:   "create TASK TYPE",
	Short: "Create a workflow trigger",
	Long: `Queues a pending trigger of the given type for a task. Re-issuing an
identical request returns the existing record unchanged; the same type
with a different --config is rejected while the original is active.`,
	Args: cobra.ExactArgs(2), //nolint:mnd // task id and type
	RunE: runTriggerCreate,
}

var triggerListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List triggers",
	RunE:    runTriggerList,
}

var triggerShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show trigger details",
	Long:  `Displays one trigger by full id or unique id prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTriggerShow,
}

var triggerCancelCmd = &cobra.Command{
	Use:   "cancel ID",
	Short: "Cancel a pending trigger",
	Long: `Cancels a trigger that has not been dispatched yet. Anything past
pending is either in flight or settled and can only be observed.`,
	Args: cobra.ExactArgs(1),
	RunE: runTriggerCancel,
}

func init() {
	triggerCreateCmd.Flags().StringToString("config", nil, "executor configuration (key=value, repeatable)")
	triggerListCmd.Flags().Int("task", 0, "filter by task id")
	triggerListCmd.Flags().String("status", "", "filter by trigger status")
	triggerCmd.AddCommand(triggerCreateCmd)
	triggerCmd.AddCommand(triggerListCmd)
	triggerCmd.AddCommand(triggerShowCmd)
	triggerCmd.AddCommand(triggerCancelCmd)
	rootCmd.AddCommand(triggerCmd)
}

func runTriggerCreate(cmd *cobra.Command, args []string) error {
	taskID, err := parseID(args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	triggerConfig, _ := cmd.Flags().GetStringToString("config")
	tr, existing, err := st.CreateTrigger(taskID, args[1], triggerConfig)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"trigger": tr, "existing": existing})
	}

	if existing {
		output.Messagef(os.Stdout, "Trigger already active: %s (%s for task #%d)", tr.ID, tr.Type, tr.TaskID)
		return nil
	}
	output.Messagef(os.Stdout, "Created trigger %s: %s for task #%d", tr.ID, tr.Type, tr.TaskID)
	return nil
}

func runTriggerList(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	triggers, err := st.ListTriggers()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("task") {
		taskID, _ := cmd.Flags().GetInt("task")
		triggers = filterTriggers(triggers, func(tr *trigger.Trigger) bool { return tr.TaskID == taskID })
	}
	if status, _ := cmd.Flags().GetString("status"); status != "" {
		if !slices.Contains(trigger.Statuses, status) {
			return clierr.Newf(clierr.InvalidInput, "invalid trigger status %q; valid: %s",
				status, strings.Join(trigger.Statuses, ", "))
		}
		triggers = filterTriggers(triggers, func(tr *trigger.Trigger) bool { return tr.Status == status })
	}

	format := outputFormat()
	if format == output.FormatJSON {
		if triggers == nil {
			triggers = []*trigger.Trigger{} // empty array, not null
		}
		return output.JSON(os.Stdout, triggers)
	}
	if format == output.FormatCompact {
		output.TriggerCompact(os.Stdout, triggers)
		return nil
	}

	output.TriggerTable(os.Stdout, triggers)
	return nil
}

func filterTriggers(triggers []*trigger.Trigger, keep func(*trigger.Trigger) bool) []*trigger.Trigger {
	out := triggers[:0]
	for _, tr := range triggers {
		if keep(tr) {
			out = append(out, tr)
		}
	}
	return out
}

func runTriggerShow(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	tr, err := st.GetTrigger(args[0])
	if err != nil {
		return err
	}

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, tr)
	}
	if format == output.FormatCompact {
		output.TriggerCompact(os.Stdout, []*trigger.Trigger{tr})
		return nil
	}

	output.TriggerDetail(os.Stdout, tr)
	return nil
}

func runTriggerCancel(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	// Resolve a possible id prefix before the guarded cancel.
	tr, err := st.GetTrigger(args[0])
	if err != nil {
		return err
	}

	cancelled, err := st.CancelTrigger(tr.ID)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, cancelled)
	}

	output.Messagef(os.Stdout, "Cancelled trigger %s (%s for task #%d)", cancelled.ID, cancelled.Type, cancelled.TaskID)
	return nil
}
