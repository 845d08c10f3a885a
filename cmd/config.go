package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/clierr"
	"github.com/gantryworks/gantry/internal/config"
	"github.com/gantryworks/gantry/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify workspace configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"workspace.name": {
			get:      func(c *config.Config) any { return c.Workspace.Name },
			set:      func(c *config.Config, v string) error { c.Workspace.Name = v; return nil },
			writable: true,
		},
		"workspace.description": {
			get:      func(c *config.Config) any { return c.Workspace.Description },
			set:      func(c *config.Config, v string) error { c.Workspace.Description = v; return nil },
			writable: true,
		},
		"tasks_dir": {
			get: func(c *config.Config) any { return c.TasksDir },
		},
		"projects_dir": {
			get: func(c *config.Config) any { return c.ProjectsDir },
		},
		"triggers_dir": {
			get: func(c *config.Config) any { return c.TriggersDir },
		},
		"parser.title_max_len": {
			get:      func(c *config.Config) any { return c.Parser.TitleMaxLen },
			set:      setIntKey(func(c *config.Config, n int) { c.Parser.TitleMaxLen = n }),
			writable: true,
		},
		"dispatch.workers": {
			get:      func(c *config.Config) any { return c.Dispatch.Workers },
			set:      setIntKey(func(c *config.Config, n int) { c.Dispatch.Workers = n }),
			writable: true,
		},
		"dispatch.max_attempts": {
			get:      func(c *config.Config) any { return c.Dispatch.MaxAttempts },
			set:      setIntKey(func(c *config.Config, n int) { c.Dispatch.MaxAttempts = n }),
			writable: true,
		},
		"dispatch.initial_backoff": {
			get:      func(c *config.Config) any { return c.Dispatch.InitialBackoff },
			set:      setDurationKey(func(c *config.Config, v string) { c.Dispatch.InitialBackoff = v }),
			writable: true,
		},
		"dispatch.max_backoff": {
			get:      func(c *config.Config) any { return c.Dispatch.MaxBackoff },
			set:      setDurationKey(func(c *config.Config, v string) { c.Dispatch.MaxBackoff = v }),
			writable: true,
		},
		"dispatch.poll_interval": {
			get:      func(c *config.Config) any { return c.Dispatch.PollInterval },
			set:      setDurationKey(func(c *config.Config, v string) { c.Dispatch.PollInterval = v }),
			writable: true,
		},
		"next_task_id": {
			get: func(c *config.Config) any { return c.NextTaskID },
		},
		"next_project_id": {
			get: func(c *config.Config) any { return c.NextProjectID },
		},
	}
}

// setIntKey wraps an int assignment with input parsing. Range checks
// happen in config validation before saving.
func setIntKey(assign func(*config.Config, int)) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return clierr.Newf(clierr.InvalidInput, "invalid value %q: must be an integer", v)
		}
		assign(c, n)
		return nil
	}
}

// setDurationKey wraps a duration-string assignment with input parsing.
func setDurationKey(assign func(*config.Config, string)) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		if _, err := time.ParseDuration(v); err != nil {
			return clierr.Newf(clierr.InvalidInput, "invalid duration %q: %v", v, err)
		}
		assign(c, v)
		return nil
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"workspace.name",
		"workspace.description",
		"tasks_dir",
		"projects_dir",
		"triggers_dir",
		"parser.title_max_len",
		"dispatch.workers",
		"dispatch.max_attempts",
		"dispatch.initial_backoff",
		"dispatch.max_backoff",
		"dispatch.poll_interval",
		"next_task_id",
		"next_project_id",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadWorkspaceConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	// Table mode: key-value pairs.
	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(os.Stdout, "%-26s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadWorkspaceConfig()
	if err != nil {
		return err
	}

	key := args[0]
	accessors := configAccessors()
	acc, ok := accessors[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}

	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}

	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadWorkspaceConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	accessors := configAccessors()
	acc, ok := accessors[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}

	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, ", ")
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
