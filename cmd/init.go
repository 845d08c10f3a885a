package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/clierr"
	"github.com/gantryworks/gantry/internal/config"
	"github.com/gantryworks/gantry/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new workspace",
	Long: `Creates a gantry workspace directory with config.yml and the tasks/,
projects/, and triggers/ subdirectories.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("name", "", "workspace name (defaults to current directory name)")
	initCmd.Flags().String("description", "", "workspace description")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = os.Getenv("GANTRY_DIR")
	}
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	// Check if already initialized.
	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.WorkspaceExists, "workspace already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	cfg, err := config.Init(absDir, name)
	if err != nil {
		return err
	}

	if desc, _ := cmd.Flags().GetString("description"); desc != "" {
		cfg.Workspace.Description = desc
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
	}

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":   "initialized",
			"dir":      absDir,
			"name":     name,
			"config":   cfg.ConfigPath(),
			"tasks":    cfg.TasksPath(),
			"projects": cfg.ProjectsPath(),
			"triggers": cfg.TriggersPath(),
		})
	}

	output.Messagef(os.Stdout, "Initialized workspace %q in %s", name, absDir)
	output.Messagef(os.Stdout, "  Config:   %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Tasks:    %s", cfg.TasksPath())
	output.Messagef(os.Stdout, "  Projects: %s", cfg.ProjectsPath())
	output.Messagef(os.Stdout, "  Triggers: %s", cfg.TriggersPath())
	return nil
}
