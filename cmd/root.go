// Package cmd implements the gantry CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/clierr"
	"github.com/gantryworks/gantry/internal/config"
	"github.com/gantryworks/gantry/internal/output"
	"github.com/gantryworks/gantry/internal/store"
	"github.com/gantryworks/gantry/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "gantry",
	Short: "Task orchestration over a dependency graph",
	Long: `gantry manages a workspace of tasks connected by typed dependencies.
It computes ready frontiers and critical paths over the blocks graph,
drafts tasks from free-form requirement text, and dispatches workflow
triggers to external executors.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to gantry workspace directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// Handle SilentError — exit with code, no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	// Determine if JSON mode is active.
	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv("GANTRY_OUTPUT") == "json"
	}

	if jsonMode {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		// Unknown error — wrap as INTERNAL_ERROR.
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	// Non-JSON mode: print to stderr.
	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// resolveDir returns the path to the workspace directory: the --dir
// flag if set, then GANTRY_DIR, otherwise the nearest workspace at or
// above the working directory.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	if dir := os.Getenv("GANTRY_DIR"); dir != "" {
		return dir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	return config.FindDir(cwd)
}

// loadWorkspaceConfig resolves and loads the workspace config.
func loadWorkspaceConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if errors.Is(err, config.ErrNotFound) {
		return nil, clierr.New(clierr.WorkspaceNotFound, err.Error())
	}
	return cfg, err
}

// openStore resolves the workspace directory and opens a store on it.
func openStore() (*store.Store, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(dir)
	if errors.Is(err, config.ErrNotFound) {
		return nil, clierr.New(clierr.WorkspaceNotFound, err.Error())
	}
	return st, err
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// printWarnings writes task read warnings to stderr.
func printWarnings(warnings []task.ReadWarning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: skipping malformed file %s: %v\n", w.File, w.Err)
	}
}

// parseID converts a positional argument to a numeric entity id.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, task.ValidateTaskID(arg)
	}
	return id, nil
}
