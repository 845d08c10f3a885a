package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gantryworks/gantry/internal/tui"
	"github.com/gantryworks/gantry/internal/watcher"
)

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"tui"},
	Short:   "Open the interactive task board",
	Long: `Opens a full-screen board with one column per status. Ready tasks are
marked with an arrow, critical-path tasks with a star. The board
refreshes automatically when workspace files change.`,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

func runBoard(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	model := tui.NewBoard(st)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startBoardWatcher(ctx, model, p)

	_, err = p.Run()
	return err
}

func startBoardWatcher(ctx context.Context, model *tui.Board, p *tea.Program) {
	paths := model.WatchPaths()
	w, err := watcher.New(paths, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		return // non-fatal: the board works without live refresh
	}
	defer w.Close()
	w.Run(ctx, nil)
}
