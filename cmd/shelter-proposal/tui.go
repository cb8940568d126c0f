package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iwvelando/shelter-proposal/internal/tui"
	"github.com/spf13/cobra"
)

func newTUICmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Adjust the proposal interactively in the terminal",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, _, logger, model, err := root.load()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			p := tea.NewProgram(tui.New(logger, model), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("TUI error: %w", err)
			}
			return nil
		},
	}
}
