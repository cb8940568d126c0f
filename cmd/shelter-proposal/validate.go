package main

import (
	"fmt"

	"github.com/iwvelando/shelter-proposal/internal/recompute"
	"github.com/spf13/cobra"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the proposal configuration and its default snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader, conf, logger, model, err := root.load()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			out := cmd.OutOrStdout()
			source := loader.Path()
			if source == "" {
				source = "built-in proposal"
			}

			snapshot := model.DefaultSnapshot()
			if err := model.Validate(snapshot); err != nil {
				return fmt.Errorf("default snapshot is invalid: %w", err)
			}
			if _, err := recompute.Run(logger, model, snapshot); err != nil {
				return fmt.Errorf("default snapshot does not recompute: %w", err)
			}

			warnings := conf.ValidateConfiguration()
			fmt.Fprintf(out, "✓ %s is valid (%d inputs, %d timeline phases)\n", source, len(model.Fields()), len(model.Timeline))
			for _, w := range warnings {
				fmt.Fprintf(out, "! %s\n", w)
			}
			return nil
		},
	}
}
