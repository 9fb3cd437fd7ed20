package main

import (
	"github.com/spf13/cobra"

	"name-recon/internal/logger"
)

func newReplayCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "replay",
		Short: "Re-apply every relation to the saved mappings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(o)
			if err != nil {
				return err
			}
			mappings, err := ws.propose(ws.engine.Replay)
			if err != nil {
				return err
			}
			if err := ws.export(mappings); err != nil {
				return err
			}

			logger.Info("Replay complete: %d mappings", mappings.Len())
			return nil
		},
	}
}
