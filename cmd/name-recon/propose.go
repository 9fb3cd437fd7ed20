package main

import (
	"github.com/spf13/cobra"

	"name-recon/internal/logger"
)

func newProposeCmd(o *options) *cobra.Command {
	var formats []string

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Run the static proposal round",
		Long: `Index the configured class dumps and propose names for every entry.

Names set by the user in the saved mapping file are kept; previously proposed
names are recomputed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(formats) > 0 {
				o.cfg.Output.Formats = formats
				if err := o.cfg.Validate(); err != nil {
					return err
				}
			}
			printBanner(o.out)

			ws, err := openWorkspace(o)
			if err != nil {
				return err
			}
			mappings, err := ws.propose(ws.engine.RunStatic)
			if err != nil {
				return err
			}
			if err := ws.export(mappings); err != nil {
				return err
			}

			logger.Info("Proposal complete. Check [%s] directory.", o.cfg.Output.Dir)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "Report formats overriding output.formats (yaml,xlsx)")
	return cmd
}
