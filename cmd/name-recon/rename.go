package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"name-recon/internal/exporter"
	"name-recon/internal/logger"
	"name-recon/internal/model"
	"name-recon/internal/naming"
	"name-recon/internal/proposal"
)

func newRenameCmd(o *options) *cobra.Command {
	var clearName bool

	cmd := &cobra.Command{
		Use:   "rename <entry> [name]",
		Short: "Rename one entry and propagate the change",
		Long: `Record a user rename and propagate it to every related entry.
The saved mappings are replayed first so derived names are current.

Entries are written as:
  class a/B
  field a/B.c:I
  method a/B.d(I)V
  local a/B.d(I)V#1

Examples:
  name-recon rename "field a/A.b:I" count
  name-recon rename "method a/A.m1()I" --clear`,
		Args: func(cmd *cobra.Command, args []string) error {
			if clearName {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := model.ParseEntry(args[0])
			if err != nil {
				return err
			}
			newName := ""
			if !clearName {
				newName = args[1]
				if !naming.IsValidIdentifier(newName) {
					return fmt.Errorf("%q: %w", newName, proposal.ErrInvalidName)
				}
			}

			ws, err := openWorkspace(o)
			if err != nil {
				return err
			}
			if !ws.indices.Entries.Contains(entry) {
				return fmt.Errorf("unknown entry: %s", model.FormatEntry(entry))
			}

			mappings, err := ws.propose(func() (*model.Mappings, error) {
				replayed, err := ws.engine.Replay()
				if err != nil {
					return nil, err
				}
				return ws.engine.OnRename(entry, replayed.Name(entry), newName)
			})
			if err != nil {
				return err
			}

			diff, err := exporter.Diff(ws.previous, mappings)
			if err != nil {
				return err
			}
			if diff == "" {
				logger.Info("No mapping changed")
			} else {
				fmt.Fprint(o.out, diff)
			}

			return ws.export(mappings)
		},
	}

	cmd.Flags().BoolVar(&clearName, "clear", false, "Remove the entry's name instead of setting one")
	return cmd
}
