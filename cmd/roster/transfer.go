package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/saturday-roster/internal/transfer"
)

func exportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every member, month and consideration to a package file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, false, func(_ context.Context, e *env) error {
				path := transfer.FileName(opts.now())
				if len(args) == 1 {
					path = args[0]
				}
				raw, err := transfer.Encode(e.sess.Export())
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, raw, 0o644); err != nil {
					return fmt.Errorf("writing package: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", path)
				return nil
			})
		},
	}
}

func importCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all stored data with a package file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading package: %w", err)
			}
			if _, err := transfer.Validate(raw); err != nil {
				return err
			}

			if !yes {
				confirmed := false
				err := huh.NewConfirm().
					Title("Replace all stored data with " + args[0] + "?").
					Description("Members, months and considerations are overwritten. Nothing is merged.").
					Affirmative("Import").
					Negative("Cancel").
					Value(&confirmed).
					Run()
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "import cancelled")
					return nil
				}
			}

			return opts.run(cmd, false, func(ctx context.Context, e *env) error {
				res, err := e.sess.Import(ctx, raw)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d members, %d months, %d considerations (version %d)\n",
					res.Members, res.Months, res.Considerations, res.Version)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
