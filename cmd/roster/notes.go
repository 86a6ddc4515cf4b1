package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func noteCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "note",
		Aliases: []string{"notes"},
		Short:   "Manage the considerations of a month",
	}
	cmd.AddCommand(noteAddCommand(opts))
	cmd.AddCommand(noteRemoveCommand(opts))
	cmd.AddCommand(noteListCommand(opts))
	return cmd
}

func noteAddCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Attach a consideration to the month",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, true, func(ctx context.Context, e *env) error {
				note, ok, err := e.sess.AddConsideration(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("consideration text is blank")
				}
				fmt.Fprintln(cmd.OutOrStdout(), note.ID)
				return nil
			})
		},
	}
}

func noteRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a consideration by id",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, true, func(ctx context.Context, e *env) error {
				removed, err := e.sess.RemoveConsideration(ctx, args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("no consideration with id %s", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
				return nil
			})
		},
	}
}

func noteListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the month's considerations, oldest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, true, func(_ context.Context, e *env) error {
				notes, err := e.sess.Considerations()
				if err != nil {
					return err
				}
				for _, n := range notes {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n",
						n.ID, n.CreatedAt.Format("02/01/2006 15:04"), n.Text)
				}
				return nil
			})
		},
	}
}
