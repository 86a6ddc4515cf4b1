package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/saturday-roster/internal/session"
)

func memberCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "member",
		Aliases: []string{"members"},
		Short:   "Manage the registered members",
	}
	cmd.AddCommand(memberAddCommand(opts))
	cmd.AddCommand(memberRemoveCommand(opts))
	cmd.AddCommand(memberListCommand(opts))
	return cmd
}

func memberAddCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>...",
		Short: "Register members and place them on the month's default status",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, true, func(ctx context.Context, e *env) error {
				out := cmd.OutOrStdout()
				for _, name := range args {
					res, err := e.sess.AddMember(ctx, name)
					if err != nil {
						return err
					}
					switch res {
					case session.Added:
						fmt.Fprintf(out, "added %s\n", name)
					case session.Duplicate:
						fmt.Fprintf(out, "%s is already registered\n", name)
					case session.Blank:
						fmt.Fprintln(out, "skipping blank name")
					}
				}
				return nil
			})
		},
	}
}

func memberRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Unregister a member",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, true, func(ctx context.Context, e *env) error {
				removed, err := e.sess.RemoveMember(ctx, args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("%w: %s", session.ErrUnknownMember, args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
				return nil
			})
		},
	}
}

func memberListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered members in registration order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, false, func(_ context.Context, e *env) error {
				for _, name := range e.sess.Members() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}
}
