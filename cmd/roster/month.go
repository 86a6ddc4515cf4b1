package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/saturday-roster/internal/calendar"
	"github.com/nhle/saturday-roster/internal/render"
)

func showCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [date]",
		Short: "Print the month's roster, or one date of it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				return opts.runOnDate(cmd, args[0], func(_ context.Context, e *env, date string) error {
					day, err := e.sess.Day(date)
					if err != nil {
						return err
					}
					fmt.Fprint(out, render.DayTable(day, e.sess.Statuses()))
					return nil
				})
			}

			return opts.run(cmd, true, func(_ context.Context, e *env) error {
				r, err := e.sess.Report()
				if err != nil {
					return err
				}
				fmt.Fprint(out, render.Outline(r))
				return nil
			})
		},
	}
}

// closeCommand builds "close" when closed is set and "reopen" otherwise.
func closeCommand(opts *rootOptions, closed bool) *cobra.Command {
	use, short, done := "reopen <date>", "Reopen a date, placing everyone on the default status", "reopened"
	if closed {
		use, short, done = "close <date>", "Mark a date as a holiday with no roster", "closed"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runOnDate(cmd, args[0], func(ctx context.Context, e *env, date string) error {
				if err := e.sess.SetClosed(ctx, date, closed); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", done, date)
				return nil
			})
		},
	}
}

func moveCommand(opts *rootOptions) *cobra.Command {
	var pos int

	cmd := &cobra.Command{
		Use:   "move <date> <member> <status>",
		Short: "Move a member to a status on a date",
		Long: `Move a member to a status on a date.

The status is matched against the configured labels. --pos sets the
member's position in the target list; a negative value appends.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runOnDate(cmd, args[0], func(ctx context.Context, e *env, date string) error {
				day, err := e.sess.Move(ctx, date, args[1], args[2], pos)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), render.DayTable(day, e.sess.Statuses()))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&pos, "pos", -1, "position in the target list (negative appends)")
	return cmd
}

func repairCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Reconcile every stored month against the current members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, false, func(ctx context.Context, e *env) error {
				n, err := e.sess.ReconcileAll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reconciled %d months\n", n)
				return nil
			})
		},
	}
}

// monthArg sets --month from a YYYY-MM positional argument when given.
func (o *rootOptions) monthArg(args []string) error {
	if len(args) == 0 {
		return nil
	}
	if _, _, err := calendar.ParseMonthKey(args[0]); err != nil {
		return err
	}
	o.month = args[0]
	return nil
}
