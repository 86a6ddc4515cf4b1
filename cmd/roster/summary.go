package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/saturday-roster/internal/render"
)

func summaryCommand(opts *rootOptions) *cobra.Command {
	var csvPath, pdfPath string

	cmd := &cobra.Command{
		Use:   "summary [YYYY-MM]",
		Short: "Tally how many Saturdays each member spent on each status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.monthArg(args); err != nil {
				return err
			}
			return opts.run(cmd, true, func(_ context.Context, e *env) error {
				r, err := e.sess.Report()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()

				if csvPath == "" && pdfPath == "" {
					fmt.Fprintln(out, r.Period())
					fmt.Fprint(out, render.SummaryTable(r.Rows, r.Statuses))
					return nil
				}
				if csvPath != "" {
					err := render.WriteFile(csvPath, func(w io.Writer) error {
						return render.SummaryCSV(w, r.Rows, r.Statuses)
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "wrote %s\n", csvPath)
				}
				if pdfPath != "" {
					err := render.WriteFile(pdfPath, func(w io.Writer) error {
						return render.SummaryPDF(w, r)
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "wrote %s\n", pdfPath)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the summary as CSV to this file")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write the summary as PDF to this file")
	return cmd
}

func scheduleCommand(opts *rootOptions) *cobra.Command {
	var pdfPath string

	cmd := &cobra.Command{
		Use:   "schedule [YYYY-MM]",
		Short: "Write the month's schedule as a PDF",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.monthArg(args); err != nil {
				return err
			}
			return opts.run(cmd, true, func(_ context.Context, e *env) error {
				r, err := e.sess.Report()
				if err != nil {
					return err
				}
				path := pdfPath
				if path == "" {
					path = r.FileStem(render.ScheduleStem) + ".pdf"
				}
				err = render.WriteFile(path, func(w io.Writer) error {
					return render.SchedulePDF(w, r)
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&pdfPath, "pdf", "o", "", "output file (default: escala_sabados_YYYY_MM.pdf)")
	return cmd
}
