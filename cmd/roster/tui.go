package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/saturday-roster/internal/app"
	"github.com/nhle/saturday-roster/internal/render"
	"github.com/nhle/saturday-roster/internal/theme"
)

func tuiCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	e, err := opts.openEnv(ctx, true)
	if err != nil {
		return err
	}
	defer e.close()

	year, month, err := opts.targetMonth()
	if err != nil {
		return err
	}
	if err := theme.Apply(e.cfg.Display.Theme); err != nil {
		return err
	}

	var draft app.DraftFunc
	if e.cfg.Mail.IMAPHost != "" && e.cfg.Mail.Username != "" {
		draft = func(ctx context.Context, r render.Report) error {
			return draftReport(ctx, e, r, "")
		}
	}

	model := app.New(e.sess, app.Options{
		Logger: e.logger,
		Year:   year,
		Month:  month,
		Draft:  draft,
		Now:    opts.now,
	})

	e.logger.Info("tui started", zap.Int("year", year), zap.Int("month", month))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
