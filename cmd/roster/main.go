package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/saturday-roster/internal/calendar"
	"github.com/nhle/saturday-roster/internal/logging"
	"github.com/nhle/saturday-roster/internal/model"
	"github.com/nhle/saturday-roster/internal/session"
	"github.com/nhle/saturday-roster/internal/store"
)

const programName = "roster"

// rootOptions holds the global flags.
type rootOptions struct {
	configFile string
	debug      bool
	month      string

	// now is replaced in tests.
	now func() time.Time
}

// env is what a command runs against: configuration, logger, store and
// session.
type env struct {
	cfg    *model.AppConfig
	logger *zap.Logger
	store  store.Store
	sess   *session.Session
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("closing store", zap.Error(err))
	}
	_ = e.logger.Sync()
}

// openEnv loads the configuration and opens the store and the session.
// The TUI logs to a file so output never lands on the screen.
func (o *rootOptions) openEnv(ctx context.Context, tui bool) (*env, error) {
	cfg, err := model.LoadConfig(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logOpts := logging.Options{Level: cfg.Log.Level, Debug: o.debug}
	if tui {
		logOpts.Path = logging.FilePath(cfg.Data.Dir)
	}
	logger, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}

	statuses, err := cfg.StatusSet()
	if err != nil {
		return nil, fmt.Errorf("roster statuses: %w", err)
	}
	weekday, err := cfg.QualifyingWeekday()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	sess, err := session.Open(ctx, st, session.Options{
		Statuses: statuses,
		Resolver: &calendar.Resolver{Weekday: weekday},
		Logger:   logger,
		Now:      o.now,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	logger.Debug("environment ready",
		zap.String("data_dir", cfg.Data.Dir),
		zap.String("backend", cfg.Data.Backend),
	)
	return &env{cfg: cfg, logger: logger, store: st, sess: sess}, nil
}

// targetMonth returns the month selected by --month, or the current one.
func (o *rootOptions) targetMonth() (year, month int, err error) {
	if o.month != "" {
		return calendar.ParseMonthKey(o.month)
	}
	t := o.now()
	return t.Year(), int(t.Month()), nil
}

// run opens the environment, activates the target month when month is set,
// and calls fn.
func (o *rootOptions) run(cmd *cobra.Command, month bool, fn func(ctx context.Context, e *env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	e, err := o.openEnv(ctx, false)
	if err != nil {
		return err
	}
	defer e.close()

	if month {
		year, m, err := o.targetMonth()
		if err != nil {
			return err
		}
		if err := e.sess.Activate(ctx, year, m); err != nil {
			return err
		}
	}
	return fn(ctx, e)
}

// runOnDate activates the month that contains date, ignoring --month.
func (o *rootOptions) runOnDate(cmd *cobra.Command, date string, fn func(ctx context.Context, e *env, date string) error) error {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return err
	}
	return o.run(cmd, false, func(ctx context.Context, e *env) error {
		if err := e.sess.Activate(ctx, d.Year(), int(d.Month())); err != nil {
			return err
		}
		return fn(ctx, e, calendar.ISO(d))
	})
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{now: time.Now}

	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Saturday duty roster",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().
		StringVar(&opts.configFile, "config", model.DefaultConfigPath(), "path to config file")
	rootCmd.PersistentFlags().
		BoolVarP(&opts.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVarP(&opts.month, "month", "m", "", "month to work on, YYYY-MM (default: current month)")

	// Subcommands
	rootCmd.AddCommand(tuiCommand(opts))
	rootCmd.AddCommand(memberCommand(opts))
	rootCmd.AddCommand(showCommand(opts))
	rootCmd.AddCommand(closeCommand(opts, true))
	rootCmd.AddCommand(closeCommand(opts, false))
	rootCmd.AddCommand(moveCommand(opts))
	rootCmd.AddCommand(repairCommand(opts))
	rootCmd.AddCommand(summaryCommand(opts))
	rootCmd.AddCommand(scheduleCommand(opts))
	rootCmd.AddCommand(exportCommand(opts))
	rootCmd.AddCommand(importCommand(opts))
	rootCmd.AddCommand(noteCommand(opts))
	rootCmd.AddCommand(mailCommand(opts))
	rootCmd.AddCommand(configCommand(opts))

	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		var perr *session.PersistError
		if errors.As(err, &perr) {
			fmt.Fprintf(os.Stderr, "%s: changes were applied but not saved: %v\n", programName, err)
		} else {
			fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		}
		os.Exit(1)
	}
}
