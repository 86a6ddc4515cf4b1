package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/saturday-roster/internal/credential"
	"github.com/nhle/saturday-roster/internal/mailout"
	"github.com/nhle/saturday-roster/internal/model"
	"github.com/nhle/saturday-roster/internal/render"
)

func mailCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mail",
		Short: "Send the month's reports as an e-mail draft",
	}
	cmd.AddCommand(mailDraftCommand(opts))
	cmd.AddCommand(mailPasswordCommand(opts))
	return cmd
}

func mailDraftCommand(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "draft [YYYY-MM]",
		Short: "File the month's reports in the drafts mailbox",
		Long: `File the month's reports in the drafts mailbox.

The message carries the summary CSV and PDF and the schedule PDF. With
--out the message is written to a file instead of the mail server.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.monthArg(args); err != nil {
				return err
			}
			return opts.run(cmd, true, func(ctx context.Context, e *env) error {
				r, err := e.sess.Report()
				if err != nil {
					return err
				}
				if err := draftReport(ctx, e, r, out); err != nil {
					return err
				}
				if out != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "draft saved to %s\n", e.cfg.Mail.Mailbox)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the message to this .eml file instead")
	return cmd
}

// draftReport composes the message for r and either writes it to out or
// appends it to the configured drafts mailbox.
func draftReport(ctx context.Context, e *env, r render.Report, out string) error {
	msg, err := mailout.Compose(r, envelope(e.cfg.Mail, time.Now()))
	if err != nil {
		return err
	}
	if out != "" {
		if err := os.WriteFile(out, msg, 0o644); err != nil {
			return fmt.Errorf("writing message: %w", err)
		}
		return nil
	}

	password, err := credential.IMAPPassword(e.cfg.Mail.Username)
	if err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			return fmt.Errorf("no password stored for %s: run `%s mail set-password` or set %s",
				e.cfg.Mail.Username, programName, credential.PasswordEnv)
		}
		return err
	}
	d, err := mailout.NewDrafter(e.cfg.Mail, password, e.logger)
	if err != nil {
		return err
	}

	e.logger.Info("filing draft", zap.String("period", r.Period()), zap.Int("bytes", len(msg)))
	return d.Append(ctx, msg, time.Now())
}

// envelope addresses the message from the configured sender, falling back
// to the IMAP user.
func envelope(cfg model.MailConfig, date time.Time) mailout.Envelope {
	from := cfg.From
	if from == "" && strings.Contains(cfg.Username, "@") {
		from = cfg.Username
	}
	return mailout.Envelope{From: from, To: cfg.To, Date: date}
}

func mailPasswordCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-password",
		Short: "Store the IMAP password in the system keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := model.LoadConfig(opts.configFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cfg.Mail.Username == "" {
				return mailout.ErrNotConfigured
			}

			var password string
			err = huh.NewInput().
				Title("IMAP password for " + cfg.Mail.Username).
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("password cannot be empty")
					}
					return nil
				}).
				Value(&password).
				Run()
			if err != nil {
				return err
			}

			if err := credential.SetIMAPPassword(cfg.Mail.Username, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "password saved")
			return nil
		},
	}
}
