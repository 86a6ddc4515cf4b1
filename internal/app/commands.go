package app

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"github.com/nhle/saturday-roster/internal/calendar"
	"github.com/nhle/saturday-roster/internal/render"
	"github.com/nhle/saturday-roster/internal/session"
	"github.com/nhle/saturday-roster/internal/transfer"
	"github.com/nhle/saturday-roster/internal/ui/command"
)

// executeCommand handles a command from the command palette.
func (m *Model) executeCommand(cmd command.CommandMsg) tea.Cmd {
	switch cmd.Name {
	case "quit", "q":
		return tea.Quit

	case "month", "m":
		year, month, err := calendar.ParseMonthKey(cmd.Arg())
		if err != nil {
			return reportStatus("", fmt.Errorf("month %q: %w", cmd.Arg(), err))
		}
		return m.activate(year, month)

	case "export":
		return m.exportPackage(cmd.Arg())

	case "import":
		if cmd.Arg() == "" {
			return reportStatus("", fmt.Errorf("import needs a file path"))
		}
		return m.confirmImport(cmd.Arg())

	case "csv":
		return m.writeReport(cmd.Arg(), render.SummaryStem, ".csv", func(w io.Writer, r render.Report) error {
			return render.SummaryCSV(w, r.Rows, r.Statuses)
		})

	case "pdf":
		return m.writeReport(cmd.Arg(), render.SummaryStem, ".pdf", render.SummaryPDF)

	case "schedule":
		return m.writeReport(cmd.Arg(), render.ScheduleStem, ".pdf", render.SchedulePDF)

	case "draft":
		return m.draftMail()

	case "repair":
		return m.guard.run(func(ctx context.Context, s *session.Session) tea.Msg {
			n, err := s.ReconcileAll(ctx)
			msg := snapshotMonth(s, err)
			msg.status = fmt.Sprintf("Reconciled %d months", n)
			return msg
		})

	default:
		return reportStatus("", fmt.Errorf("unknown command %q", cmd.Name))
	}
}

func reportStatus(text string, err error) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, err: err} }
}

// writeReport renders the active month to path, or to the month's default
// file name when path is empty.
func (m *Model) writeReport(path, stem, ext string, fn func(io.Writer, render.Report) error) tea.Cmd {
	logger := m.logger
	return m.guard.run(func(_ context.Context, s *session.Session) tea.Msg {
		r, err := s.Report()
		if err != nil {
			return statusMsg{err: err}
		}
		if path == "" {
			path = r.FileStem(stem) + ext
		}
		err = render.WriteFile(path, func(w io.Writer) error { return fn(w, r) })
		if err != nil {
			logger.Error("report failed", zap.String("path", path), zap.Error(err))
			return statusMsg{err: err}
		}
		logger.Info("report written", zap.String("path", path))
		return statusMsg{text: "Wrote " + path}
	})
}

// exportPackage writes the whole state as a transfer package.
func (m *Model) exportPackage(path string) tea.Cmd {
	logger, now := m.logger, m.now
	return m.guard.run(func(_ context.Context, s *session.Session) tea.Msg {
		raw, err := transfer.Encode(s.Export())
		if err != nil {
			return statusMsg{err: err}
		}
		if path == "" {
			path = transfer.FileName(now())
		}
		err = render.WriteFile(path, func(w io.Writer) error {
			_, err := w.Write(raw)
			return err
		})
		if err != nil {
			return statusMsg{err: err}
		}
		logger.Info("package exported", zap.String("path", path))
		return statusMsg{text: "Exported to " + path}
	})
}

// confirmImport asks before replacing everything with the package at path.
func (m *Model) confirmImport(path string) tea.Cmd {
	m.confirm.path = path
	m.confirm.ok = false
	m.confirmForm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Import %s?", path)).
				Description("Members, every month and every consideration will be replaced.").
				Affirmative("Yes, replace").
				Negative("Cancel").
				Value(&m.confirm.ok),
		),
	).WithWidth(60)
	m.previousView = m.currentView
	m.currentView = ViewConfirm
	return m.confirmForm.Init()
}

// importPackage replaces the state with the package at path and activates
// the month that was shown, which reconciles it.
func (m *Model) importPackage(path string) tea.Cmd {
	logger := m.logger
	return m.guard.run(func(ctx context.Context, s *session.Session) tea.Msg {
		raw, err := os.ReadFile(path)
		if err != nil {
			return statusMsg{err: fmt.Errorf("reading %s: %w", path, err)}
		}
		year, month, active := s.Active()

		res, err := s.Import(ctx, raw)
		if err != nil {
			return statusMsg{err: err}
		}
		if active {
			err = s.Activate(ctx, year, month)
		}
		logger.Info("package imported from file", zap.String("path", path))

		msg := snapshotMonth(s, err)
		msg.status = fmt.Sprintf("Imported %d members, %d months, %d considerations",
			res.Members, res.Months, res.Considerations)
		return msg
	})
}

// draftMail files the active month's reports as an IMAP draft.
func (m *Model) draftMail() tea.Cmd {
	draft := m.draft
	if draft == nil {
		return reportStatus("", fmt.Errorf("mail is not configured"))
	}
	return m.guard.run(func(ctx context.Context, s *session.Session) tea.Msg {
		r, err := s.Report()
		if err != nil {
			return statusMsg{err: err}
		}
		if err := draft(ctx, r); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: "Draft saved for " + r.Period()}
	})
}
