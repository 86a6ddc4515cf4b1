// Package mailout packages a month's reports as a MIME message and files it
// in an IMAP drafts folder.
package mailout

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-message/mail"
	"golang.org/x/sync/errgroup"

	"github.com/nhle/saturday-roster/internal/render"
)

// Envelope holds the addressing of a report message.
type Envelope struct {
	From    string
	To      []string
	Subject string
	Date    time.Time
}

// Attachment is one rendered report file.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Attachments renders the summary CSV, the summary PDF and the schedule PDF
// of r. The three renders share nothing and run concurrently.
func Attachments(r render.Report) ([]Attachment, error) {
	var csvBuf, summaryBuf, scheduleBuf bytes.Buffer

	var g errgroup.Group
	g.Go(func() error {
		if err := render.SummaryCSV(&csvBuf, r.Rows, r.Statuses); err != nil {
			return fmt.Errorf("rendering summary csv: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := render.SummaryPDF(&summaryBuf, r); err != nil {
			return fmt.Errorf("rendering summary pdf: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := render.SchedulePDF(&scheduleBuf, r); err != nil {
			return fmt.Errorf("rendering schedule pdf: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return []Attachment{
		{Filename: r.FileStem(render.SummaryStem) + ".csv", ContentType: "text/csv", Data: csvBuf.Bytes()},
		{Filename: r.FileStem(render.SummaryStem) + ".pdf", ContentType: "application/pdf", Data: summaryBuf.Bytes()},
		{Filename: r.FileStem(render.ScheduleStem) + ".pdf", ContentType: "application/pdf", Data: scheduleBuf.Bytes()},
	}, nil
}

// DefaultSubject is used when the envelope has none.
func DefaultSubject(r render.Report) string {
	return "Escala de Sábados - " + r.Period()
}

// Compose builds a multipart message whose text body is the month outline
// and whose attachments are the rendered reports.
func Compose(r render.Report, env Envelope) ([]byte, error) {
	var h mail.Header
	if env.Date.IsZero() {
		env.Date = time.Now()
	}
	h.SetDate(env.Date)
	if env.Subject == "" {
		env.Subject = DefaultSubject(r)
	}
	h.SetSubject(env.Subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generating message id: %w", err)
	}

	if env.From != "" {
		from, err := mail.ParseAddress(env.From)
		if err != nil {
			return nil, fmt.Errorf("parsing from address %q: %w", env.From, err)
		}
		h.SetAddressList("From", []*mail.Address{from})
	}
	if len(env.To) > 0 {
		to := make([]*mail.Address, 0, len(env.To))
		for _, addr := range env.To {
			a, err := mail.ParseAddress(addr)
			if err != nil {
				return nil, fmt.Errorf("parsing to address %q: %w", addr, err)
			}
			to = append(to, a)
		}
		h.SetAddressList("To", to)
	}

	attachments, err := Attachments(r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating message writer: %w", err)
	}

	if err := writeText(mw, render.Outline(r)); err != nil {
		return nil, err
	}
	for _, a := range attachments {
		if err := writeAttachment(mw, a); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing message: %w", err)
	}
	return buf.Bytes(), nil
}

func writeText(mw *mail.Writer, body string) error {
	iw, err := mw.CreateInline()
	if err != nil {
		return fmt.Errorf("creating inline part: %w", err)
	}

	var th mail.InlineHeader
	th.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	w, err := iw.CreatePart(th)
	if err != nil {
		return fmt.Errorf("creating text part: %w", err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		return fmt.Errorf("writing text part: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing text part: %w", err)
	}
	return iw.Close()
}

func writeAttachment(mw *mail.Writer, a Attachment) error {
	var ah mail.AttachmentHeader
	ah.SetContentType(a.ContentType, nil)
	ah.SetFilename(a.Filename)

	w, err := mw.CreateAttachment(ah)
	if err != nil {
		return fmt.Errorf("creating attachment %s: %w", a.Filename, err)
	}
	if _, err := w.Write(a.Data); err != nil {
		return fmt.Errorf("writing attachment %s: %w", a.Filename, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing attachment %s: %w", a.Filename, err)
	}
	return nil
}
