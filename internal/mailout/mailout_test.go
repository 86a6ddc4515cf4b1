package mailout

import (
	"bytes"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-imap/v2/imapserver"
	"github.com/emersion/go-imap/v2/imapserver/imapmemserver"
	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nhle/saturday-roster/internal/calendar"
	"github.com/nhle/saturday-roster/internal/model"
	"github.com/nhle/saturday-roster/internal/render"
	"github.com/nhle/saturday-roster/internal/roster"
	"github.com/nhle/saturday-roster/internal/summary"
)

func sampleReport(t *testing.T) render.Report {
	t.Helper()
	statuses := model.ReferenceStatusSet()
	members := []string{"Ana", "Bob"}
	dates, err := calendar.Saturdays.Resolve(2024, 3)
	require.NoError(t, err)
	days := roster.ReconcileMonth(nil, dates, members, statuses)

	return render.Report{
		Year:     2024,
		Month:    3,
		Statuses: statuses,
		Dates:    dates,
		Days:     days,
		Members:  members,
		Rows:     summary.Summarize(days, dates, members, statuses),
	}
}

func TestComposeMessage(t *testing.T) {
	r := sampleReport(t)
	date := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	raw, err := Compose(r, Envelope{
		From: "Escala <escala@example.com>",
		To:   []string{"equipe@example.com"},
		Date: date,
	})
	require.NoError(t, err)

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	require.NoError(t, err)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Escala de Sábados - Março/2024", subject)

	from, err := mr.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "escala@example.com", from[0].Address)

	got, err := mr.Header.Date()
	require.NoError(t, err)
	assert.True(t, got.Equal(date))

	var body string
	var files []string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			b, err := io.ReadAll(p.Body)
			require.NoError(t, err)
			body = string(b)
		case *mail.AttachmentHeader:
			name, err := h.Filename()
			require.NoError(t, err)
			files = append(files, name)
		}
	}

	assert.Contains(t, body, "Março/2024")
	assert.Equal(t, []string{
		"resumo_status_2024_03.csv",
		"resumo_status_2024_03.pdf",
		"escala_sabados_2024_03.pdf",
	}, files)
}

func TestComposeRejectsBadAddress(t *testing.T) {
	_, err := Compose(sampleReport(t), Envelope{To: []string{"not an address"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing to address")
}

func TestNewDrafterNeedsAccount(t *testing.T) {
	_, err := NewDrafter(model.MailConfig{IMAPHost: "imap.example.com"}, "", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	d, err := NewDrafter(model.MailConfig{IMAPHost: "imap.example.com", Username: "u"}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "993", d.port)
	assert.Equal(t, "Drafts", d.mailbox)
}

// startServer runs an in-memory IMAP server with one user owning a Drafts
// mailbox and returns its address.
func startServer(t *testing.T) string {
	t.Helper()

	user := imapmemserver.NewUser("escala", "secret")
	require.NoError(t, user.Create("Drafts", nil))
	mem := imapmemserver.New()
	mem.AddUser(user)

	srv := imapserver.New(&imapserver.Options{
		NewSession: func(*imapserver.Conn) (imapserver.Session, *imapserver.GreetingData, error) {
			return mem.NewSession(), nil, nil
		},
		Caps: imap.CapSet{
			imap.CapIMAP4rev1: {},
			imap.CapIMAP4rev2: {},
		},
		InsecureAuth: true,
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Close() })

	return ln.Addr().String()
}

func TestDrafterAppend(t *testing.T) {
	addr := startServer(t)
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)

	d, err := NewDrafter(model.MailConfig{
		IMAPHost: host,
		IMAPPort: port,
		Username: "escala",
		Mailbox:  "Drafts",
	}, "secret", zaptest.NewLogger(t))
	require.NoError(t, err)
	d.dial = func(addr string) (*imapclient.Client, error) {
		return imapclient.DialInsecure(addr, nil)
	}

	msg, err := Compose(sampleReport(t), Envelope{From: "escala@example.com"})
	require.NoError(t, err)
	require.NoError(t, d.Append(context.Background(), msg, time.Now()))

	c, err := imapclient.DialInsecure(addr, nil)
	require.NoError(t, err)
	defer func() { _ = c.Logout().Wait() }()
	require.NoError(t, c.Login("escala", "secret").Wait())

	status, err := c.Status("Drafts", &imap.StatusOptions{NumMessages: true}).Wait()
	require.NoError(t, err)
	require.NotNil(t, status.NumMessages)
	assert.EqualValues(t, 1, *status.NumMessages)
}

func TestDrafterWrongPassword(t *testing.T) {
	addr := startServer(t)
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)

	d, err := NewDrafter(model.MailConfig{IMAPHost: host, IMAPPort: port, Username: "escala"}, "wrong", nil)
	require.NoError(t, err)
	d.dial = func(addr string) (*imapclient.Client, error) {
		return imapclient.DialInsecure(addr, nil)
	}

	err = d.Append(context.Background(), []byte("Subject: x\r\n\r\nbody\r\n"), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
}
