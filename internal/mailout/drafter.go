package mailout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"go.uber.org/zap"

	"github.com/nhle/saturday-roster/internal/model"
)

// ErrNotConfigured is returned when the mail section lacks a host or user.
var ErrNotConfigured = errors.New("mail account not configured")

// Drafter files messages in an IMAP mailbox with the \Draft flag.
type Drafter struct {
	host     string
	port     string
	username string
	password string
	tls      bool
	mailbox  string
	logger   *zap.Logger

	// dial connects to addr; it defaults to TLS or STARTTLS per config.
	dial func(addr string) (*imapclient.Client, error)
}

// NewDrafter creates a drafter for the configured account.
func NewDrafter(cfg model.MailConfig, password string, logger *zap.Logger) (*Drafter, error) {
	if cfg.IMAPHost == "" || cfg.Username == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Drafter{
		host:     cfg.IMAPHost,
		port:     cfg.IMAPPort,
		username: cfg.Username,
		password: password,
		tls:      cfg.TLS,
		mailbox:  cfg.Mailbox,
		logger:   logger,
	}
	if d.port == "" {
		d.port = "993"
	}
	if d.mailbox == "" {
		d.mailbox = "Drafts"
	}
	d.dial = func(addr string) (*imapclient.Client, error) {
		if d.tls {
			return imapclient.DialTLS(addr, nil)
		}
		return imapclient.DialStartTLS(addr, nil)
	}
	return d, nil
}

// connect establishes a connection to the IMAP server, authenticates,
// and returns the connected client. The caller is responsible for
// calling Logout on the returned client.
func (d *Drafter) connect(_ context.Context) (*imapclient.Client, error) {
	addr := d.host + ":" + d.port

	client, err := d.dial(addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(d.username, d.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("authentication failed for %s: %w", d.username, err)
	}

	return client, nil
}

// Append stores msg in the drafts mailbox, dated at date.
func (d *Drafter) Append(ctx context.Context, msg []byte, date time.Time) error {
	client, err := d.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Logout().Wait() }()

	cmd := client.Append(d.mailbox, int64(len(msg)), &imap.AppendOptions{
		Flags: []imap.Flag{imap.FlagDraft, imap.FlagSeen},
		Time:  date,
	})
	if _, err := cmd.Write(msg); err != nil {
		return fmt.Errorf("writing message to %s: %w", d.mailbox, err)
	}
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("closing append to %s: %w", d.mailbox, err)
	}
	if _, err := cmd.Wait(); err != nil {
		return fmt.Errorf("appending to %s: %w", d.mailbox, err)
	}

	d.logger.Info("draft appended",
		zap.String("mailbox", d.mailbox),
		zap.Int("bytes", len(msg)),
	)
	return nil
}
