package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/joy095/taxibooking/config"
	"github.com/joy095/taxibooking/logger"
	gomail "gopkg.in/gomail.v2"
)

const defaultTimeout = 15 * time.Second

// SMTPTransport renders messages with gomail and delivers them over one
// SMTP session per Send, authenticating before the message is written.
type SMTPTransport struct {
	host     string
	port     int
	username string
	password string
	ssl      bool

	fromName   string
	adminEmail string
	timeout    time.Duration
}

// NewSMTPTransport validates cfg and returns a transport for it.
func NewSMTPTransport(cfg config.MailConfig) (*SMTPTransport, error) {
	if missing := cfg.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %v", ErrNotConfigured, missing)
	}
	port, err := cfg.PortNumber()
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP port: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &SMTPTransport{
		host:       cfg.Host,
		port:       port,
		username:   cfg.Username,
		password:   cfg.Password,
		ssl:        cfg.UseSSL(),
		fromName:   cfg.FromName,
		adminEmail: cfg.AdminEmail,
		timeout:    timeout,
	}, nil
}

func (t *SMTPTransport) compose(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", t.username, t.fromName)
	m.SetHeader("To", t.adminEmail)
	if msg.Cc != "" {
		m.SetHeader("Cc", msg.Cc)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)

	for _, a := range msg.Attachments {
		data := a.Data
		m.Attach(a.Name,
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
	}
	return m
}

// session dials and authenticates. Once ctx is done the connection deadline
// is moved into the past, so a stalled exchange fails immediately instead of
// finishing in the background.
func (t *SMTPTransport) session(ctx context.Context) (*smtp.Client, func(), error) {
	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", net.JoinHostPort(t.host, strconv.Itoa(t.port)))
	if err != nil {
		return nil, nil, err
	}
	stop := context.AfterFunc(ctx, func() { _ = raw.SetDeadline(time.Unix(1, 0)) })

	tlsConfig := &tls.Config{ServerName: t.host}
	conn := raw
	if t.ssl {
		conn = tls.Client(raw, tlsConfig)
	}

	c, err := smtp.NewClient(conn, t.host)
	if err != nil {
		stop()
		_ = raw.Close()
		return nil, nil, err
	}
	closeFn := func() {
		stop()
		_ = c.Close()
	}

	if !t.ssl {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsConfig); err != nil {
				closeFn()
				return nil, nil, err
			}
		}
	}
	if ok, mechs := c.Extension("AUTH"); ok {
		if err := c.Auth(t.auth(mechs)); err != nil {
			closeFn()
			return nil, nil, err
		}
	}
	return c, closeFn, nil
}

// auth picks the mechanism the same way gomail's Dialer does.
func (t *SMTPTransport) auth(mechs string) smtp.Auth {
	if strings.Contains(mechs, "CRAM-MD5") {
		return smtp.CRAMMD5Auth(t.username, t.password)
	}
	return smtp.PlainAuth("", t.username, t.password, t.host)
}

func (t *SMTPTransport) recipients(msg Message) []string {
	rcpts := []string{t.adminEmail}
	if msg.Cc != "" {
		rcpts = append(rcpts, msg.Cc)
	}
	return rcpts
}

// Verify dials and authenticates without sending anything.
func (t *SMTPTransport) Verify(ctx context.Context) error {
	return t.withTimeout(ctx, func(ctx context.Context) error {
		c, closeFn, err := t.session(ctx)
		if err != nil {
			return fmt.Errorf("smtp verify: %w", err)
		}
		defer closeFn()
		return c.Quit()
	})
}

// Send implements Transport with a single delivery attempt bounded by the
// transport timeout and ctx.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	m := t.compose(msg)

	return t.withTimeout(ctx, func(ctx context.Context) error {
		logger.InfoLogger.Infof("Attempting to connect to SMTP server: %s:%d", t.host, t.port)

		c, closeFn, err := t.session(ctx)
		if err != nil {
			return fmt.Errorf("smtp verify: %w", err)
		}
		defer closeFn()

		if err := c.Mail(t.username); err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		for _, rcpt := range t.recipients(msg) {
			if err := c.Rcpt(rcpt); err != nil {
				return fmt.Errorf("smtp send: %w", err)
			}
		}
		w, err := c.Data()
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		if _, err := m.WriteTo(w); err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}

		// The server has accepted the message at this point.
		if err := c.Quit(); err != nil {
			logger.WarnLogger.Warnf("SMTP QUIT failed after delivery: %v", err)
		}
		return nil
	})
}

func (t *SMTPTransport) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	err := fn(ctx)
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("smtp: %w: %w", ctx.Err(), err)
	}
	return err
}
