package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"

	mail "github.com/go-mail/mail"
)

// smtpSender is a Sender backed by a plain SMTP server. Used in development
// and for self-hosted deployments where no Resend account exists.
type smtpSender struct {
	host     string
	port     int
	user     string
	pass     string
	fromAddr string
	fromName string
}

// NewSMTPSender returns a Sender that delivers email over SMTP with STARTTLS.
func NewSMTPSender(host string, port int, user, pass, fromAddr, fromName string) Sender {
	return &smtpSender{
		host:     host,
		port:     port,
		user:     user,
		pass:     pass,
		fromAddr: fromAddr,
		fromName: fromName,
	}
}

// Send builds a multipart message (text + html alternative, plus any
// attachments) and delivers it in one dial. SMTP has no message id to return.
func (s *smtpSender) Send(ctx context.Context, msg Message) (string, error) {
	m := mail.NewMessage()
	m.SetAddressHeader("From", s.fromAddr, s.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else {
		m.SetBody("text/html", msg.HTML)
	}

	for _, a := range msg.Attachments {
		m.Attach(a.Filename,
			mail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(a.Content)
				return err
			}),
			mail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}),
		)
	}

	d := mail.NewDialer(s.host, s.port, s.user, s.pass)
	d.TLSConfig = &tls.Config{ServerName: s.host}

	// go-mail has no context support; honour cancellation around the dial.
	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(m) }()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("email: smtp send: %w", err)
		}
	}

	return "", nil
}
