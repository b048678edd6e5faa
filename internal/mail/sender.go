package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"io"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("smtp is not configured")

// Sender delivers a message with the given settings.
type Sender interface {
	Send(ctx context.Context, settings *Settings, msg Message) error
}

// SMTPSender sends through an SMTP server. Secure selects implicit TLS;
// otherwise STARTTLS is used when the server offers it.
type SMTPSender struct {
	logger *zap.Logger
}

func NewSMTPSender(logger *zap.Logger) *SMTPSender {
	return &SMTPSender{logger: logger.Named("mail")}
}

func (s *SMTPSender) Send(ctx context.Context, settings *Settings, msg Message) error {
	if !settings.Usable() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	d := gomail.NewDialer(settings.Host, settings.Port, settings.User, settings.Pass)
	d.SSL = settings.Secure
	d.TLSConfig = &tls.Config{ServerName: settings.Host, MinVersion: tls.VersionTLS12}

	if err := d.DialAndSend(build(settings.From, msg)); err != nil {
		s.logger.Error("failed to send email",
			zap.String("to", msg.To),
			zap.String("host", settings.Host),
			zap.Error(err))
		return err
	}

	s.logger.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("source", string(settings.Source)))
	return nil
}

func build(from string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	for _, a := range msg.Attachments {
		data := a.Data
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}))
		}
		m.Attach(a.Name, settings...)
	}
	return m
}
