// Package mail envía los correos programados por SMTP usando gomail.
package mail

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/grocery-api/internal/application/ports"
	"github.com/jhoicas/grocery-api/pkg/config"
)

var _ ports.Mailer = (*SMTPSender)(nil)

// SMTPSender implementa ports.Mailer con una conexión SMTP por envío.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender construye el remitente a partir de la configuración SMTP.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send entrega el mensaje. Si ctx vence antes de que el servidor responda se devuelve ctx.Err();
// el envío en curso no se puede abortar y termina en segundo plano.
func (s *SMTPSender) Send(ctx context.Context, mail ports.Mail) error {
	msg := buildMessage(s.from, mail)
	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", mail.To, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMessage(from string, mail ports.Mail) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", mail.To)
	msg.SetHeader("Subject", mail.Subject)
	contentType := "text/plain"
	if mail.HTML {
		contentType = "text/html"
	}
	msg.SetBody(contentType, mail.Body)

	for _, a := range mail.Attachments {
		data := a.Data
		msg.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}
	return msg
}
