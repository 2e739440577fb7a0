package ports

import "context"

// Attachment adjunto de un correo.
type Attachment struct {
	Filename string
	Data     []byte
}

// Mail mensaje de salida. HTML indica si Body es text/html o text/plain.
type Mail struct {
	To          string
	Subject     string
	Body        string
	HTML        bool
	Attachments []Attachment
}

// Mailer transporte de correo (SMTP en producción).
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}
