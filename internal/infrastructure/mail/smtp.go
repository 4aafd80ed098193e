package mail

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/catalogo-api/internal/application/ports"
)

var _ ports.Mailer = (*SMTPSender)(nil)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender envía el correo por SMTP. No hay plantillas: el cuerpo es texto plano
// con los parámetros en formato "clave: valor".
type SMTPSender struct {
	from   string
	dialer sender
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	if from == "" {
		from = user
	}
	return &SMTPSender{from: from, dialer: gomail.NewDialer(host, port, user, password)}
}

func (s *SMTPSender) Send(ctx context.Context, msg ports.MailMessage) error {
	if msg.To == "" {
		return fmt.Errorf("smtp: destinatario vacío")
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	if msg.ToName != "" {
		m.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		m.SetHeader("To", msg.To)
	}
	// el formulario de contacto se responde al visitante
	if replyTo := msg.Params["email"]; msg.Template == ports.TemplateContact && replyTo != "" {
		m.SetHeader("Reply-To", replyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", plainBody(msg.Params))

	// gomail no acepta contexto; al menos no iniciar un envío ya cancelado
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: enviar: %w", err)
	}
	return nil
}

func plainBody(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, params[k])
	}
	return b.String()
}
