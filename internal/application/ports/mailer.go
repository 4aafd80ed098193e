package ports

import "context"

// Plantillas de correo conocidas. Cada adaptador las traduce a su identificador
// (EmailJS: service_id + template_id; SMTP: asunto).
const (
	TemplateQuotation = "quotation"
	TemplateContact   = "contact"
)

// MailMessage correo transaccional: la plantilla vive en el proveedor, aquí solo viajan los parámetros.
type MailMessage struct {
	Template string
	To       string
	ToName   string
	Subject  string
	Params   map[string]string
}

// Mailer puerto de salida para el envío de correos. Send es síncrono: un nil
// significa que el proveedor aceptó el mensaje.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}
