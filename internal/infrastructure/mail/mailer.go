// Package mail implementa ports.Mailer: EmailJS (por defecto) y SMTP.
package mail

import (
	"fmt"

	"github.com/jhoicas/catalogo-api/internal/application/ports"
	"github.com/jhoicas/catalogo-api/pkg/config"
)

// New elige el adaptador según MAIL_DRIVER.
func New(cfg config.MailConfig) (ports.Mailer, error) {
	switch cfg.Driver {
	case "", "emailjs":
		return NewEmailJSClient(cfg.EmailJSBaseURL, cfg.EmailJSPublicKey, cfg.EmailJSPrivateKey, map[string]Template{
			ports.TemplateQuotation: {ServiceID: cfg.QuotationServiceID, TemplateID: cfg.QuotationTemplateID},
			ports.TemplateContact:   {ServiceID: cfg.ContactServiceID, TemplateID: cfg.ContactTemplateID},
		}), nil
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("mail: SMTP_HOST requerido con MAIL_DRIVER=smtp")
		}
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.From), nil
	}
	return nil, fmt.Errorf("mail: driver desconocido %q", cfg.Driver)
}
