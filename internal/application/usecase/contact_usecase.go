package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/ports"
	"github.com/jhoicas/catalogo-api/internal/domain"
)

// ContactUseCase reenvía el formulario de contacto al buzón de la empresa.
type ContactUseCase struct {
	mailer  ports.Mailer
	company ports.CompanyInfo
	log     zerolog.Logger
}

func NewContactUseCase(mailer ports.Mailer, company ports.CompanyInfo, log zerolog.Logger) *ContactUseCase {
	return &ContactUseCase{mailer: mailer, company: company, log: log}
}

func (uc *ContactUseCase) Send(ctx context.Context, in dto.ContactRequest) error {
	if blank(in.Name) {
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if !validEmail(in.Email) {
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if blank(in.Message) {
		return fmt.Errorf("%w: el mensaje es obligatorio", domain.ErrInvalidInput)
	}
	msg := ports.MailMessage{
		Template: ports.TemplateContact,
		To:       uc.company.Email,
		ToName:   uc.company.Name,
		Subject:  "Contact form: " + strings.TrimSpace(in.Name),
		Params: map[string]string{
			"name":    strings.TrimSpace(in.Name),
			"email":   strings.TrimSpace(in.Email),
			"phone":   strings.TrimSpace(in.Phone),
			"company": strings.TrimSpace(in.Company),
			"message": strings.TrimSpace(in.Message),
		},
	}
	if err := uc.mailer.Send(ctx, msg); err != nil {
		uc.log.Error().Err(err).Str("from", in.Email).Msg("envío de formulario de contacto fallido")
		return fmt.Errorf("%w: %v", domain.ErrEmailDelivery, err)
	}
	return nil
}
