package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/application/cache"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/ports"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// QuotationStore colección de solicitudes de cotización.
type QuotationStore = cache.Store[entity.QuotationRequest, entity.QuotationPatch]

// FollowUpStore colección de seguimientos.
type FollowUpStore = cache.Store[entity.FollowUp, entity.FollowUpPatch]

const (
	defaultProjectDetails = "No additional project details provided"
	emailDateLayout       = "1/2/2006"
)

// QuotationUseCase recepción de solicitudes, envío de cotizaciones por correo y
// transición de estados (pending → quoted → completed).
type QuotationUseCase struct {
	quotations QuotationStore
	followUps  FollowUpStore
	mailer     ports.Mailer
	pdf        ports.QuotationPDFGenerator
	company    ports.CompanyInfo
	log        zerolog.Logger
	now        func() time.Time

	sendMu  sync.Mutex
	sending map[string]struct{} // ids con un envío en curso
}

// NewQuotationUseCase construye el caso de uso. pdf puede ser nil (descarga deshabilitada).
func NewQuotationUseCase(
	quotations QuotationStore,
	followUps FollowUpStore,
	mailer ports.Mailer,
	pdf ports.QuotationPDFGenerator,
	company ports.CompanyInfo,
	log zerolog.Logger,
) *QuotationUseCase {
	return &QuotationUseCase{
		quotations: quotations,
		followUps:  followUps,
		mailer:     mailer,
		pdf:        pdf,
		company:    company,
		log:        log,
		now:        time.Now,
		sending:    make(map[string]struct{}),
	}
}

// Submit valida el formulario público y registra la solicitud en estado pending.
// Las líneas sin producto se descartan; debe quedar al menos una.
func (uc *QuotationUseCase) Submit(ctx context.Context, in dto.SubmitQuotationRequest) (entity.QuotationRequest, error) {
	if blank(in.CustomerName) {
		return entity.QuotationRequest{}, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if !validEmail(in.Email) {
		return entity.QuotationRequest{}, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if blank(in.Phone) {
		return entity.QuotationRequest{}, fmt.Errorf("%w: el teléfono es obligatorio", domain.ErrInvalidInput)
	}
	if !in.AcceptTerms {
		return entity.QuotationRequest{}, fmt.Errorf("%w: debe aceptar los términos", domain.ErrInvalidInput)
	}

	items := make([]entity.QuoteItem, 0, len(in.Items))
	for _, it := range in.Items {
		item := entity.QuoteItem{
			Product:        strings.TrimSpace(it.Product),
			Quantity:       it.Quantity,
			Specifications: strings.TrimSpace(it.Specifications),
		}
		if item.Empty() {
			continue
		}
		if item.Quantity < 1 {
			return entity.QuotationRequest{}, fmt.Errorf("%w: cantidad inválida para %q", domain.ErrInvalidInput, item.Product)
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return entity.QuotationRequest{}, fmt.Errorf("%w: se requiere al menos un producto", domain.ErrInvalidInput)
	}

	q := entity.QuotationRequest{
		CustomerName:   strings.TrimSpace(in.CustomerName),
		Email:          strings.TrimSpace(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		Company:        strings.TrimSpace(in.Company),
		Items:          items,
		ProjectDetails: strings.TrimSpace(in.ProjectDetails),
		Status:         entity.QuotationPending,
	}
	created, err := uc.quotations.Add(ctx, q)
	if err != nil {
		return entity.QuotationRequest{}, err
	}
	uc.log.Info().Str("quotation_id", created.ID).Int("items", len(created.Items)).Msg("solicitud de cotización recibida")
	return created, nil
}

// List devuelve las solicitudes (más recientes primero), opcionalmente filtradas por estado.
func (uc *QuotationUseCase) List(q dto.QuotationListQuery) dto.QuotationListResponse {
	q.DefaultPage()
	list := uc.quotations.Filter(func(r entity.QuotationRequest) bool {
		return q.Status == "" || r.Status == q.Status
	})
	from, to := q.Window(len(list))
	return dto.QuotationListResponse{
		Items: list[from:to],
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: len(list)},
	}
}

func (uc *QuotationUseCase) Get(id string) (entity.QuotationRequest, error) {
	q, ok := uc.quotations.Find(id)
	if !ok {
		return entity.QuotationRequest{}, domain.ErrNotFound
	}
	return q, nil
}

// SendQuotation envía la cotización al cliente y solo si el proveedor acepta el
// correo marca la solicitud como quoted. Un fallo de envío deja el estado intacto.
func (uc *QuotationUseCase) SendQuotation(ctx context.Context, id, quotationText string) (entity.QuotationRequest, error) {
	if blank(quotationText) {
		return entity.QuotationRequest{}, fmt.Errorf("%w: el texto de la cotización es obligatorio", domain.ErrInvalidInput)
	}
	if !uc.beginSend(id) {
		return entity.QuotationRequest{}, fmt.Errorf("%w: ya hay un envío en curso para la solicitud %s", domain.ErrConflict, id)
	}
	defer uc.endSend(id)

	q, ok := uc.quotations.Find(id)
	if !ok {
		return entity.QuotationRequest{}, domain.ErrNotFound
	}
	if !entity.CanTransition(q.Status, entity.QuotationQuoted) {
		return entity.QuotationRequest{}, fmt.Errorf("%w: la solicitud está en estado %s", domain.ErrInvalidTransition, q.Status)
	}

	msg := ports.MailMessage{
		Template: ports.TemplateQuotation,
		To:       q.Email,
		ToName:   q.CustomerName,
		Subject:  "Quotation from " + uc.company.Name,
		Params:   uc.quotationParams(q, quotationText),
	}
	if err := uc.mailer.Send(ctx, msg); err != nil {
		uc.log.Error().Err(err).Str("quotation_id", id).Msg("envío de cotización fallido; estado sin cambios")
		return entity.QuotationRequest{}, fmt.Errorf("%w: %v", domain.ErrEmailDelivery, err)
	}

	status := entity.QuotationQuoted
	updated, found, err := uc.quotations.Update(ctx, id, entity.QuotationPatch{Status: &status})
	if err != nil {
		return entity.QuotationRequest{}, fmt.Errorf("cotización enviada pero no se pudo registrar el estado: %w", err)
	}
	if !found {
		return entity.QuotationRequest{}, domain.ErrNotFound
	}
	uc.log.Info().Str("quotation_id", id).Str("to", q.Email).Msg("cotización enviada")
	return updated, nil
}

// beginSend reserva id para un único envío a la vez.
func (uc *QuotationUseCase) beginSend(id string) bool {
	uc.sendMu.Lock()
	defer uc.sendMu.Unlock()
	if _, busy := uc.sending[id]; busy {
		return false
	}
	uc.sending[id] = struct{}{}
	return true
}

func (uc *QuotationUseCase) endSend(id string) {
	uc.sendMu.Lock()
	delete(uc.sending, id)
	uc.sendMu.Unlock()
}

// UpdateStatus cambio de estado manual. Solo se avanza (quoted → completed);
// pending → quoted exige pasar por SendQuotation.
func (uc *QuotationUseCase) UpdateStatus(ctx context.Context, id, status string) (entity.QuotationRequest, error) {
	if !entity.ValidQuotationStatus(status) {
		return entity.QuotationRequest{}, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	q, ok := uc.quotations.Find(id)
	if !ok {
		return entity.QuotationRequest{}, domain.ErrNotFound
	}
	if status == q.Status {
		return q, nil
	}
	if status == entity.QuotationQuoted || !entity.CanTransition(q.Status, status) {
		return entity.QuotationRequest{}, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, q.Status, status)
	}
	updated, found, err := uc.quotations.Update(ctx, id, entity.QuotationPatch{Status: &status})
	if err != nil {
		return entity.QuotationRequest{}, err
	}
	if !found {
		return entity.QuotationRequest{}, domain.ErrNotFound
	}
	return updated, nil
}

// Delete elimina la solicitud y sus seguimientos.
func (uc *QuotationUseCase) Delete(ctx context.Context, id string) error {
	if _, ok := uc.quotations.Find(id); !ok {
		return domain.ErrNotFound
	}
	for _, f := range uc.followUps.Filter(func(f entity.FollowUp) bool { return f.QuotationID == id }) {
		if err := uc.followUps.Remove(ctx, f.ID); err != nil {
			return fmt.Errorf("eliminar seguimiento %s: %w", f.ID, err)
		}
	}
	return uc.quotations.Remove(ctx, id)
}

// PDF genera la cotización imprimible. Devuelve bytes y nombre de archivo sugerido.
func (uc *QuotationUseCase) PDF(ctx context.Context, id string) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("pdf: %w", domain.ErrNotConfigured)
	}
	q, ok := uc.quotations.Find(id)
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	b, err := uc.pdf.GenerateQuotationPDF(ctx, q, uc.company)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar: %w", err)
	}
	short := q.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return b, fmt.Sprintf("cotizacion-%s.pdf", short), nil
}

func (uc *QuotationUseCase) quotationParams(q entity.QuotationRequest, quotationText string) map[string]string {
	details := q.ProjectDetails
	if blank(details) {
		details = defaultProjectDetails
	}
	return map[string]string{
		"to_name":           q.CustomerName,
		"to_email":          q.Email,
		"customer_name":     q.CustomerName,
		"customer_email":    q.Email,
		"customer_phone":    q.Phone,
		"customer_company":  q.Company,
		"requested_items":   FormatItemsForEmail(q.Items),
		"project_details":   details,
		"quotation_details": quotationText,
		"request_date":      q.CreatedAt.Format(emailDateLayout),
		"quotation_date":    uc.now().Format(emailDateLayout),
		"from_name":         uc.company.Name,
		"company_email":     uc.company.Email,
		"company_phone":     uc.company.Phone,
		"company_address":   uc.company.Address,
	}
}

// FormatItemsForEmail numera las líneas: "1. Producto (Quantity: 3)" y, si hay
// especificaciones, una segunda línea indentada. Las líneas se separan con una línea en blanco.
func FormatItemsForEmail(items []entity.QuoteItem) string {
	parts := make([]string, 0, len(items))
	for i, it := range items {
		s := fmt.Sprintf("%d. %s (Quantity: %d)", i+1, it.Product, it.Quantity)
		if it.Specifications != "" {
			s += "\n   Specifications: " + it.Specifications
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n\n")
}
