package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/jhoicas/catalogo-api/internal/application/ports"
)

var _ ports.Mailer = (*EmailJSClient)(nil)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const emailJSSendPath = "/api/v1.0/email/send"

// Template identifica un servicio y plantilla de EmailJS.
type Template struct {
	ServiceID  string
	TemplateID string
}

// EmailJSClient adaptador de Mailer sobre la API REST de EmailJS.
type EmailJSClient struct {
	baseURL    string
	publicKey  string
	privateKey string
	templates  map[string]Template
	httpClient *http.Client
}

// NewEmailJSClient construye el adaptador. templates asocia cada ports.Template* a su servicio/plantilla.
func NewEmailJSClient(baseURL, publicKey, privateKey string, templates map[string]Template) *EmailJSClient {
	if baseURL == "" {
		baseURL = "https://api.emailjs.com"
	}
	return &EmailJSClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		publicKey:  publicKey,
		privateKey: privateKey,
		templates:  templates,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send solo considera entregado el correo con HTTP 200; cualquier otra respuesta es error.
func (c *EmailJSClient) Send(ctx context.Context, msg ports.MailMessage) error {
	if c.publicKey == "" {
		return fmt.Errorf("emailjs: EMAILJS_PUBLIC_KEY no configurado")
	}
	tpl, ok := c.templates[msg.Template]
	if !ok || tpl.ServiceID == "" || tpl.TemplateID == "" {
		return fmt.Errorf("emailjs: plantilla %q sin service_id/template_id", msg.Template)
	}

	body, err := json.Marshal(emailJSRequest{
		ServiceID:      tpl.ServiceID,
		TemplateID:     tpl.TemplateID,
		UserID:         c.publicKey,
		AccessToken:    c.privateKey,
		TemplateParams: msg.Params,
	})
	if err != nil {
		return fmt.Errorf("emailjs: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+emailJSSendPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("emailjs: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("emailjs: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("emailjs: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("emailjs: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}
