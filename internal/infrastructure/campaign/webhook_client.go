// Package campaign implementa el colaborador externo de generación de campañas vía webhook.
package campaign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/estoque-inteligente-api/internal/application/ports"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
)

var _ ports.CampaignGenerator = (*WebhookClient)(nil)

// WebhookClient publica el pedido de campaña y devuelve el cuerpo de la respuesta sin
// interpretarlo. La entrega a los canales (WhatsApp, Instagram, e-mail) la hace el receptor.
type WebhookClient struct {
	url        string
	httpClient *http.Client
}

// NewWebhookClient construye el cliente. Sin url, GenerateCampaign devuelve
// domain.ErrCampaignUnavailable.
func NewWebhookClient(url string, timeout time.Duration) *WebhookClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WebhookClient{url: url, httpClient: &http.Client{Timeout: timeout}}
}

// GenerateCampaign POST JSON al webhook. Cualquier respuesta 2xx con cuerpo JSON es válida.
func (c *WebhookClient) GenerateCampaign(ctx context.Context, req entity.CampaignRequest) (json.RawMessage, error) {
	if c.url == "" {
		return nil, fmt.Errorf("%w: CAMPAIGN_WEBHOOK_URL no configurado", domain.ErrCampaignUnavailable)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("campaign: serializar request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("campaign: crear HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCampaignUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("campaign: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: webhook HTTP %d", domain.ErrCampaignUnavailable, resp.StatusCode)
	}
	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: respuesta no es JSON", domain.ErrCampaignUnavailable)
	}
	return json.RawMessage(raw), nil
}
