package campaign_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-inteligente-api/internal/domain"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
	"github.com/jhoicas/estoque-inteligente-api/internal/infrastructure/campaign"
)

func campaignRequest() entity.CampaignRequest {
	return entity.CampaignRequest{
		StoreID:   "store-1",
		Objective: "queima de estoque",
		Products:  []entity.CampaignProduct{{ID: "3", SKU: "SKU-3", Name: "Óleo", Price: decimal.NewFromInt(8)}},
	}
}

func TestGenerateCampaign_RetransmiteRespuesta(t *testing.T) {
	var got entity.CampaignRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`  {"channels":{"whatsapp":"Promo!"}}  `))
	}))
	defer srv.Close()

	out, err := campaign.NewWebhookClient(srv.URL, time.Second).GenerateCampaign(context.Background(), campaignRequest())

	require.NoError(t, err)
	assert.JSONEq(t, `{"channels":{"whatsapp":"Promo!"}}`, string(out))
	assert.Equal(t, "queima de estoque", got.Objective)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "SKU-3", got.Products[0].SKU)
}

func TestGenerateCampaign_Fallas(t *testing.T) {
	_, err := campaign.NewWebhookClient("", 0).GenerateCampaign(context.Background(), campaignRequest())
	assert.ErrorIs(t, err, domain.ErrCampaignUnavailable)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	_, err = campaign.NewWebhookClient(srv.URL, time.Second).GenerateCampaign(context.Background(), campaignRequest())
	assert.ErrorIs(t, err, domain.ErrCampaignUnavailable)

	html := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer html.Close()
	_, err = campaign.NewWebhookClient(html.URL, time.Second).GenerateCampaign(context.Background(), campaignRequest())
	assert.ErrorIs(t, err, domain.ErrCampaignUnavailable)
}
