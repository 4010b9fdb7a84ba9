package entity

import "github.com/shopspring/decimal"

// CampaignProduct producto aplanado que se envía al generador de campañas.
type CampaignProduct struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category,omitempty"`
	Quantity     float64         `json:"quantity"`
	Cost         decimal.Decimal `json:"cost"`
	Price        decimal.Decimal `json:"price"`
	CoverageDays float64         `json:"coverage_days"`
	Status       string          `json:"status"`
}

// CampaignRequest pedido al colaborador externo de campañas.
type CampaignRequest struct {
	StoreID   string            `json:"store_id"`
	Objective string            `json:"objective,omitempty"`
	Products  []CampaignProduct `json:"products"`
}
