package dto

import "github.com/shopspring/decimal"

// PurchaseSuggestionsRequest query de GET /api/purchases/suggestions.
type PurchaseSuggestionsRequest struct {
	TargetDays float64 `query:"target_days"` // 0 = valor configurado (TARGET_COVERAGE_DAYS)
}

// PurchaseSuggestionDTO sugerencia de compra de un SKU.
type PurchaseSuggestionDTO struct {
	ID              string          `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Status          string          `json:"status"`
	CurrentStock    float64         `json:"current_stock"`
	DailySales      float64         `json:"daily_sales"`
	CoverageDays    float64         `json:"coverage_days"`
	SuggestedQty    int64           `json:"suggested_qty"`
	SuggestedAction string          `json:"suggested_action"` // Comprar Urgente|Comprar|Queimar Estoque|Aguardar
	UnitCost        decimal.Decimal `json:"unit_cost"`
	PurchaseCost    decimal.Decimal `json:"purchase_cost"` // SuggestedQty × UnitCost
	Priority        int             `json:"priority"`      // 4 = Comprar Urgente ... 1 = Aguardar
}

// PurchaseSuggestionsDTO respuesta con las sugerencias ya ordenadas y sus totales.
type PurchaseSuggestionsDTO struct {
	TargetCoverageDays float64                 `json:"target_coverage_days"`
	TotalPurchaseCost  decimal.Decimal         `json:"total_purchase_cost"`
	TotalUnits         int64                   `json:"total_units"`
	CountByAction      map[string]int          `json:"count_by_action"`
	Items              []PurchaseSuggestionDTO `json:"items"`
}

// PurchaseNeedsRequest body de POST /api/assistant/purchase-needs.
type PurchaseNeedsRequest struct {
	SKU             string   `json:"sku"`
	CurrentStock    float64  `json:"current_stock"`
	MonthlySales    float64  `json:"monthly_sales"`
	LeadTimeDays    *float64 `json:"lead_time_days,omitempty"`
	SafetyStockDays *float64 `json:"safety_stock_days,omitempty"`
}
