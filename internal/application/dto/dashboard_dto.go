package dto

import "github.com/shopspring/decimal"

// DashboardMetricsDTO respuesta de GET /api/dashboard/metrics.
// Se recalcula completo en cada request sobre todas las filas de estoque de la loja.
type DashboardMetricsDTO struct {
	TotalItems int `json:"total_items"`

	// Financiero
	InventoryValue   decimal.Decimal `json:"inventory_value"`   // Σ cantidad × costo
	RevenuePotential decimal.Decimal `json:"revenue_potential"` // Σ cantidad × precio
	ProjectedProfit  decimal.Decimal `json:"projected_profit"`  // revenue - inventory
	AverageMargin    decimal.Decimal `json:"average_margin"`    // profit / revenue * 100
	ExcessValue      decimal.Decimal `json:"excess_value"`      // capital parado en EXCESSO

	// Riesgo
	RuptureCount int             `json:"rupture_count"`
	ExcessCount  int             `json:"excess_count"`
	HealthyCount int             `json:"healthy_count"`
	RuptureShare decimal.Decimal `json:"rupture_share"` // %
	HealthyShare decimal.Decimal `json:"healthy_share"` // %

	CoverageBuckets []CoverageBucketDTO `json:"coverage_buckets"`
	TopRupture      []RuptureMoverDTO   `json:"top_rupture"`
	TopExcess       []ExcessMoverDTO    `json:"top_excess"`
}

// CoverageBucketDTO valor de estoque dentro de un rango de cobertura.
type CoverageBucketDTO struct {
	Label string          `json:"label"` // "0-7 dias", "8-15 dias", ...
	Value decimal.Decimal `json:"value"`
}

// RuptureMoverDTO ítem del top de ruptura.
type RuptureMoverDTO struct {
	ID                 string          `json:"id"`
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	DailySales         float64         `json:"daily_sales"`
	EstimatedDailyLoss decimal.Decimal `json:"estimated_daily_loss"` // venta diaria × precio
}

// ExcessMoverDTO ítem del top de excesso.
type ExcessMoverDTO struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Quantity     float64         `json:"quantity"`
	CoverageDays float64         `json:"coverage_days"`
	CapitalTied  decimal.Decimal `json:"capital_tied"` // cantidad × costo
}
