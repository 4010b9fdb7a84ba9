package stock

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
)

// NormalizedItem fila de estoque ya tipada. Vive solo durante un cálculo.
type NormalizedItem struct {
	ID           string
	SKU          string
	Name         string
	Category     string
	Quantity     float64 // ≥ 0
	Cost         decimal.Decimal
	Price        decimal.Decimal
	DailySales   float64
	CoverageDays float64
	ABCClass     ABCClass
	Status       Status
	RawStatus    string // label original recortado, para mostrar
}

// StockValue cantidad × costo.
func (it NormalizedItem) StockValue() decimal.Decimal {
	return decimal.NewFromFloat(it.Quantity).Mul(it.Cost)
}

// DailyLoss venta diaria × precio: lo que se deja de vender por día en ruptura.
func (it NormalizedItem) DailyLoss() decimal.Decimal {
	return decimal.NewFromFloat(it.DailySales).Mul(it.Price)
}

// RevenuePotential cantidad × precio.
func (it NormalizedItem) RevenuePotential() decimal.Decimal {
	return decimal.NewFromFloat(it.Quantity).Mul(it.Price)
}

// MarginPct margen unitario (precio − costo) / precio × 100; 0 si el precio es 0.
func (it NormalizedItem) MarginPct() decimal.Decimal {
	if !it.Price.IsPositive() {
		return decimal.Zero
	}
	return it.Price.Sub(it.Cost).Div(it.Price).Mul(decimal.NewFromInt(100)).Round(2)
}

// Normalize convierte una fila cruda. Cantidades negativas se recortan a 0.
func Normalize(rec entity.StockRecord) NormalizedItem {
	qty := ParseNumber(rec.Quantity)
	if qty < 0 {
		qty = 0
	}
	name := strings.TrimSpace(rec.Description)
	if name == "" {
		name = strings.TrimSpace(rec.SKU)
	}
	return NormalizedItem{
		ID:           rec.ID,
		SKU:          strings.TrimSpace(rec.SKU),
		Name:         name,
		Category:     strings.TrimSpace(rec.Category),
		Quantity:     qty,
		Cost:         decimal.NewFromFloat(ParseNumber(rec.Cost)),
		Price:        decimal.NewFromFloat(ParseNumber(rec.Price)),
		DailySales:   ParseNumber(rec.DailySales),
		CoverageDays: ParseNumber(rec.CoverageDays),
		ABCClass:     ParseABC(rec.ABCClass),
		Status:       NormalizeStatus(rec.Status),
		RawStatus:    strings.TrimSpace(rec.Status),
	}
}

// NormalizeAll normaliza todas las filas conservando el orden.
func NormalizeAll(records []entity.StockRecord) []NormalizedItem {
	items := make([]NormalizedItem, 0, len(records))
	for _, rec := range records {
		items = append(items, Normalize(rec))
	}
	return items
}
