package stock

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Action acción sugerida para un ítem.
type Action string

const (
	ActionBuyUrgent Action = "Comprar Urgente"
	ActionBuy       Action = "Comprar"
	ActionBurn      Action = "Queimar Estoque"
	ActionWait      Action = "Aguardar"
)

// Umbrales de cobertura (días) del clasificador.
const (
	buyBelowCoverageDays  = 15
	burnAboveCoverageDays = 90
)

// MaxSuggestedQty tope de la cantidad sugerida por ítem. Mantiene TotalUnits dentro de
// int64 aun con planillas de millones de filas.
const MaxSuggestedQty int64 = 1_000_000_000_000

// Priority orden de presentación: mayor primero.
func (a Action) Priority() int {
	switch a {
	case ActionBuyUrgent:
		return 4
	case ActionBuy:
		return 3
	case ActionBurn:
		return 2
	default:
		return 1
	}
}

// PurchaseSuggestion sugerencia de compra para un ítem, calculada en cada request.
type PurchaseSuggestion struct {
	ID              string
	SKU             string
	Name            string
	Status          Status
	Quantity        float64
	DailySales      float64
	CoverageDays    float64
	SuggestedQty    int64 // ≥ 0; 0 cuando la acción es Queimar Estoque
	SuggestedAction Action
	UnitCost        decimal.Decimal
	PurchaseCost    decimal.Decimal
}

// Classify calcula la sugerencia de un ítem. Las reglas se evalúan en orden fijo:
//  1. RUPTURA o cobertura ≤ 0 → Comprar Urgente
//  2. cobertura < 15         → Comprar
//  3. EXCESSO o cobertura > 90 → Queimar Estoque (cantidad 0)
//  4. resto                  → Aguardar
//
// Un ítem EXCESSO nunca sugiere compra, aunque caiga en las reglas 1 o 2.
func Classify(it NormalizedItem, targetCoverageDays float64) PurchaseSuggestion {
	required := it.DailySales * targetCoverageDays
	// redondeo a 6 decimales para que el ruido de float no sume una unidad
	raw := math.Ceil(math.Round((required-it.Quantity)*1e6) / 1e6)
	var qty int64
	switch {
	case math.IsNaN(raw) || raw <= 0:
	case raw >= float64(MaxSuggestedQty):
		qty = MaxSuggestedQty
	default:
		qty = int64(raw)
	}

	var action Action
	switch {
	case it.Status == StatusRuptura || it.CoverageDays <= 0:
		action = ActionBuyUrgent
	case it.CoverageDays < buyBelowCoverageDays:
		action = ActionBuy
	case it.Status == StatusExcesso || it.CoverageDays > burnAboveCoverageDays:
		action = ActionBurn
	default:
		action = ActionWait
	}
	if action == ActionBurn || it.Status == StatusExcesso {
		qty = 0
	}

	return PurchaseSuggestion{
		ID:              it.ID,
		SKU:             it.SKU,
		Name:            it.Name,
		Status:          it.Status,
		Quantity:        it.Quantity,
		DailySales:      it.DailySales,
		CoverageDays:    it.CoverageDays,
		SuggestedQty:    qty,
		SuggestedAction: action,
		UnitCost:        it.Cost,
		PurchaseCost:    decimal.NewFromInt(qty).Mul(it.Cost),
	}
}

// Suggest clasifica todos los ítems y los ordena por prioridad de acción descendente,
// desempatando por costo de compra descendente. El orden es estable.
func Suggest(items []NormalizedItem, targetCoverageDays float64) []PurchaseSuggestion {
	out := make([]PurchaseSuggestion, 0, len(items))
	for _, it := range items {
		out = append(out, Classify(it, targetCoverageDays))
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].SuggestedAction.Priority(), out[j].SuggestedAction.Priority()
		if pi != pj {
			return pi > pj
		}
		return out[i].PurchaseCost.GreaterThan(out[j].PurchaseCost)
	})
	return out
}

// SuggestionSummary totales para cabeceras de reportes.
type SuggestionSummary struct {
	TotalItems        int
	TotalPurchaseCost decimal.Decimal
	TotalUnits        int64
	ByAction          map[Action]int
}

// SummarizeSuggestions agrega costo total, unidades y conteo por acción.
func SummarizeSuggestions(list []PurchaseSuggestion) SuggestionSummary {
	sum := SuggestionSummary{
		TotalItems:        len(list),
		TotalPurchaseCost: decimal.Zero,
		ByAction: map[Action]int{
			ActionBuyUrgent: 0,
			ActionBuy:       0,
			ActionBurn:      0,
			ActionWait:      0,
		},
	}
	for _, s := range list {
		sum.TotalPurchaseCost = sum.TotalPurchaseCost.Add(s.PurchaseCost)
		sum.TotalUnits += s.SuggestedQty
		sum.ByAction[s.SuggestedAction]++
	}
	return sum
}
