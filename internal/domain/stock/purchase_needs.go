package stock

import (
	"fmt"
	"math"
	"strings"
)

// Valores por defecto del cálculo de punto de pedido.
const (
	DefaultLeadTimeDays    = 7
	DefaultSafetyStockDays = 15
	daysPerMonth           = 30
)

// Urgency urgencia de reposición.
type Urgency string

const (
	UrgencyCritical Urgency = "CRÍTICA"
	UrgencyHigh     Urgency = "ALTA"
	UrgencyNormal   Urgency = "NORMAL"
)

// PurchaseNeedsInput parámetros del cálculo. LeadTimeDays y SafetyStockDays son opcionales.
type PurchaseNeedsInput struct {
	SKU             string   `json:"sku"`
	CurrentStock    float64  `json:"currentStock"`
	MonthlySales    float64  `json:"monthlySales"`
	LeadTimeDays    *float64 `json:"leadTimeDays,omitempty"`
	SafetyStockDays *float64 `json:"safetyStockDays,omitempty"`
}

// PurchaseNeeds resultado del cálculo de punto de pedido.
type PurchaseNeeds struct {
	SKU                 string  `json:"sku"`
	CurrentStock        float64 `json:"currentStock"`
	DailySales          float64 `json:"dailySales"`
	LeadTimeDays        float64 `json:"leadTimeDays"`
	SafetyStockDays     float64 `json:"safetyStockDays"`
	LeadTimeConsumption float64 `json:"leadTimeConsumption"`
	SafetyStockQty      float64 `json:"safetyStockQty"`
	OrderPoint          float64 `json:"orderPoint"`
	SuggestedQty        float64 `json:"suggestedQty"`
	Urgency             Urgency `json:"urgency"`
}

// Validate rechaza valores negativos.
func (in PurchaseNeedsInput) Validate() error {
	if strings.TrimSpace(in.SKU) == "" {
		return fmt.Errorf("sku es obligatorio")
	}
	if in.CurrentStock < 0 || in.MonthlySales < 0 {
		return fmt.Errorf("currentStock y monthlySales no pueden ser negativos")
	}
	if in.LeadTimeDays != nil && *in.LeadTimeDays < 0 {
		return fmt.Errorf("leadTimeDays no puede ser negativo")
	}
	if in.SafetyStockDays != nil && *in.SafetyStockDays < 0 {
		return fmt.Errorf("safetyStockDays no puede ser negativo")
	}
	return nil
}

// CalculatePurchaseNeeds punto de pedido = consumo durante el lead time + estoque de segurança.
// Función pura; los valores de salida se redondean a 2 decimales.
func CalculatePurchaseNeeds(in PurchaseNeedsInput) PurchaseNeeds {
	leadTime := float64(DefaultLeadTimeDays)
	if in.LeadTimeDays != nil {
		leadTime = *in.LeadTimeDays
	}
	safetyDays := float64(DefaultSafetyStockDays)
	if in.SafetyStockDays != nil {
		safetyDays = *in.SafetyStockDays
	}

	daily := in.MonthlySales / daysPerMonth
	leadConsumption := daily * leadTime
	safetyQty := daily * safetyDays
	orderPoint := leadConsumption + safetyQty
	suggested := math.Max(0, orderPoint-in.CurrentStock)

	urgency := UrgencyNormal
	switch {
	case in.CurrentStock == 0:
		urgency = UrgencyCritical
	case in.CurrentStock < leadConsumption:
		urgency = UrgencyHigh
	}

	return PurchaseNeeds{
		SKU:                 in.SKU,
		CurrentStock:        in.CurrentStock,
		DailySales:          round2(daily),
		LeadTimeDays:        leadTime,
		SafetyStockDays:     safetyDays,
		LeadTimeConsumption: round2(leadConsumption),
		SafetyStockQty:      round2(safetyQty),
		OrderPoint:          round2(orderPoint),
		SuggestedQty:        round2(suggested),
		Urgency:             urgency,
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
