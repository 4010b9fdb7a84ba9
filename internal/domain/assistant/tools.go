// Package assistant define los tipos del asistente conversacional: contratos de las
// herramientas, resultados tipados, registro de intentos por modelo y resultado del turno.
package assistant

import (
	"encoding/json"

	"github.com/jhoicas/estoque-inteligente-api/internal/domain/stock"
)

// ToolName nombre expuesto al modelo.
type ToolName string

const (
	ToolStockQuery    ToolName = "consultar_estoque"
	ToolPurchaseNeeds ToolName = "calcular_necessidade_compra"
	ToolCampaign      ToolName = "gerar_campanha"
)

// FilterType filtro de consultar_estoque.
type FilterType string

const (
	FilterLowStock     FilterType = "low_stock"
	FilterCategory     FilterType = "category"
	FilterSpecificItem FilterType = "specific_item"
	FilterGeneral      FilterType = "general"
	FilterExcessPromo  FilterType = "excess_promo"
)

// Valid informa si f es un filtro soportado.
func (f FilterType) Valid() bool {
	switch f {
	case FilterLowStock, FilterCategory, FilterSpecificItem, FilterGeneral, FilterExcessPromo:
		return true
	}
	return false
}

// StockQueryArgs argumentos de consultar_estoque.
type StockQueryArgs struct {
	FilterType  FilterType `json:"filterType"`
	FilterValue string     `json:"filterValue,omitempty"`
}

// CampaignArgs argumentos de gerar_campanha.
type CampaignArgs struct {
	ProductIDs []string `json:"productIds"`
	Objective  string   `json:"objective,omitempty"`
}

// ToolCall invocación pedida por el modelo. Arguments es el JSON crudo del proveedor.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      ToolName        `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult salida de una invocación, enlazada a su ToolCall por CallID.
type ToolResult struct {
	CallID  string
	Tool    ToolName
	Outcome ToolOutcome
}

// ToolOutcome unión cerrada de resultados de herramienta. Solo los tipos de este paquete
// la implementan; el código consumidor hace type switch en lugar de sondear campos.
type ToolOutcome interface {
	isToolOutcome()
}

// StockItemView fila devuelta por consultar_estoque.
type StockItemView struct {
	ID           string  `json:"id"`
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	Category     string  `json:"category,omitempty"`
	Quantity     float64 `json:"quantity"`
	Cost         float64 `json:"cost"`
	Price        float64 `json:"price"`
	MarginPct    float64 `json:"marginPct"`
	DailySales   float64 `json:"dailySales"`
	CoverageDays float64 `json:"coverageDays"`
	ABCClass     string  `json:"abcClass"`
	Status       string  `json:"status"`
}

// StockItemsOutcome consulta con resultados.
type StockItemsOutcome struct {
	Count int             `json:"count"`
	Items []StockItemView `json:"items"`
}

// StockEmptyOutcome consulta sin resultados.
type StockEmptyOutcome struct {
	Message string `json:"message"`
}

// ToolErrorOutcome la herramienta falló; Message es apto para el usuario.
type ToolErrorOutcome struct {
	Tool    ToolName `json:"tool"`
	Message string   `json:"error"`
}

// PurchaseNeedsOutcome resultado de calcular_necessidade_compra.
type PurchaseNeedsOutcome struct {
	Needs stock.PurchaseNeeds `json:"needs"`
}

// CampaignOutcome respuesta del generador de campañas, retransmitida sin reinterpretar.
type CampaignOutcome struct {
	Payload     json.RawMessage `json:"payload"`
	HasChannels bool            `json:"hasChannels"`
}

func (StockItemsOutcome) isToolOutcome()    {}
func (StockEmptyOutcome) isToolOutcome()    {}
func (ToolErrorOutcome) isToolOutcome()     {}
func (PurchaseNeedsOutcome) isToolOutcome() {}
func (CampaignOutcome) isToolOutcome()      {}

// OutcomeJSON serializa el resultado para devolverlo al modelo como tool result.
// Una campaña con "channels" se devuelve tal cual; sin esa clave se envuelve.
func OutcomeJSON(o ToolOutcome) []byte {
	var v any = o
	if c, ok := o.(CampaignOutcome); ok && len(c.Payload) > 0 {
		if c.HasChannels {
			return c.Payload
		}
		v = map[string]any{"success": true, "campaign": c.Payload}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return []byte(`{"error":"resultado no serializable"}`)
	}
	return b
}

// ToolSchema descripción de una herramienta para el proveedor (JSON Schema en Parameters).
type ToolSchema struct {
	Name        ToolName
	Description string
	Parameters  json.RawMessage
}
