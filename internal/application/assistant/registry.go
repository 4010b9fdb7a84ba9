// Package assistant contiene el orquestador conversacional: registro de herramientas,
// router de atajos por intención, executor de fallback entre modelos y recuperación
// de resultados de herramientas.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/jhoicas/estoque-inteligente-api/internal/application/ports"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/repository"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/stock"
	"github.com/jhoicas/estoque-inteligente-api/pkg/logger"
)

// MaxQueryRows tope de filas de consultar_estoque.
const MaxQueryRows = 50

// Mensajes de herramienta aptos para el usuario.
const (
	msgStockEmpty       = "Nenhum item encontrado para esse filtro."
	msgStockUnavailable = "Os dados de estoque estão indisponíveis no momento. Tente novamente em instantes."
	msgInvalidArguments = "Não entendi os parâmetros da consulta."
	msgCampaignFailed   = "Não foi possível gerar a campanha agora."
	msgCampaignNoItems  = "Nenhum dos produtos informados foi encontrado no estoque."
	msgUnknownTool      = "Ferramenta desconhecida."
)

var (
	lowStockTokens = []string{"Ruptura", "Crítico", "Critico"}
	excessTokens   = []string{"Excesso"}
)

// Registry implementa las tres herramientas del asistente sobre los colaboradores externos.
// No guarda estado entre llamadas; ForStore lo ata a una loja para un turno.
type Registry struct {
	stockRepo repository.StockRepository
	campaigns ports.CampaignGenerator
	log       *logger.Logger
}

// NewRegistry construye el registro. campaigns puede ser nil: gerar_campanha responde con error.
func NewRegistry(stockRepo repository.StockRepository, campaigns ports.CampaignGenerator, log *logger.Logger) *Registry {
	return &Registry{stockRepo: stockRepo, campaigns: campaigns, log: log.Component("tools")}
}

// ForStore devuelve el ToolExecutor de una loja.
func (r *Registry) ForStore(storeID string) ports.ToolExecutor {
	return &storeTools{reg: r, storeID: storeID}
}

// QueryStock ejecuta consultar_estoque.
func (r *Registry) QueryStock(ctx context.Context, storeID string, args assistant.StockQueryArgs) assistant.ToolOutcome {
	if args.FilterType == "" {
		args.FilterType = assistant.FilterGeneral
	}
	if !args.FilterType.Valid() {
		return assistant.ToolErrorOutcome{Tool: assistant.ToolStockQuery, Message: msgInvalidArguments}
	}

	filter := repository.StockFilter{StoreID: storeID, Limit: MaxQueryRows}
	switch args.FilterType {
	case assistant.FilterLowStock:
		filter.StatusContains = lowStockTokens
	case assistant.FilterExcessPromo:
		filter.StatusContains = excessTokens
	case assistant.FilterCategory, assistant.FilterSpecificItem:
		filter.DescriptionContains = strings.TrimSpace(args.FilterValue)
	}

	rows, err := r.stockRepo.ListStock(ctx, filter)
	if err != nil {
		r.log.Error().Err(toolFailure(err)).Str("tool", string(assistant.ToolStockQuery)).
			Str("filter", string(args.FilterType)).Msg("consulta de estoque falló")
		return assistant.ToolErrorOutcome{Tool: assistant.ToolStockQuery, Message: msgStockUnavailable}
	}
	if len(rows) == 0 {
		return assistant.StockEmptyOutcome{Message: msgStockEmpty}
	}
	if len(rows) > MaxQueryRows {
		rows = rows[:MaxQueryRows]
	}

	normalized := stock.NormalizeAll(rows)
	switch args.FilterType {
	case assistant.FilterLowStock:
		stock.RankByDailyLoss(normalized)
	case assistant.FilterExcessPromo:
		stock.RankByCapitalTied(normalized)
	}

	items := make([]assistant.StockItemView, 0, len(normalized))
	for _, it := range normalized {
		items = append(items, ItemView(it))
	}
	return assistant.StockItemsOutcome{Count: len(items), Items: items}
}

// PurchaseNeeds ejecuta calcular_necessidade_compra. Pura, sin I/O.
func (r *Registry) PurchaseNeeds(in stock.PurchaseNeedsInput) assistant.ToolOutcome {
	if err := in.Validate(); err != nil {
		return assistant.ToolErrorOutcome{Tool: assistant.ToolPurchaseNeeds, Message: msgInvalidArguments}
	}
	return assistant.PurchaseNeedsOutcome{Needs: stock.CalculatePurchaseNeeds(in)}
}

// Campaign ejecuta gerar_campanha: carga los productos, los aplana y retransmite la
// respuesta del generador externo.
func (r *Registry) Campaign(ctx context.Context, storeID string, args assistant.CampaignArgs) assistant.ToolOutcome {
	ids := compactIDs(args.ProductIDs)
	if len(ids) == 0 {
		return assistant.ToolErrorOutcome{Tool: assistant.ToolCampaign, Message: msgInvalidArguments}
	}
	if r.campaigns == nil {
		return assistant.ToolErrorOutcome{Tool: assistant.ToolCampaign, Message: msgCampaignFailed}
	}

	rows, err := r.stockRepo.ListStock(ctx, repository.StockFilter{StoreID: storeID, IDs: ids, Limit: MaxQueryRows})
	if err != nil {
		r.log.Error().Err(toolFailure(err)).Str("tool", string(assistant.ToolCampaign)).Msg("carga de productos falló")
		return assistant.ToolErrorOutcome{Tool: assistant.ToolCampaign, Message: msgStockUnavailable}
	}
	if len(rows) == 0 {
		return assistant.ToolErrorOutcome{Tool: assistant.ToolCampaign, Message: msgCampaignNoItems}
	}

	req := entity.CampaignRequest{StoreID: storeID, Objective: strings.TrimSpace(args.Objective)}
	for _, it := range stock.NormalizeAll(rows) {
		req.Products = append(req.Products, entity.CampaignProduct{
			ID:           it.ID,
			SKU:          it.SKU,
			Name:         it.Name,
			Category:     it.Category,
			Quantity:     it.Quantity,
			Cost:         it.Cost,
			Price:        it.Price,
			CoverageDays: it.CoverageDays,
			Status:       string(it.Status),
		})
	}

	payload, err := r.campaigns.GenerateCampaign(ctx, req)
	if err != nil {
		r.log.Error().Err(toolFailure(err)).Str("tool", string(assistant.ToolCampaign)).
			Int("products", len(req.Products)).Msg("generador de campañas falló")
		return assistant.ToolErrorOutcome{Tool: assistant.ToolCampaign, Message: msgCampaignFailed}
	}
	return assistant.CampaignOutcome{Payload: payload, HasChannels: hasChannels(payload)}
}

// ItemView proyecta un ítem normalizado a la fila que ve el modelo.
func ItemView(it stock.NormalizedItem) assistant.StockItemView {
	cost, _ := it.Cost.Float64()
	price, _ := it.Price.Float64()
	margin, _ := it.MarginPct().Float64()
	status := it.RawStatus
	if status == "" {
		status = string(it.Status)
	}
	return assistant.StockItemView{
		ID:           it.ID,
		SKU:          it.SKU,
		Name:         it.Name,
		Category:     it.Category,
		Quantity:     it.Quantity,
		Cost:         cost,
		Price:        price,
		MarginPct:    margin,
		DailySales:   it.DailySales,
		CoverageDays: it.CoverageDays,
		ABCClass:     string(it.ABCClass),
		Status:       status,
	}
}

// toolFailure marca la causa como domain.ErrToolExecution para el log.
func toolFailure(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrToolExecution, err)
}

func compactIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func hasChannels(payload json.RawMessage) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil {
		return false
	}
	_, ok := obj["channels"]
	return ok
}

// storeTools ToolExecutor ligado a una loja.
type storeTools struct {
	reg     *Registry
	storeID string
}

var _ ports.ToolExecutor = (*storeTools)(nil)

func (t *storeTools) Schemas() []assistant.ToolSchema {
	return slices.Clone(toolSchemas)
}

func (t *storeTools) Execute(ctx context.Context, call assistant.ToolCall) assistant.ToolOutcome {
	switch call.Name {
	case assistant.ToolStockQuery:
		var args assistant.StockQueryArgs
		if err := decodeArgs(call.Arguments, &args); err != nil {
			return assistant.ToolErrorOutcome{Tool: call.Name, Message: msgInvalidArguments}
		}
		return t.reg.QueryStock(ctx, t.storeID, args)
	case assistant.ToolPurchaseNeeds:
		var in stock.PurchaseNeedsInput
		if err := decodeArgs(call.Arguments, &in); err != nil {
			return assistant.ToolErrorOutcome{Tool: call.Name, Message: msgInvalidArguments}
		}
		return t.reg.PurchaseNeeds(in)
	case assistant.ToolCampaign:
		var args assistant.CampaignArgs
		if err := decodeArgs(call.Arguments, &args); err != nil {
			return assistant.ToolErrorOutcome{Tool: call.Name, Message: msgInvalidArguments}
		}
		return t.reg.Campaign(ctx, t.storeID, args)
	default:
		t.reg.log.Warn().Str("tool", string(call.Name)).Msg("herramienta desconocida pedida por el modelo")
		return assistant.ToolErrorOutcome{Tool: call.Name, Message: msgUnknownTool}
	}
}

func decodeArgs(raw json.RawMessage, dst any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("argumentos inválidos: %w", err)
	}
	return nil
}

var toolSchemas = []assistant.ToolSchema{
	{
		Name: assistant.ToolStockQuery,
		Description: "Consulta o estoque da loja. Use low_stock para itens em ruptura ou críticos, " +
			"excess_promo para itens em excesso (candidatos a promoção), category ou specific_item " +
			"com filterValue para buscar pela descrição, general para uma amostra geral.",
		Parameters: json.RawMessage(`{
  "type": "object",
  "properties": {
    "filterType": {"type": "string", "enum": ["low_stock", "category", "specific_item", "general", "excess_promo"]},
    "filterValue": {"type": "string", "description": "Texto buscado na descrição (category/specific_item)"}
  },
  "required": ["filterType"]
}`),
	},
	{
		Name: assistant.ToolPurchaseNeeds,
		Description: "Calcula o ponto de pedido e a quantidade sugerida de compra de um SKU a partir " +
			"do estoque atual e das vendas mensais.",
		Parameters: json.RawMessage(`{
  "type": "object",
  "properties": {
    "sku": {"type": "string"},
    "currentStock": {"type": "number"},
    "monthlySales": {"type": "number"},
    "leadTimeDays": {"type": "number", "description": "Prazo de entrega do fornecedor em dias (padrão 7)"},
    "safetyStockDays": {"type": "number", "description": "Dias de estoque de segurança (padrão 15)"}
  },
  "required": ["sku", "currentStock", "monthlySales"]
}`),
	},
	{
		Name:        assistant.ToolCampaign,
		Description: "Gera uma campanha de marketing para os produtos informados (ids do estoque).",
		Parameters: json.RawMessage(`{
  "type": "object",
  "properties": {
    "productIds": {"type": "array", "items": {"type": "string"}},
    "objective": {"type": "string", "description": "Objetivo da campanha, ex: queima de estoque"}
  },
  "required": ["productIds"]
}`),
	},
}
