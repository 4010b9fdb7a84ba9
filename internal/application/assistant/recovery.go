package assistant

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jhoicas/estoque-inteligente-api/internal/application/ports"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/stock"
	"github.com/jhoicas/estoque-inteligente-api/pkg/logger"
)

// Recovery arma una respuesta a partir de los resultados de herramientas cuando el
// modelo se detiene después de una tool call sin texto final.
type Recovery struct {
	log *logger.Logger
}

// NewRecovery construye el componente.
func NewRecovery(log *logger.Logger) *Recovery {
	return &Recovery{log: log.Component("recovery")}
}

// Recover recorre los pasos del más reciente al más antiguo y, dentro de cada paso, los
// resultados del último al primero. Usa el primer resultado no vacío. Con intención de
// promoción y lista filtrada vacía vuelve a consultar excess_promo una sola vez.
// Devuelve false si no encontró nada utilizable.
func (r *Recovery) Recover(ctx context.Context, steps []assistant.Step, intent assistant.Intent, tools ports.ToolExecutor) (string, bool) {
	requeried := false

	for i := len(steps) - 1; i >= 0; i-- {
		results := steps[i].ToolResults
		for j := len(results) - 1; j >= 0; j-- {
			switch o := results[j].Outcome.(type) {
			case assistant.StockItemsOutcome:
				if len(o.Items) == 0 {
					continue
				}
				items := filterForIntent(intent, o.Items)
				if len(items) == 0 && intent == assistant.IntentExcessPromo && !requeried && tools != nil {
					requeried = true
					items = r.requeryExcess(ctx, tools)
				}
				if len(items) == 0 {
					continue
				}
				return FormatItemsReply(intent, items), true

			case assistant.StockEmptyOutcome:
				if msg := strings.TrimSpace(o.Message); msg != "" {
					return msg, true
				}
			case assistant.ToolErrorOutcome:
				if msg := strings.TrimSpace(o.Message); msg != "" {
					return msg, true
				}
			case assistant.PurchaseNeedsOutcome:
				return FormatPurchaseNeeds(o.Needs), true
			case assistant.CampaignOutcome:
				if len(o.Payload) > 0 {
					return FormatCampaign(o), true
				}
			}
		}
	}
	return "", false
}

func (r *Recovery) requeryExcess(ctx context.Context, tools ports.ToolExecutor) []assistant.StockItemView {
	args, _ := json.Marshal(assistant.StockQueryArgs{FilterType: assistant.FilterExcessPromo})
	out := tools.Execute(ctx, assistant.ToolCall{
		ID:        "recovery-excess",
		Name:      assistant.ToolStockQuery,
		Arguments: args,
	})
	items, ok := out.(assistant.StockItemsOutcome)
	if !ok {
		r.log.Debug().Msg("re-consulta de excesso sin ítems")
		return nil
	}
	return filterForIntent(assistant.IntentExcessPromo, items.Items)
}

// filterForIntent conserva los ítems cuyo status corresponde a la intención.
func filterForIntent(intent assistant.Intent, items []assistant.StockItemView) []assistant.StockItemView {
	var keep func(stock.Status) bool
	switch intent {
	case assistant.IntentLowStock:
		keep = stock.Status.IsRupture
	case assistant.IntentExcessPromo:
		keep = func(s stock.Status) bool { return s == stock.StatusExcesso }
	default:
		return items
	}
	out := make([]assistant.StockItemView, 0, len(items))
	for _, it := range items {
		if keep(stock.NormalizeStatus(it.Status)) {
			out = append(out, it)
		}
	}
	return out
}
