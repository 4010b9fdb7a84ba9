package assistant

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jhoicas/estoque-inteligente-api/internal/domain/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/stock"
)

// MaxVisibleRows filas visibles de la tabla markdown.
const MaxVisibleRows = 10

// Delimitadores del bloque oculto que el front no renderiza y el modelo lee en turnos siguientes.
const (
	hiddenContextOpen  = "<!-- CONTEXTO_INTERNO"
	hiddenContextClose = "-->"
)

// FormatItemsReply arma la respuesta de una lista de ítems: título, tabla con hasta
// MaxVisibleRows filas y el bloque oculto con los campos internos de todos los ítems.
func FormatItemsReply(intent assistant.Intent, items []assistant.StockItemView) string {
	var b strings.Builder

	switch intent {
	case assistant.IntentLowStock:
		fmt.Fprintf(&b, "🔴 **Itens em ruptura ou estoque crítico** (%d)\n\n", len(items))
	case assistant.IntentExcessPromo:
		fmt.Fprintf(&b, "⚪ **Itens em excesso, candidatos a promoção** (%d)\n\n", len(items))
	default:
		fmt.Fprintf(&b, "📦 **Itens encontrados** (%d)\n\n", len(items))
	}

	b.WriteString("| SKU | Produto | Estoque | Cobertura (dias) | Status |\n")
	b.WriteString("|---|---|---:|---:|---|\n")
	for i, it := range items {
		if i == MaxVisibleRows {
			break
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			cell(it.SKU), cell(it.Name), num(it.Quantity), num(it.CoverageDays), cell(it.Status))
	}
	if extra := len(items) - MaxVisibleRows; extra > 0 {
		fmt.Fprintf(&b, "\n_... e mais %d itens._\n", extra)
	}

	switch intent {
	case assistant.IntentLowStock:
		b.WriteString("\nPosso calcular a necessidade de compra de algum desses itens.\n")
	case assistant.IntentExcessPromo:
		b.WriteString("\nPosso gerar uma campanha de promoção com esses produtos.\n")
	}

	b.WriteString("\n")
	b.WriteString(HiddenContext(items))
	return b.String()
}

// HiddenContext bloque de comentario HTML con id, sku, custo, preço, margem y cobertura.
func HiddenContext(items []assistant.StockItemView) string {
	var b strings.Builder
	b.WriteString(hiddenContextOpen)
	b.WriteString("\n")
	for _, it := range items {
		fmt.Fprintf(&b, "id=%s;sku=%s;custo=%s;preco=%s;margem=%s%%;cobertura=%s;estoque=%s\n",
			hidden(it.ID), hidden(it.SKU), num(it.Cost), num(it.Price), num(it.MarginPct),
			num(it.CoverageDays), num(it.Quantity))
	}
	b.WriteString(hiddenContextClose)
	return b.String()
}

// FormatPurchaseNeeds resumen corto de calcular_necessidade_compra.
func FormatPurchaseNeeds(n stock.PurchaseNeeds) string {
	return fmt.Sprintf(
		"📊 **Necessidade de compra – %s**\n\n"+
			"- Venda diária média: %s\n"+
			"- Consumo no lead time (%s dias): %s\n"+
			"- Estoque de segurança (%s dias): %s\n"+
			"- Ponto de pedido: %s\n"+
			"- Estoque atual: %s\n"+
			"- **Quantidade sugerida: %s**\n"+
			"- Urgência: %s\n",
		n.SKU, num(n.DailySales), num(n.LeadTimeDays), num(n.LeadTimeConsumption),
		num(n.SafetyStockDays), num(n.SafetyStockQty), num(n.OrderPoint), num(n.CurrentStock),
		num(n.SuggestedQty), n.Urgency)
}

// FormatCampaign resumen de una campaña generada.
func FormatCampaign(o assistant.CampaignOutcome) string {
	if o.HasChannels {
		return "✅ Campanha gerada com sucesso. Os conteúdos por canal já estão disponíveis."
	}
	return "✅ Campanha enviada para geração. Você receberá o resultado em instantes."
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "/")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// hidden evita que un valor cierre el comentario o rompa el formato clave=valor.
func hidden(s string) string {
	s = strings.ReplaceAll(s, "--", "-")
	s = strings.ReplaceAll(s, ";", ",")
	return strings.ReplaceAll(s, "\n", " ")
}

// num formatea con hasta 2 decimales.
func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
