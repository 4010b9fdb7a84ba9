package assistant

import (
	"regexp"

	"github.com/jhoicas/estoque-inteligente-api/internal/domain/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/stock"
)

// Los patrones se aplican sobre el texto plegado (minúsculas, sin acentos ni signos).
var (
	// Pedidos que necesitan otra herramienta aunque mencionen excesso o ruptura.
	toolRequestPattern = regexp.MustCompile(`\b(campanha|campanhas|calcul\w*|quanto comprar|ponto de pedido|lead time)\b`)

	excessPromoPattern = regexp.MustCompile(
		`\b(excesso|excessos|encalhad[oa]s?|parad[oa]s?|promocao|promocoes|promover|promocionar|queimar|queima|liquidar|liquidacao|sobrando)\b`)

	lowStockPattern = regexp.MustCompile(
		`\b(ruptura|rupturas|falta|faltando|faltam|acabando|acabou|sem estoque|estoque baixo|baixo estoque|pouco estoque|critic[oa]s?|repor|reposicao|zerad[oa]s?)\b`)
)

// ClassifyIntent detecta las dos preguntas frecuentes que se responden sin modelo.
// Excesso se evalúa antes que ruptura.
func ClassifyIntent(message string) assistant.Intent {
	folded := stock.Fold(message)
	if folded == "" || toolRequestPattern.MatchString(folded) {
		return assistant.IntentNone
	}
	switch {
	case excessPromoPattern.MatchString(folded):
		return assistant.IntentExcessPromo
	case lowStockPattern.MatchString(folded):
		return assistant.IntentLowStock
	}
	return assistant.IntentNone
}
