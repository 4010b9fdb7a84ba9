package assistant_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/jhoicas/estoque-inteligente-api/internal/application/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// ClassifyIntent
// ──────────────────────────────────────────────────────────────────────────────

func TestClassifyIntent(t *testing.T) {
	cases := map[string]assistant.Intent{
		"Quais produtos estão em EXCESSO?":            assistant.IntentExcessPromo,
		"o que posso colocar em promoção":             assistant.IntentExcessPromo,
		"tem produto encalhado?":                      assistant.IntentExcessPromo,
		"Quais itens estão em falta?":                 assistant.IntentLowStock,
		"mostrar ruptura":                             assistant.IntentLowStock,
		"produtos críticos":                           assistant.IntentLowStock,
		"o que está acabando no estoque":              assistant.IntentLowStock,
		"itens em ruptura ou em excesso":              assistant.IntentExcessPromo,
		"gere uma campanha com os itens em excesso":   assistant.IntentNone,
		"calcule quanto comprar do item em ruptura":   assistant.IntentNone,
		"qual o faturamento do mês?":                  assistant.IntentNone,
		"":                                            assistant.IntentNone,
		"🔥🔥":                                          assistant.IntentNone,
	}
	for msg, want := range cases {
		assert.Equal(t, want, app.ClassifyIntent(msg), "msg=%q", msg)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// FormatItemsReply
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatItemsReply_TablaLimitadaYBloqueOculto(t *testing.T) {
	items := itemViews(12, "🟠 Crítico")

	out := app.FormatItemsReply(assistant.IntentLowStock, items)

	visible, hidden, found := strings.Cut(out, "<!-- CONTEXTO_INTERNO")
	require.True(t, found, "debe incluir el bloque oculto")
	assert.True(t, strings.HasSuffix(out, "-->"))

	tableRows := 0
	for _, line := range strings.Split(visible, "\n") {
		if strings.HasPrefix(line, "| SKU-") {
			tableRows++
		}
	}
	assert.Equal(t, 10, tableRows)
	assert.Contains(t, visible, "e mais 2 itens")
	assert.Contains(t, visible, "(12)")

	for _, it := range items {
		assert.Contains(t, hidden, "id="+it.ID+";", "el bloque oculto lista todos los ítems")
	}
	assert.Contains(t, hidden, "custo=2.5;preco=4;margem=37.5%")
}

func TestFormatItemsReply_EscapaPipes(t *testing.T) {
	items := itemViews(1, "Excesso")
	items[0].Name = "Caixa | 12un"
	out := app.FormatItemsReply(assistant.IntentExcessPromo, items)
	assert.Contains(t, out, "Caixa / 12un")
	assert.NotContains(t, out, "e mais")
}

func TestHiddenContext_NoCierraComentario(t *testing.T) {
	items := itemViews(1, "x")
	items[0].ID = "a-->b"
	out := app.HiddenContext(items)
	assert.Equal(t, 1, strings.Count(out, "-->"))
}

// ──────────────────────────────────────────────────────────────────────────────
// FilterHistory
// ──────────────────────────────────────────────────────────────────────────────

func TestFilterHistory(t *testing.T) {
	var msgs []entity.ConversationMessage
	msgs = append(msgs,
		entity.ConversationMessage{Role: entity.RoleAssistant, Content: app.WelcomeReply},
		entity.ConversationMessage{Role: entity.RoleSystem, Content: "instrucciones"},
		entity.ConversationMessage{Role: entity.RoleUser, Content: "   "},
		entity.ConversationMessage{Role: entity.RoleAssistant, Content: app.TechnicalErrorReply},
	)
	for i := 0; i < 12; i++ {
		role := entity.RoleUser
		if i%2 == 1 {
			role = entity.RoleAssistant
		}
		msgs = append(msgs, entity.ConversationMessage{Role: role, Content: string(rune('a' + i))})
	}

	got := app.FilterHistory(msgs, app.HistoryWindow)

	require.Len(t, got, 10)
	assert.Equal(t, "c", got[0].Content, "se conservan los 10 más recientes")
	assert.Equal(t, "l", got[9].Content)
	for _, m := range got {
		assert.NotEqual(t, entity.RoleSystem, m.Role)
	}
}
