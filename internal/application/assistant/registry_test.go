package assistant_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/jhoicas/estoque-inteligente-api/internal/application/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/stock"
	"github.com/jhoicas/estoque-inteligente-api/pkg/logger"
)

func call(name assistant.ToolName, args string) assistant.ToolCall {
	return assistant.ToolCall{ID: "call-1", Name: name, Arguments: json.RawMessage(args)}
}

func TestRegistry_Schemas(t *testing.T) {
	tools := app.NewRegistry(&fakeStockRepo{}, nil, logger.Nop()).ForStore(testStore)

	schemas := tools.Schemas()
	require.Len(t, schemas, 3)
	names := []assistant.ToolName{schemas[0].Name, schemas[1].Name, schemas[2].Name}
	assert.ElementsMatch(t, []assistant.ToolName{
		assistant.ToolStockQuery, assistant.ToolPurchaseNeeds, assistant.ToolCampaign,
	}, names)
	for _, s := range schemas {
		assert.True(t, json.Valid(s.Parameters), "schema de %s debe ser JSON válido", s.Name)
	}
}

func TestRegistry_SchemasSonCopia(t *testing.T) {
	tools := app.NewRegistry(&fakeStockRepo{}, nil, logger.Nop()).ForStore(testStore)

	first := tools.Schemas()
	first[0].Name = "alterada"
	first[1].Description = ""

	again := app.NewRegistry(&fakeStockRepo{}, nil, logger.Nop()).ForStore(testStore).Schemas()
	assert.NotEqual(t, assistant.ToolName("alterada"), again[0].Name)
	assert.NotEmpty(t, again[1].Description)
}

func TestStockQuery_LowStock(t *testing.T) {
	repo := &fakeStockRepo{rows: mixedRows()}
	tools := app.NewRegistry(repo, nil, logger.Nop()).ForStore(testStore)

	out := tools.Execute(context.Background(), call(assistant.ToolStockQuery, `{"filterType":"low_stock"}`))

	items, ok := out.(assistant.StockItemsOutcome)
	require.True(t, ok, "se esperaba StockItemsOutcome, llegó %T", out)
	assert.Equal(t, 2, items.Count)
	assert.Equal(t, "1", items.Items[0].ID)
	assert.Equal(t, 10.0, items.Items[0].Cost)
	assert.Equal(t, "🟠 Crítico", items.Items[0].Status)

	require.Len(t, repo.filters, 1)
	assert.Equal(t, testStore, repo.filters[0].StoreID)
	assert.Equal(t, app.MaxQueryRows, repo.filters[0].Limit)
}

func TestStockQuery_DescripcionYExcesso(t *testing.T) {
	repo := &fakeStockRepo{rows: mixedRows()}
	tools := app.NewRegistry(repo, nil, logger.Nop()).ForStore(testStore)

	out := tools.Execute(context.Background(), call(assistant.ToolStockQuery, `{"filterType":"specific_item","filterValue":"café"}`))
	items, ok := out.(assistant.StockItemsOutcome)
	require.True(t, ok)
	assert.Equal(t, "5", items.Items[0].ID)

	out = tools.Execute(context.Background(), call(assistant.ToolStockQuery, `{"filterType":"excess_promo"}`))
	items, ok = out.(assistant.StockItemsOutcome)
	require.True(t, ok)
	require.Len(t, items.Items, 1)
	assert.Equal(t, "3", items.Items[0].ID)
}

func TestStockQuery_OrdenPorRelevancia(t *testing.T) {
	repo := &fakeStockRepo{rows: []entity.StockRecord{
		row("1", "Sal", "🔴 Ruptura", "0", "1,00", "2,00", "0"),
		row("2", "Azeite", "🟠 Crítico", "0", "20,00", "35,00", "0"),
		row("3", "Vinagre", "🔴 Ruptura", "0", "3,00", "5,00", "0"),
		row("4", "Farinha", "⚪ Excesso", "100", "2,00", "4,00", "150"),
		row("5", "Vinho", "⚪ Excesso", "50", "30,00", "60,00", "200"),
		row("6", "Milho", "⚪ Excesso", "10", "3,00", "5,00", "95"),
	}}
	tools := app.NewRegistry(repo, nil, logger.Nop()).ForStore(testStore)

	out := tools.Execute(context.Background(), call(assistant.ToolStockQuery, `{"filterType":"low_stock"}`))
	items, ok := out.(assistant.StockItemsOutcome)
	require.True(t, ok)
	assert.Equal(t, []string{"2", "3", "1"}, viewIDs(items.Items), "pérdida diaria desc")

	out = tools.Execute(context.Background(), call(assistant.ToolStockQuery, `{"filterType":"excess_promo"}`))
	items, ok = out.(assistant.StockItemsOutcome)
	require.True(t, ok)
	assert.Equal(t, []string{"5", "4", "6"}, viewIDs(items.Items), "capital inmovilizado desc")
}

func TestStockQuery_TopeDe50(t *testing.T) {
	var rows []entity.StockRecord
	for i := 0; i < 80; i++ {
		rows = append(rows, row(fmt.Sprint(i), "Item", "Saudável", "10", "1", "2", "30"))
	}
	tools := app.NewRegistry(&fakeStockRepo{rows: rows}, nil, logger.Nop()).ForStore(testStore)

	out := tools.Execute(context.Background(), call(assistant.ToolStockQuery, `{"filterType":"general"}`))

	items, ok := out.(assistant.StockItemsOutcome)
	require.True(t, ok)
	assert.Equal(t, 50, items.Count)
}

func TestStockQuery_VacioYError(t *testing.T) {
	tools := app.NewRegistry(&fakeStockRepo{}, nil, logger.Nop()).ForStore(testStore)
	out := tools.Execute(context.Background(), call(assistant.ToolStockQuery, `{"filterType":"low_stock"}`))
	empty, ok := out.(assistant.StockEmptyOutcome)
	require.True(t, ok)
	assert.NotEmpty(t, empty.Message)

	failing := &fakeStockRepo{err: errors.New("connection refused")}
	tools = app.NewRegistry(failing, nil, logger.Nop()).ForStore(testStore)
	out = tools.Execute(context.Background(), call(assistant.ToolStockQuery, `{"filterType":"general"}`))
	toolErr, ok := out.(assistant.ToolErrorOutcome)
	require.True(t, ok)
	assert.Equal(t, assistant.ToolStockQuery, toolErr.Tool)
	assert.NotContains(t, toolErr.Message, "connection refused", "el error interno no llega al usuario")
}

func TestStockQuery_ErrorSeLogueaComoFallaDeHerramienta(t *testing.T) {
	var buf bytes.Buffer
	failing := &fakeStockRepo{err: errors.New("connection refused")}
	tools := app.NewRegistry(failing, nil, logger.FromWriter(&buf)).ForStore(testStore)

	out := tools.Execute(context.Background(), call(assistant.ToolStockQuery, `{"filterType":"general"}`))

	toolErr, ok := out.(assistant.ToolErrorOutcome)
	require.True(t, ok)
	assert.NotContains(t, toolErr.Message, domain.ErrToolExecution.Error())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "tools", entry["component"])
	assert.Equal(t, string(assistant.ToolStockQuery), entry["tool"])
	assert.Equal(t, domain.ErrToolExecution.Error()+": connection refused", entry["error"])
}

func TestStockQuery_ArgumentosInvalidos(t *testing.T) {
	tools := app.NewRegistry(&fakeStockRepo{rows: mixedRows()}, nil, logger.Nop()).ForStore(testStore)

	out := tools.Execute(context.Background(), call(assistant.ToolStockQuery, `{"filterType":"todo"}`))
	_, ok := out.(assistant.ToolErrorOutcome)
	assert.True(t, ok)

	out = tools.Execute(context.Background(), call(assistant.ToolStockQuery, `not-json`))
	_, ok = out.(assistant.ToolErrorOutcome)
	assert.True(t, ok)

	out = tools.Execute(context.Background(), call("apagar_tudo", `{}`))
	_, ok = out.(assistant.ToolErrorOutcome)
	assert.True(t, ok)
}

func TestPurchaseNeedsTool(t *testing.T) {
	tools := app.NewRegistry(&fakeStockRepo{}, nil, logger.Nop()).ForStore(testStore)

	out := tools.Execute(context.Background(), call(assistant.ToolPurchaseNeeds,
		`{"sku":"SKU-1","currentStock":0,"monthlySales":60}`))

	needs, ok := out.(assistant.PurchaseNeedsOutcome)
	require.True(t, ok)
	assert.Equal(t, 44.0, needs.Needs.OrderPoint)
	assert.Equal(t, stock.UrgencyCritical, needs.Needs.Urgency)

	out = tools.Execute(context.Background(), call(assistant.ToolPurchaseNeeds, `{"currentStock":-1}`))
	_, ok = out.(assistant.ToolErrorOutcome)
	assert.True(t, ok)
}

func TestCampaignTool(t *testing.T) {
	campaigns := &fakeCampaigns{payload: json.RawMessage(`{"channels":{"whatsapp":"Promo!"}}`)}
	tools := app.NewRegistry(&fakeStockRepo{rows: mixedRows()}, campaigns, logger.Nop()).ForStore(testStore)

	out := tools.Execute(context.Background(), call(assistant.ToolCampaign,
		`{"productIds":["3","3"," ","4"],"objective":"queima de estoque"}`))

	c, ok := out.(assistant.CampaignOutcome)
	require.True(t, ok, "llegó %T", out)
	assert.True(t, c.HasChannels)
	assert.JSONEq(t, `{"channels":{"whatsapp":"Promo!"}}`, string(c.Payload))
	assert.JSONEq(t, string(c.Payload), string(assistant.OutcomeJSON(c)), "con channels se retransmite tal cual")

	require.Len(t, campaigns.got, 1)
	req := campaigns.got[0]
	assert.Equal(t, "queima de estoque", req.Objective)
	require.Len(t, req.Products, 2)
	assert.Equal(t, "EXCESSO", req.Products[0].Status)
}

func TestCampaignTool_Fallas(t *testing.T) {
	repo := &fakeStockRepo{rows: mixedRows()}

	tools := app.NewRegistry(repo, &fakeCampaigns{err: errors.New("webhook 500")}, logger.Nop()).ForStore(testStore)
	out := tools.Execute(context.Background(), call(assistant.ToolCampaign, `{"productIds":["3"]}`))
	_, ok := out.(assistant.ToolErrorOutcome)
	assert.True(t, ok)

	out = tools.Execute(context.Background(), call(assistant.ToolCampaign, `{"productIds":[]}`))
	_, ok = out.(assistant.ToolErrorOutcome)
	assert.True(t, ok)

	out = tools.Execute(context.Background(), call(assistant.ToolCampaign, `{"productIds":["no-existe"]}`))
	_, ok = out.(assistant.ToolErrorOutcome)
	assert.True(t, ok)
}

func viewIDs(items []assistant.StockItemView) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
