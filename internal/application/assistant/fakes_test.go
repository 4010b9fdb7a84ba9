package assistant_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/estoque-inteligente-api/internal/application/ports"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de los puertos
// ──────────────────────────────────────────────────────────────────────────────

// fakeStockRepo aplica los filtros en memoria, como lo haría la consulta SQL.
type fakeStockRepo struct {
	mu      sync.Mutex
	rows    []entity.StockRecord
	err     error
	filters []repository.StockFilter
}

func (r *fakeStockRepo) ListStock(_ context.Context, f repository.StockFilter) ([]entity.StockRecord, error) {
	r.mu.Lock()
	r.filters = append(r.filters, f)
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []entity.StockRecord
	for _, row := range r.rows {
		if f.StoreID != "" && row.StoreID != f.StoreID {
			continue
		}
		if len(f.StatusContains) > 0 && !containsAny(row.Status, f.StatusContains) {
			continue
		}
		if f.DescriptionContains != "" &&
			!strings.Contains(strings.ToLower(row.Description), strings.ToLower(f.DescriptionContains)) {
			continue
		}
		if len(f.IDs) > 0 && !inList(row.ID, f.IDs) {
			continue
		}
		out = append(out, row)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (r *fakeStockRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.filters)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(strings.ToLower(s), strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

func inList(id string, ids []string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// scriptedModel responde según un guion por modelID y registra las llamadas.
type scriptedModel struct {
	mu      sync.Mutex
	script  map[string]func(ctx context.Context, req ports.GenerateRequest) (*ports.GenerateResult, error)
	calls   []string
	lastReq ports.GenerateRequest
}

func newScriptedModel() *scriptedModel {
	return &scriptedModel{script: map[string]func(context.Context, ports.GenerateRequest) (*ports.GenerateResult, error){}}
}

func (m *scriptedModel) on(modelID string, fn func(ctx context.Context, req ports.GenerateRequest) (*ports.GenerateResult, error)) {
	m.script[modelID] = fn
}

func (m *scriptedModel) Generate(ctx context.Context, modelID string, req ports.GenerateRequest) (*ports.GenerateResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, modelID)
	m.lastReq = req
	fn, ok := m.script[modelID]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("modelo %s sin guion", modelID)
	}
	return fn(ctx, req)
}

func (m *scriptedModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func textReply(text string) func(context.Context, ports.GenerateRequest) (*ports.GenerateResult, error) {
	return func(context.Context, ports.GenerateRequest) (*ports.GenerateResult, error) {
		return &ports.GenerateResult{Text: text, FinishReason: "stop"}, nil
	}
}

func failWith(err error) func(context.Context, ports.GenerateRequest) (*ports.GenerateResult, error) {
	return func(context.Context, ports.GenerateRequest) (*ports.GenerateResult, error) {
		return nil, err
	}
}

// stallWith simula un modelo que ejecutó herramientas y terminó sin texto.
func stallWith(results ...assistant.ToolResult) func(context.Context, ports.GenerateRequest) (*ports.GenerateResult, error) {
	return func(context.Context, ports.GenerateRequest) (*ports.GenerateResult, error) {
		calls := make([]assistant.ToolCall, 0, len(results))
		for _, r := range results {
			calls = append(calls, assistant.ToolCall{ID: r.CallID, Name: r.Tool, Arguments: json.RawMessage(`{}`)})
		}
		return &ports.GenerateResult{
			FinishReason: assistant.FinishReasonToolCalls,
			Steps:        []assistant.Step{{ToolCalls: calls, ToolResults: results}},
		}, nil
	}
}

type fakeCampaigns struct {
	payload json.RawMessage
	err     error
	got     []entity.CampaignRequest
}

func (f *fakeCampaigns) GenerateCampaign(_ context.Context, req entity.CampaignRequest) (json.RawMessage, error) {
	f.got = append(f.got, req)
	return f.payload, f.err
}

type fakeLimiter struct {
	allow bool
	keys  []string
}

func (l *fakeLimiter) Allow(key string) bool {
	l.keys = append(l.keys, key)
	return l.allow
}

type fakeConversations struct {
	history   []entity.ConversationMessage
	readErr   error
	appendErr error
	appended  []entity.ConversationMessage
}

func (c *fakeConversations) RecentMessages(_ context.Context, _ string, limit int) ([]entity.ConversationMessage, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}
	if len(c.history) > limit {
		return c.history[len(c.history)-limit:], nil
	}
	return c.history, nil
}

func (c *fakeConversations) Append(_ context.Context, msgs ...entity.ConversationMessage) error {
	if c.appendErr != nil {
		return c.appendErr
	}
	c.appended = append(c.appended, msgs...)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Datos de prueba
// ──────────────────────────────────────────────────────────────────────────────

const testStore = "store-1"

func row(id, desc, status, qty, cost, price, coverage string) entity.StockRecord {
	return entity.StockRecord{
		ID:           id,
		StoreID:      testStore,
		SKU:          "SKU-" + id,
		Description:  desc,
		Quantity:     qty,
		Cost:         cost,
		Price:        price,
		DailySales:   "1",
		CoverageDays: coverage,
		ABCClass:     "A",
		Status:       status,
	}
}

func mixedRows() []entity.StockRecord {
	return []entity.StockRecord{
		row("1", "Arroz 5kg", "🟠 Crítico", "0", "10,00", "15,00", "0"),
		row("2", "Feijão 1kg", "🔴 Ruptura", "0", "6,50", "9,90", "0"),
		row("3", "Óleo de soja", "⚪ Excesso", "300", "5,00", "8,00", "120"),
		row("4", "Açúcar 1kg", "🟢 Saudável", "40", "3,00", "4,50", "30"),
		row("5", "Café 500g", "🟡 Atenção", "8", "12,00", "18,00", "10"),
	}
}

func itemViews(n int, status string) []assistant.StockItemView {
	out := make([]assistant.StockItemView, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, assistant.StockItemView{
			ID:           fmt.Sprintf("id-%02d", i),
			SKU:          fmt.Sprintf("SKU-%02d", i),
			Name:         fmt.Sprintf("Produto %02d", i),
			Quantity:     float64(i),
			Cost:         2.5,
			Price:        4,
			MarginPct:    37.5,
			CoverageDays: float64(i * 3),
			Status:       status,
		})
	}
	return out
}
