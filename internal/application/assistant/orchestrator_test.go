package assistant_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/jhoicas/estoque-inteligente-api/internal/application/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/application/ports"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
	"github.com/jhoicas/estoque-inteligente-api/pkg/logger"
)

type orchestratorDeps struct {
	repo    *fakeStockRepo
	model   *scriptedModel
	limiter *fakeLimiter
	log     *logger.Logger
}

func newOrchestrator(deps orchestratorDeps, models ...string) *app.Orchestrator {
	registry := app.NewRegistry(deps.repo, nil, logger.Nop())
	fallback := newExecutor(deps.model, 0, models...)
	var limiter ports.RateLimiter
	if deps.limiter != nil {
		limiter = deps.limiter
	}
	log := deps.log
	if log == nil {
		log = logger.Nop()
	}
	return app.NewOrchestrator(registry, fallback, limiter, app.OrchestratorConfig{MaxSteps: 5}, log)
}

func TestSubmitTurn_AtajoNoLlamaAlModelo(t *testing.T) {
	deps := orchestratorDeps{
		repo:    &fakeStockRepo{rows: mixedRows()},
		model:   newScriptedModel(),
		limiter: &fakeLimiter{allow: false},
	}

	res := newOrchestrator(deps, modelA).SubmitTurn(context.Background(), app.TurnRequest{
		UserID: "u1", StoreID: testStore, Message: "Quais produtos estão em ruptura?",
	})

	assert.Equal(t, assistant.SourceShortcut, res.Source)
	assert.NoError(t, res.Err)
	assert.NotEmpty(t, res.TurnID)
	assert.Contains(t, res.Reply, "<!-- CONTEXTO_INTERNO")
	assert.Contains(t, res.Reply, "Arroz 5kg")
	assert.Equal(t, 0, deps.model.callCount())
	assert.Empty(t, deps.limiter.keys, "el atajo no consume el límite de mensajes")
}

func TestSubmitTurn_AtajoOrdenaPorPerdidaDiaria(t *testing.T) {
	var rows []entity.StockRecord
	for i := 1; i <= 12; i++ {
		rows = append(rows, row(fmt.Sprintf("%02d", i), fmt.Sprintf("Item %02d", i), "🔴 Ruptura", "0", "1,00", fmt.Sprintf("%d,00", i), "0"))
	}
	deps := orchestratorDeps{repo: &fakeStockRepo{rows: rows}, model: newScriptedModel()}

	res := newOrchestrator(deps, modelA).SubmitTurn(context.Background(), app.TurnRequest{
		UserID: "u1", StoreID: testStore, Message: "Quais produtos estão em ruptura?",
	})

	require.Equal(t, assistant.SourceShortcut, res.Source)
	table, _, _ := strings.Cut(res.Reply, "<!-- CONTEXTO_INTERNO")
	assert.Less(t, strings.Index(table, "| SKU-12 |"), strings.Index(table, "| SKU-11 |"))
	assert.Contains(t, table, "| SKU-03 |")
	assert.NotContains(t, table, "| SKU-01 |", "los de menor pérdida quedan fuera de la tabla visible")
	assert.Contains(t, res.Reply, "sku=SKU-01;")
}

func TestSubmitTurn_AtajoVacioPasaAlModelo(t *testing.T) {
	deps := orchestratorDeps{repo: &fakeStockRepo{}, model: newScriptedModel()}
	deps.model.on(modelA, textReply("Nenhum item em falta."))

	res := newOrchestrator(deps, modelA).SubmitTurn(context.Background(), app.TurnRequest{
		UserID: "u1", StoreID: testStore, Message: "itens em falta",
	})

	assert.Equal(t, assistant.SourceModel, res.Source)
	assert.Equal(t, "Nenhum item em falta.", res.Reply)
	assert.Equal(t, modelA, res.ModelID)

	req := deps.model.lastReq
	require.NotEmpty(t, req.Messages)
	assert.Equal(t, "itens em falta", req.Messages[len(req.Messages)-1].Content)
	assert.NotNil(t, req.Tools)
	assert.Equal(t, 5, req.MaxSteps)
	assert.Contains(t, req.System, "consultar_estoque")
}

func TestSubmitTurn_LimiteExcedido(t *testing.T) {
	deps := orchestratorDeps{
		repo:    &fakeStockRepo{},
		model:   newScriptedModel(),
		limiter: &fakeLimiter{allow: false},
	}
	deps.model.on(modelA, textReply("nunca"))

	res := newOrchestrator(deps, modelA).SubmitTurn(context.Background(), app.TurnRequest{
		UserID: "u9", StoreID: testStore, Message: "qual o faturamento?",
	})

	assert.ErrorIs(t, res.Err, domain.ErrRateLimited)
	assert.Equal(t, app.RateLimitedReply, res.Reply)
	assert.Equal(t, assistant.SourceRateLimited, res.Source)
	assert.Equal(t, 0, deps.model.callCount())
	assert.Equal(t, []string{"u9"}, deps.limiter.keys)
}

func TestSubmitTurn_TodosFallanRespuestaGenerica(t *testing.T) {
	deps := orchestratorDeps{repo: &fakeStockRepo{}, model: newScriptedModel(), limiter: &fakeLimiter{allow: true}}
	deps.model.on(modelA, failWith(errors.New("anthropic: 401 invalid x-api-key")))
	deps.model.on(modelB, failWith(errors.New("gemini: quota exceeded")))

	res := newOrchestrator(deps, modelA, modelB).SubmitTurn(context.Background(), app.TurnRequest{
		UserID: "u1", StoreID: testStore, Message: "olá",
	})

	assert.ErrorIs(t, res.Err, domain.ErrAllModelsFailed)
	assert.Equal(t, app.TechnicalErrorReply, res.Reply)
	assert.Equal(t, assistant.SourceFailed, res.Source)
	assert.NotContains(t, res.Reply, "x-api-key", "el detalle del proveedor no llega al usuario")
	require.Len(t, res.Attempts, 2)
}

func TestSubmitTurn_IntentosSoloEnLogDelServidor(t *testing.T) {
	var buf bytes.Buffer
	deps := orchestratorDeps{repo: &fakeStockRepo{}, model: newScriptedModel(), log: logger.FromWriter(&buf)}
	deps.model.on(modelA, failWith(errors.New("anthropic: 401 invalid x-api-key")))
	deps.model.on(modelB, failWith(errors.New("gemini: quota exceeded")))

	res := newOrchestrator(deps, modelA, modelB).SubmitTurn(context.Background(), app.TurnRequest{
		UserID: "u1", StoreID: testStore, Message: "olá",
	})

	logged := buf.String()
	assert.Contains(t, logged, "todos los modelos fallaron")
	assert.Contains(t, logged, modelA)
	assert.Contains(t, logged, "x-api-key")
	assert.Contains(t, logged, "quota exceeded")
	assert.Contains(t, logged, res.TurnID)

	assert.Equal(t, app.TechnicalErrorReply, res.Reply)
	assert.NotContains(t, res.Reply, modelA)
	assert.NotContains(t, res.Reply, "quota exceeded")
}

func TestSubmitTurn_StallRecuperado(t *testing.T) {
	deps := orchestratorDeps{repo: &fakeStockRepo{}, model: newScriptedModel()}
	items := itemViews(3, "Saudável")
	deps.model.on(modelA, stallWith(assistant.ToolResult{
		CallID: "c1", Tool: assistant.ToolStockQuery,
		Outcome: assistant.StockItemsOutcome{Count: len(items), Items: items},
	}))

	res := newOrchestrator(deps, modelA).SubmitTurn(context.Background(), app.TurnRequest{
		UserID: "u1", StoreID: testStore, Message: "me mostre o estoque de açúcar",
	})

	assert.Equal(t, assistant.SourceRecovered, res.Source)
	assert.NoError(t, res.Err)
	assert.Contains(t, res.Reply, "id=id-02;")
}

func TestSubmitTurn_SinLimitador(t *testing.T) {
	deps := orchestratorDeps{repo: &fakeStockRepo{}, model: newScriptedModel()}
	deps.model.on(modelA, textReply("ok"))

	res := newOrchestrator(deps, modelA).SubmitTurn(context.Background(), app.TurnRequest{UserID: "u1", Message: "oi"})

	assert.Equal(t, "ok", res.Reply)
	assert.Len(t, res.Attempts, 1)
}
