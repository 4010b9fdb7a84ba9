package assistant_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/jhoicas/estoque-inteligente-api/internal/application/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/application/ports"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/assistant"
	"github.com/jhoicas/estoque-inteligente-api/pkg/logger"
)

const (
	modelA = "anthropic:claude-3-5-haiku-20241022"
	modelB = "gemini:gemini-1.5-flash"
)

func newExecutor(model ports.LanguageModel, timeout time.Duration, models ...string) *app.FallbackExecutor {
	return app.NewFallbackExecutor(model, models, timeout, app.NewRecovery(logger.Nop()), logger.Nop())
}

func baseRequest(tools ports.ToolExecutor) ports.GenerateRequest {
	return ports.GenerateRequest{
		System:   "system",
		Messages: []assistant.Message{{Role: "user", Content: "oi"}},
		Tools:    tools,
		MaxSteps: 5,
	}
}

// Caso 1: el primer modelo falla y el segundo responde "OK".
func TestFallback_PrimerModeloFallaSegundoResponde(t *testing.T) {
	model := newScriptedModel()
	model.on(modelA, failWith(errors.New("anthropic 529 overloaded")))
	model.on(modelB, textReply("OK"))

	res := newExecutor(model, 0, modelA, modelB).Run(context.Background(), baseRequest(nil), assistant.IntentNone)

	ok, isOK := res.(app.Succeeded)
	require.True(t, isOK, "se esperaba Succeeded, llegó %T", res)
	assert.Equal(t, "OK", ok.Text)
	assert.Equal(t, modelB, ok.ModelID)
	assert.Equal(t, 1, ok.Log.Count(assistant.OutcomeProviderError))
	assert.Equal(t, modelA, ok.Log[0].ModelID)
	assert.Equal(t, []string{modelA, modelB}, model.calls, "intentos secuenciales en orden")
}

// Caso 2: el primer éxito corta el bucle.
func TestFallback_PrimerExitoGana(t *testing.T) {
	model := newScriptedModel()
	model.on(modelA, textReply("primeiro"))
	model.on(modelB, textReply("segundo"))

	res := newExecutor(model, 0, modelA, modelB).Run(context.Background(), baseRequest(nil), assistant.IntentNone)

	ok := res.(app.Succeeded)
	assert.Equal(t, "primeiro", ok.Text)
	assert.Equal(t, 1, model.callCount())
}

// Caso 3: todos fallan o responden vacío → Exhausted con el log completo.
func TestFallback_TodosFallan(t *testing.T) {
	model := newScriptedModel()
	model.on(modelA, failWith(errors.New("401 invalid x-api-key")))
	model.on(modelB, textReply("   "))

	res := newExecutor(model, 0, modelA, modelB).Run(context.Background(), baseRequest(nil), assistant.IntentNone)

	ex, ok := res.(app.Exhausted)
	require.True(t, ok)
	require.Len(t, ex.Log, 2)
	assert.Equal(t, assistant.OutcomeProviderError, ex.Log[0].Outcome)
	assert.Equal(t, assistant.OutcomeEmptyResponse, ex.Log[1].Outcome)
	assert.Contains(t, ex.Log.String(), "invalid x-api-key", "el log de diagnóstico conserva el detalle")
}

// Caso 4: stall con 10 ítems → tabla + bloque oculto.
func TestFallback_StallRecuperaTabla(t *testing.T) {
	items := itemViews(10, "Saudável")
	model := newScriptedModel()
	model.on(modelA, stallWith(assistant.ToolResult{
		CallID: "c1", Tool: assistant.ToolStockQuery,
		Outcome: assistant.StockItemsOutcome{Count: len(items), Items: items},
	}))

	res := newExecutor(model, 0, modelA).Run(context.Background(), baseRequest(nil), assistant.IntentNone)

	ok := res.(app.Succeeded)
	assert.True(t, ok.Recovered)
	assert.False(t, ok.Degraded)
	assert.Contains(t, ok.Text, "<!-- CONTEXTO_INTERNO")
	for _, it := range items {
		assert.Contains(t, ok.Text, "id="+it.ID+";")
	}
	assert.Equal(t, 10, strings.Count(ok.Text, "| SKU-"))
	assert.Equal(t, assistant.OutcomeToolStall, ok.Log[0].Outcome)
}

// Caso 5: stall sin resultados utilizables → mensaje degradado, sin pasar al siguiente modelo.
func TestFallback_StallSinResultadosDegrada(t *testing.T) {
	model := newScriptedModel()
	model.on(modelA, func(context.Context, ports.GenerateRequest) (*ports.GenerateResult, error) {
		return &ports.GenerateResult{FinishReason: assistant.FinishReasonToolCalls}, nil
	})
	model.on(modelB, textReply("nunca"))

	res := newExecutor(model, 0, modelA, modelB).Run(context.Background(), baseRequest(nil), assistant.IntentNone)

	ok := res.(app.Succeeded)
	assert.True(t, ok.Degraded)
	assert.Equal(t, app.DegradedReply, ok.Text)
	assert.Equal(t, 1, model.callCount())
}

// Caso 6: timeout por intento → providerError y sigue con el siguiente modelo.
func TestFallback_TimeoutPorIntento(t *testing.T) {
	model := newScriptedModel()
	model.on(modelA, func(ctx context.Context, _ ports.GenerateRequest) (*ports.GenerateResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	model.on(modelB, textReply("rápido"))

	res := newExecutor(model, 20*time.Millisecond, modelA, modelB).Run(context.Background(), baseRequest(nil), assistant.IntentNone)

	ok := res.(app.Succeeded)
	assert.Equal(t, "rápido", ok.Text)
	assert.Contains(t, ok.Log[0].ErrorMessage, "timeout del intento")
}

// Caso 7: turno cancelado → no se intentan más modelos.
func TestFallback_TurnoCancelado(t *testing.T) {
	model := newScriptedModel()
	model.on(modelA, textReply("OK"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := newExecutor(model, 0, modelA, modelB).Run(ctx, baseRequest(nil), assistant.IntentNone)

	ex, ok := res.(app.Exhausted)
	require.True(t, ok)
	assert.Equal(t, 0, model.callCount())
	require.Len(t, ex.Log, 1)
	assert.Contains(t, ex.Log[0].ErrorMessage, "turno cancelado")
}
