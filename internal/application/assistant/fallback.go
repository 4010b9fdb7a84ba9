package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/estoque-inteligente-api/internal/application/ports"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/assistant"
	"github.com/jhoicas/estoque-inteligente-api/pkg/logger"
)

// FallbackResult Succeeded | Exhausted.
type FallbackResult interface {
	isFallbackResult()
}

// Succeeded un modelo produjo la respuesta. Recovered: salió de los resultados de
// herramientas. Degraded: no hubo nada que recuperar y Text es el mensaje genérico.
type Succeeded struct {
	Text      string
	ModelID   string
	Recovered bool
	Degraded  bool
	Log       assistant.AttemptLog
}

// Exhausted todos los modelos fallaron o respondieron vacío.
type Exhausted struct {
	Log assistant.AttemptLog
}

func (Succeeded) isFallbackResult() {}
func (Exhausted) isFallbackResult() {}

// FallbackExecutor recorre la lista de modelos en orden, de a uno. Gana el primer éxito.
type FallbackExecutor struct {
	model          ports.LanguageModel
	models         []string
	attemptTimeout time.Duration
	recovery       *Recovery
	log            *logger.Logger
}

// NewFallbackExecutor construye el executor. attemptTimeout ≤ 0 deja solo el deadline del turno.
func NewFallbackExecutor(
	model ports.LanguageModel,
	models []string,
	attemptTimeout time.Duration,
	recovery *Recovery,
	log *logger.Logger,
) *FallbackExecutor {
	return &FallbackExecutor{
		model:          model,
		models:         append([]string(nil), models...),
		attemptTimeout: attemptTimeout,
		recovery:       recovery,
		log:            log.Component("fallback"),
	}
}

// Run ejecuta el bucle de intentos. Un contexto cancelado corta el bucle y el resultado
// es Exhausted con los intentos hechos hasta ese momento.
func (f *FallbackExecutor) Run(ctx context.Context, req ports.GenerateRequest, intent assistant.Intent) FallbackResult {
	var attempts assistant.AttemptLog
	for _, modelID := range f.models {
		if err := ctx.Err(); err != nil {
			return Exhausted{Log: attempts.Append(assistant.ModelAttempt{
				ModelID: modelID, Outcome: assistant.OutcomeProviderError, ErrorMessage: "turno cancelado: " + err.Error(),
			})}
		}

		attempt, done := f.attempt(ctx, modelID, req, intent)
		attempts = attempts.Append(attempt.record)
		if done {
			attempt.result.Log = attempts
			return attempt.result
		}
	}
	return Exhausted{Log: attempts}
}

type attemptOutcome struct {
	record assistant.ModelAttempt
	result Succeeded
}

func (f *FallbackExecutor) attempt(ctx context.Context, modelID string, req ports.GenerateRequest, intent assistant.Intent) (attemptOutcome, bool) {
	actx, cancel := f.attemptContext(ctx)
	defer cancel()

	res, err := f.model.Generate(actx, modelID, req)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			msg = "timeout del intento: " + msg
		}
		f.log.Warn().Str("model", modelID).Str("outcome", string(assistant.OutcomeProviderError)).
			Err(err).Msg("intento de modelo falló")
		return attemptOutcome{record: assistant.ModelAttempt{
			ModelID: modelID, Outcome: assistant.OutcomeProviderError, ErrorMessage: msg,
		}}, false
	}
	if res == nil {
		res = &ports.GenerateResult{}
	}

	if text := strings.TrimSpace(res.Text); text != "" {
		return attemptOutcome{
			record: assistant.ModelAttempt{ModelID: modelID, Outcome: assistant.OutcomeSuccess},
			result: Succeeded{Text: text, ModelID: modelID},
		}, true
	}

	if res.FinishReason == assistant.FinishReasonToolCalls || res.HasToolCalls() {
		record := assistant.ModelAttempt{ModelID: modelID, Outcome: assistant.OutcomeToolStall}
		// la recuperación puede re-consultar herramientas; usa el contexto del turno
		if text, ok := f.recovery.Recover(ctx, res.Steps, intent, req.Tools); ok {
			f.log.Info().Str("model", modelID).Str("outcome", string(assistant.OutcomeToolStall)).
				Msg("respuesta recuperada de resultados de herramientas")
			return attemptOutcome{record: record, result: Succeeded{Text: text, ModelID: modelID, Recovered: true}}, true
		}
		f.log.Warn().Str("model", modelID).Str("outcome", string(assistant.OutcomeToolStall)).
			Msg("modelo se detuvo sin texto y sin resultados recuperables")
		return attemptOutcome{record: record, result: Succeeded{Text: DegradedReply, ModelID: modelID, Degraded: true}}, true
	}

	f.log.Warn().Str("model", modelID).Str("outcome", string(assistant.OutcomeEmptyResponse)).
		Str("finish_reason", res.FinishReason).Msg("modelo devolvió respuesta vacía")
	return attemptOutcome{record: assistant.ModelAttempt{
		ModelID: modelID, Outcome: assistant.OutcomeEmptyResponse, ErrorMessage: "respuesta vacía",
	}}, false
}

func (f *FallbackExecutor) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.attemptTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, f.attemptTimeout)
}
