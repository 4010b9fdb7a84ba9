package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/estoque-inteligente-api/internal/application/ports"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
	"github.com/jhoicas/estoque-inteligente-api/pkg/logger"
)

// TurnRequest entrada tipada de un turno. History ya viene filtrado (ver FilterHistory).
type TurnRequest struct {
	UserID  string
	StoreID string
	Message string
	History []assistant.Message
}

// Orchestrator ejecuta un turno de chat: atajo por intención → límite de tasa →
// fallback entre modelos (con recuperación de herramientas).
type Orchestrator struct {
	registry    *Registry
	fallback    *FallbackExecutor
	limiter     ports.RateLimiter
	maxSteps    int
	turnTimeout time.Duration
	now         func() time.Time
	log         *logger.Logger
}

// OrchestratorConfig parámetros del orquestador.
type OrchestratorConfig struct {
	MaxSteps    int
	TurnTimeout time.Duration
}

// NewOrchestrator construye el orquestador. limiter puede ser nil (sin límite).
func NewOrchestrator(
	registry *Registry,
	fallback *FallbackExecutor,
	limiter ports.RateLimiter,
	cfg OrchestratorConfig,
	log *logger.Logger,
) *Orchestrator {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 1
	}
	return &Orchestrator{
		registry:    registry,
		fallback:    fallback,
		limiter:     limiter,
		maxSteps:    cfg.MaxSteps,
		turnTimeout: cfg.TurnTimeout,
		now:         time.Now,
		log:         log.Component("orchestrator"),
	}
}

// SubmitTurn procesa un mensaje y devuelve siempre un resultado con Reply apto para el
// usuario. Err queda en domain.ErrRateLimited o domain.ErrAllModelsFailed cuando aplica.
func (o *Orchestrator) SubmitTurn(ctx context.Context, req TurnRequest) assistant.TurnResult {
	turnID := uuid.NewString()
	log := o.log.With().Str("turn_id", turnID).Str("user_id", req.UserID).Logger()
	message := strings.TrimSpace(req.Message)

	intent := ClassifyIntent(message)
	if intent != assistant.IntentNone {
		out := o.registry.QueryStock(ctx, req.StoreID, assistant.StockQueryArgs{FilterType: intent.Filter()})
		if items, ok := out.(assistant.StockItemsOutcome); ok && len(items.Items) > 0 {
			log.Info().Str("intent", string(intent)).Int("items", items.Count).Msg("turno resuelto por atajo")
			return assistant.TurnResult{
				TurnID: turnID,
				Reply:  FormatItemsReply(intent, items.Items),
				Source: assistant.SourceShortcut,
			}
		}
		log.Debug().Str("intent", string(intent)).Msg("atajo sin resultados, sigue al modelo")
	}

	if o.limiter != nil && !o.limiter.Allow(req.UserID) {
		log.Warn().Msg("límite de mensajes excedido")
		return assistant.TurnResult{
			TurnID: turnID,
			Reply:  RateLimitedReply,
			Source: assistant.SourceRateLimited,
			Err:    domain.ErrRateLimited,
		}
	}

	if o.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.turnTimeout)
		defer cancel()
	}

	messages := make([]assistant.Message, 0, len(req.History)+1)
	messages = append(messages, req.History...)
	messages = append(messages, assistant.Message{Role: entity.RoleUser, Content: message})

	result := o.fallback.Run(ctx, ports.GenerateRequest{
		System:   SystemPrompt(o.now()),
		Messages: messages,
		Tools:    o.registry.ForStore(req.StoreID),
		MaxSteps: o.maxSteps,
	}, intent)

	switch r := result.(type) {
	case Succeeded:
		source := assistant.SourceModel
		switch {
		case r.Degraded:
			source = assistant.SourceDegraded
		case r.Recovered:
			source = assistant.SourceRecovered
		}
		log.Info().Str("model", r.ModelID).Str("source", string(source)).
			Int("attempts", len(r.Log)).Msg("turno completado")
		if len(r.Log) > 1 {
			log.Warn().Str("attempts", r.Log.String()).Msg("turno necesitó fallback")
		}
		return assistant.TurnResult{
			TurnID:   turnID,
			Reply:    r.Text,
			Source:   source,
			ModelID:  r.ModelID,
			Attempts: r.Log,
		}
	case Exhausted:
		log.Error().Str("attempts", r.Log.String()).Int("models", len(r.Log)).
			Msg("todos los modelos fallaron")
		return assistant.TurnResult{
			TurnID:   turnID,
			Reply:    TechnicalErrorReply,
			Source:   assistant.SourceFailed,
			Attempts: r.Log,
			Err:      domain.ErrAllModelsFailed,
		}
	}

	return assistant.TurnResult{TurnID: turnID, Reply: TechnicalErrorReply, Source: assistant.SourceFailed, Err: domain.ErrAllModelsFailed}
}
