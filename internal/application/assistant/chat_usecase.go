package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/estoque-inteligente-api/internal/application/dto"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/repository"
	"github.com/jhoicas/estoque-inteligente-api/pkg/logger"
)

// historyFetch mensajes leídos del repositorio antes de filtrar.
const historyFetch = 3 * HistoryWindow

// MaxMessageLength tope de caracteres de un mensaje del usuario.
const MaxMessageLength = 4000

// ChatInput entrada del caso de uso.
type ChatInput struct {
	UserID         string
	StoreID        string
	ConversationID string
	Message        string
}

// ChatUseCase carga el historial, ejecuta el turno y persiste mensaje y respuesta.
type ChatUseCase struct {
	conversations repository.ConversationRepository
	orchestrator  *Orchestrator
	now           func() time.Time
	log           *logger.Logger
}

// NewChatUseCase construye el caso de uso.
func NewChatUseCase(conversations repository.ConversationRepository, orchestrator *Orchestrator, log *logger.Logger) *ChatUseCase {
	return &ChatUseCase{
		conversations: conversations,
		orchestrator:  orchestrator,
		now:           time.Now,
		log:           log.Component("chat"),
	}
}

// Chat procesa un mensaje. Devuelve domain.ErrInvalidInput si el mensaje es vacío o
// demasiado largo y domain.ErrRateLimited si el usuario excedió el límite; cualquier
// otra falla llega como respuesta genérica dentro del DTO.
func (uc *ChatUseCase) Chat(ctx context.Context, in ChatInput) (*dto.ChatResponseDTO, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: el mensaje es obligatorio", domain.ErrInvalidInput)
	}
	if len([]rune(message)) > MaxMessageLength {
		return nil, fmt.Errorf("%w: el mensaje supera %d caracteres", domain.ErrInvalidInput, MaxMessageLength)
	}

	convID := strings.TrimSpace(in.ConversationID)
	if convID == "" {
		convID = uuid.NewString()
	}

	var history []entity.ConversationMessage
	if in.ConversationID != "" {
		msgs, err := uc.conversations.RecentMessages(ctx, convID, historyFetch)
		if err != nil {
			// sin historial el turno sigue funcionando
			uc.log.Warn().Err(err).Str("conversation_id", convID).Msg("no se pudo leer el historial")
		}
		history = msgs
	}

	result := uc.orchestrator.SubmitTurn(ctx, TurnRequest{
		UserID:  in.UserID,
		StoreID: in.StoreID,
		Message: message,
		History: FilterHistory(history, HistoryWindow),
	})
	if errors.Is(result.Err, domain.ErrRateLimited) {
		return nil, result.Err
	}

	now := uc.now()
	userAt, replyAt := now, now.Add(time.Millisecond)
	err := uc.conversations.Append(context.WithoutCancel(ctx),
		entity.ConversationMessage{
			ID: uuid.NewString(), ConversationID: convID, UserID: in.UserID,
			Role: entity.RoleUser, Content: message, CreatedAt: &userAt,
		},
		entity.ConversationMessage{
			ID: result.TurnID, ConversationID: convID, UserID: in.UserID,
			Role: entity.RoleAssistant, Content: result.Reply, CreatedAt: &replyAt,
		},
	)
	if err != nil {
		uc.log.Error().Err(err).Str("conversation_id", convID).Str("turn_id", result.TurnID).
			Msg("no se pudo guardar el turno")
	}

	return &dto.ChatResponseDTO{
		ConversationID: convID,
		TurnID:         result.TurnID,
		Reply:          result.Reply,
		Source:         string(result.Source),
		Model:          result.ModelID,
	}, nil
}
