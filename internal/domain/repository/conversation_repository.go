package repository

import (
	"context"

	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
)

// ConversationRepository historial de conversaciones del asistente.
type ConversationRepository interface {
	// RecentMessages devuelve hasta limit mensajes, del más antiguo al más reciente.
	RecentMessages(ctx context.Context, conversationID string, limit int) ([]entity.ConversationMessage, error)
	// Append persiste los mensajes en orden.
	Append(ctx context.Context, msgs ...entity.ConversationMessage) error
}
