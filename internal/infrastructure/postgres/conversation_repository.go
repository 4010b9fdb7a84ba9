package postgres

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-inteligente-api/internal/domain"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/repository"
)

var _ repository.ConversationRepository = (*ConversationRepo)(nil)

// ConversationRepo historial del asistente en la tabla chat_messages
// (id, conversation_id, user_id, role, content, created_at).
type ConversationRepo struct {
	q Querier
}

// NewConversationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConversationRepository(q Querier) *ConversationRepo {
	return &ConversationRepo{q: q}
}

// RecentMessages lee los últimos limit mensajes y los devuelve del más antiguo al más reciente.
func (r *ConversationRepo) RecentMessages(ctx context.Context, conversationID string, limit int) ([]entity.ConversationMessage, error) {
	query := `
		SELECT id::text, conversation_id::text, COALESCE(user_id::text, ''), role, content, created_at
		FROM chat_messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	defer rows.Close()

	var list []entity.ConversationMessage
	for rows.Next() {
		var m entity.ConversationMessage
		var createdAt time.Time
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.UserID, &m.Role, &m.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.CreatedAt = &createdAt
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent messages rows: %w", err)
	}
	slices.Reverse(list)
	return list, nil
}

// Append inserta los mensajes en un solo batch, en el orden recibido.
func (r *ConversationRepo) Append(ctx context.Context, msgs ...entity.ConversationMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	query := `
		INSERT INTO chat_messages (id, conversation_id, user_id, role, content, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, COALESCE($6, now()))`

	batch := &pgx.Batch{}
	for _, m := range msgs {
		batch.Queue(query, m.ID, m.ConversationID, m.UserID, m.Role, m.Content, m.CreatedAt)
	}

	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range msgs {
		if _, err := br.Exec(); err != nil {
			return wrapAppendErr(err)
		}
	}
	return nil
}

func wrapAppendErr(err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("append message: %w: id duplicado", domain.ErrInvalidInput)
	}
	return fmt.Errorf("append message: %w", err)
}
