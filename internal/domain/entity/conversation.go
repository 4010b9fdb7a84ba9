package entity

import "time"

// Roles de mensaje de conversación.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ConversationMessage mensaje del historial de chat. El historial lo administra el
// colaborador de conversaciones; el orquestador solo lee una ventana reciente.
type ConversationMessage struct {
	ID             string
	ConversationID string
	UserID         string
	Role           string
	Content        string
	CreatedAt      *time.Time
}
