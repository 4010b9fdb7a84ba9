package dto

// ChatRequest body de POST /api/assistant/chat.
type ChatRequest struct {
	ConversationID string `json:"conversation_id,omitempty"` // vacío = nueva conversación
	Message        string `json:"message"`
}

// ChatResponseDTO respuesta de un turno. Reply es markdown y puede incluir un bloque
// <!-- CONTEXTO_INTERNO --> que el front no renderiza.
type ChatResponseDTO struct {
	ConversationID string `json:"conversation_id"`
	TurnID         string `json:"turn_id"`
	Reply          string `json:"reply"`
	Source         string `json:"source"` // shortcut|model|recovered|degraded|failed
	Model          string `json:"model,omitempty"`
}
