package assistant

import (
	"strings"

	"github.com/jhoicas/estoque-inteligente-api/internal/domain/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
)

// HistoryWindow mensajes previos que ve el modelo.
const HistoryWindow = 10

// Respuestas fijas del asistente. Se excluyen del historial porque no aportan contexto.
const (
	WelcomeReply        = "Olá! Sou o assistente de estoque. Posso mostrar itens em ruptura ou em excesso, calcular necessidade de compra e gerar campanhas."
	DegradedReply       = "A ferramenta foi executada, mas não consegui resumir o resultado. Tente reformular a pergunta."
	TechnicalErrorReply = "Desculpe, tive um problema técnico ao processar sua mensagem. Tente novamente em alguns instantes."
	RateLimitedReply    = "Você enviou muitas mensagens em pouco tempo. Aguarde um momento e tente novamente."
)

var boilerplate = []string{WelcomeReply, DegradedReply, TechnicalErrorReply, RateLimitedReply}

// FilterHistory devuelve la ventana de los últimos limit mensajes útiles, en orden
// cronológico. Descarta vacíos, mensajes de sistema y respuestas fijas.
func FilterHistory(msgs []entity.ConversationMessage, limit int) []assistant.Message {
	kept := make([]assistant.Message, 0, len(msgs))
	for _, m := range msgs {
		content := strings.TrimSpace(m.Content)
		if content == "" || isBoilerplate(content) {
			continue
		}
		switch m.Role {
		case entity.RoleUser, entity.RoleAssistant:
			kept = append(kept, assistant.Message{Role: m.Role, Content: content})
		}
	}
	if limit > 0 && len(kept) > limit {
		kept = kept[len(kept)-limit:]
	}
	return kept
}

func isBoilerplate(content string) bool {
	for _, b := range boilerplate {
		if content == b {
			return true
		}
	}
	return false
}
