package http

import (
	"github.com/gofiber/fiber/v2"

	appassistant "github.com/jhoicas/estoque-inteligente-api/internal/application/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/application/dto"
)

// AssistantHandler maneja el chat del asistente de estoque.
type AssistantHandler struct {
	uc *appassistant.ChatUseCase
}

// NewAssistantHandler construye el handler.
func NewAssistantHandler(uc *appassistant.ChatUseCase) *AssistantHandler {
	return &AssistantHandler{uc: uc}
}

// Chat godoc
// @Summary      Turno de conversación con el asistente
// @Description  Responde preguntas frecuentes de ruptura y excesso sin invocar modelos; el resto
//               pasa por la cadena de modelos con herramientas. Las fallas de modelo llegan como
//               respuesta genérica con source=failed; solo el límite de tasa devuelve 429.
// @Tags         assistant
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChatRequest  true  "conversation_id (opcional) y message"
// @Success      200   {object}  dto.ChatResponseDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/assistant/chat [post]
func (h *AssistantHandler) Chat(c *fiber.Ctx) error {
	storeID, ok := requireStore(c)
	if !ok {
		return nil
	}
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "cuerpo de la petición inválido",
		})
	}

	out, err := h.uc.Chat(c.UserContext(), appassistant.ChatInput{
		UserID:         GetUserID(c),
		StoreID:        storeID,
		ConversationID: req.ConversationID,
		Message:        req.Message,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
