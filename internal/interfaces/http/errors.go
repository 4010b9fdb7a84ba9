package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	appassistant "github.com/jhoicas/estoque-inteligente-api/internal/application/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/application/dto"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain"
)

// respondError traduce errores de dominio a HTTP. Los errores no clasificados salen
// como 500 con mensaje genérico; el detalle queda en los logs de la capa de aplicación.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: appassistant.RateLimitedReply})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrCampaignUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "CAMPAIGN_UNAVAILABLE", Message: "serviço de campanhas indisponível"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "erro interno"})
	}
}

// requireStore corta con 401 si el token no trajo loja.
func requireStore(c *fiber.Ctx) (string, bool) {
	storeID := GetStoreID(c)
	if storeID == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Code: "UNAUTHORIZED", Message: "store_id no encontrado en el token",
		})
		return "", false
	}
	return storeID, true
}
