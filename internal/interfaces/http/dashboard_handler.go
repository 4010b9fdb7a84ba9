package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/estoque-inteligente-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del dashboard de estoque.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetMetrics godoc
// @Summary      Indicadores del dashboard de estoque
// @Description  Valor de inventario, receita potencial, lucro projetado, margem média,
//               participação de ruptura e saudável, faixas de cobertura y tops de ruptura/excesso.
//               Se recalcula en cada request sobre todas las filas de la loja del token.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardMetricsDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/metrics [get]
func (h *DashboardHandler) GetMetrics(c *fiber.Ctx) error {
	storeID, ok := requireStore(c)
	if !ok {
		return nil
	}
	metrics, err := h.uc.GetMetrics(c.UserContext(), storeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(metrics)
}
