package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-inteligente-api/internal/application/dto"
	"github.com/jhoicas/estoque-inteligente-api/internal/application/inventory"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

// PurchaseHandler expone las sugerencias de compra y sus exportaciones.
type PurchaseHandler struct {
	uc *inventory.ReplenishmentUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *inventory.ReplenishmentUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// GetSuggestions godoc
// @Summary      Sugestões de compra por SKU
// @Description  Clasifica cada SKU en Comprar Urgente, Comprar, Queimar Estoque o Aguardar
//               y calcula la cantidad para alcanzar la cobertura alvo.
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        target_days  query  number  false  "Cobertura alvo en días (default TARGET_COVERAGE_DAYS, max 365)"
// @Success      200  {object}  dto.PurchaseSuggestionsDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/purchases/suggestions [get]
func (h *PurchaseHandler) GetSuggestions(c *fiber.Ctx) error {
	storeID, req, ok := h.parse(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Suggestions(c.UserContext(), storeID, req.TargetDays)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportXLSX godoc
// @Summary      Planilla XLSX de sugestões de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        target_days  query  number  false  "Cobertura alvo en días"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchases/suggestions/export.xlsx [get]
func (h *PurchaseHandler) ExportXLSX(c *fiber.Ctx) error {
	storeID, req, ok := h.parse(c)
	if !ok {
		return nil
	}
	data, err := h.uc.ExportXLSX(c.UserContext(), storeID, req.TargetDays)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, data, mimeXLSX, "xlsx")
}

// ReportPDF godoc
// @Summary      Relatório PDF de sugestões de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      application/pdf
// @Param        target_days  query  number  false  "Cobertura alvo en días"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchases/suggestions/report.pdf [get]
func (h *PurchaseHandler) ReportPDF(c *fiber.Ctx) error {
	storeID, req, ok := h.parse(c)
	if !ok {
		return nil
	}
	data, err := h.uc.ReportPDF(c.UserContext(), storeID, req.TargetDays)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, data, mimePDF, "pdf")
}

// PurchaseNeeds godoc
// @Summary      Necessidade de compra de un SKU (ponto de pedido)
// @Description  Mismo cálculo que la herramienta calcular_necessidade_compra del asistente.
// @Tags         assistant
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseNeedsRequest  true  "sku, current_stock, monthly_sales, lead_time_days, safety_stock_days"
// @Success      200   {object}  stock.PurchaseNeeds
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/assistant/purchase-needs [post]
func (h *PurchaseHandler) PurchaseNeeds(c *fiber.Ctx) error {
	if _, ok := requireStore(c); !ok {
		return nil
	}
	var req dto.PurchaseNeedsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "cuerpo de la petición inválido",
		})
	}
	out, err := h.uc.PurchaseNeeds(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *PurchaseHandler) parse(c *fiber.Ctx) (string, dto.PurchaseSuggestionsRequest, bool) {
	var req dto.PurchaseSuggestionsRequest
	storeID, ok := requireStore(c)
	if !ok {
		return "", req, false
	}
	if err := c.QueryParser(&req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
		return "", req, false
	}
	return storeID, req, true
}

func sendFile(c *fiber.Ctx, data []byte, mime, ext string) error {
	name := fmt.Sprintf("sugestoes-compra-%s.%s", time.Now().Format("2006-01-02"), ext)
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(data)
}
