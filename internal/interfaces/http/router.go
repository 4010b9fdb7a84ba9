package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/estoque-inteligente-api/internal/application/analytics"
	appassistant "github.com/jhoicas/estoque-inteligente-api/internal/application/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DashboardUC   *appanalytics.DashboardUseCase
	Replenishment *inventory.ReplenishmentUseCase
	ChatUC        *appassistant.ChatUseCase
	JWTSecret     string
}

// Router registra las rutas de la API. Todas requieren Bearer Token con store_id.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/metrics", dashboardHandler.GetMetrics)

	purchases := api.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.Replenishment)
	purchases.Get("/suggestions", purchaseHandler.GetSuggestions)
	purchases.Get("/suggestions/export.xlsx", purchaseHandler.ExportXLSX)
	purchases.Get("/suggestions/report.pdf", purchaseHandler.ReportPDF)

	assistantGroup := api.Group("/assistant")
	assistantHandler := NewAssistantHandler(deps.ChatUC)
	assistantGroup.Post("/chat", assistantHandler.Chat)
	assistantGroup.Post("/purchase-needs", purchaseHandler.PurchaseNeeds)
}
