package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/estoque-inteligente-api/internal/application/analytics"
	appassistant "github.com/jhoicas/estoque-inteligente-api/internal/application/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/application/inventory"
	"github.com/jhoicas/estoque-inteligente-api/internal/application/ports"
	infraai "github.com/jhoicas/estoque-inteligente-api/internal/infrastructure/ai"
	"github.com/jhoicas/estoque-inteligente-api/internal/infrastructure/campaign"
	infrapdf "github.com/jhoicas/estoque-inteligente-api/internal/infrastructure/pdf"
	"github.com/jhoicas/estoque-inteligente-api/internal/infrastructure/postgres"
	"github.com/jhoicas/estoque-inteligente-api/internal/infrastructure/ratelimit"
	"github.com/jhoicas/estoque-inteligente-api/internal/infrastructure/spreadsheet"
	httpRouter "github.com/jhoicas/estoque-inteligente-api/internal/interfaces/http"
	"github.com/jhoicas/estoque-inteligente-api/pkg/config"
	"github.com/jhoicas/estoque-inteligente-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Strs("models", cfg.AI.Models).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	stockRepo := postgres.NewStockRepository(pool)
	conversationRepo := postgres.NewConversationRepository(pool)

	// Analítica y sugerencias de compra
	dashboardUC := appanalytics.NewDashboardUseCase(stockRepo, cfg.Analytics.Partitions, log)
	replenishmentUC := inventory.NewReplenishmentUseCase(
		stockRepo,
		spreadsheet.NewExcelizeExporter(),
		infrapdf.NewMarotoPDFGenerator(),
		cfg.Analytics.TargetCoverageDays,
		log,
	)

	// Asistente: proveedores → runner multi-paso → fallback → orquestador
	runner := infraai.NewStepRunner(log,
		infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey),
		infraai.NewGeminiService(cfg.AI.GeminiAPIKey),
	)

	var campaigns ports.CampaignGenerator
	if cfg.Campaign.WebhookURL != "" {
		campaigns = campaign.NewWebhookClient(cfg.Campaign.WebhookURL, cfg.Campaign.Timeout)
	} else {
		log.Warn().Msg("CAMPAIGN_WEBHOOK_URL vacío: gerar_campanha responderá con error")
	}

	registry := appassistant.NewRegistry(stockRepo, campaigns, log)
	fallback := appassistant.NewFallbackExecutor(
		runner, cfg.AI.Models, cfg.AI.AttemptTimeout, appassistant.NewRecovery(log), log,
	)
	limiter := ratelimit.NewKeyedLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	orchestrator := appassistant.NewOrchestrator(registry, fallback, limiter, appassistant.OrchestratorConfig{
		MaxSteps:    cfg.AI.MaxSteps,
		TurnTimeout: cfg.AI.TurnTimeout,
	}, log)
	chatUC := appassistant.NewChatUseCase(conversationRepo, orchestrator, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.AI.TurnTimeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Estoque Inteligente API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		DashboardUC:   dashboardUC,
		Replenishment: replenishmentUC,
		ChatUC:        chatUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
