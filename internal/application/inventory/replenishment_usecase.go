// Package inventory contiene los casos de uso de reposición: sugerencias de compra por
// cobertura objetivo, sus reportes descargables y el cálculo de punto de pedido.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/estoque-inteligente-api/internal/application/dto"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/repository"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/stock"
	"github.com/jhoicas/estoque-inteligente-api/pkg/logger"
)

// maxTargetCoverageDays tope razonable para target_days recibido por query.
const maxTargetCoverageDays = 365

// ReplenishmentUseCase genera la lista de sugerencias de compra de una loja.
// Combina cantidad, venta diaria y cobertura de cada fila con la cobertura objetivo.
type ReplenishmentUseCase struct {
	stockRepo     repository.StockRepository
	spreadsheet   SpreadsheetExporter
	pdf           ReportPDFGenerator
	defaultTarget float64
	now           func() time.Time
	log           *logger.Logger
}

// NewReplenishmentUseCase construye el caso de uso. spreadsheet y pdf pueden ser nil si
// las descargas no están habilitadas.
func NewReplenishmentUseCase(
	stockRepo repository.StockRepository,
	spreadsheet SpreadsheetExporter,
	pdf ReportPDFGenerator,
	defaultTargetCoverageDays float64,
	log *logger.Logger,
) *ReplenishmentUseCase {
	if defaultTargetCoverageDays <= 0 {
		defaultTargetCoverageDays = 30
	}
	return &ReplenishmentUseCase{
		stockRepo:     stockRepo,
		spreadsheet:   spreadsheet,
		pdf:           pdf,
		defaultTarget: defaultTargetCoverageDays,
		now:           time.Now,
		log:           log.Component("replenishment"),
	}
}

// Suggestions devuelve las sugerencias ordenadas (prioridad de acción desc, costo desc).
// targetDays 0 usa el valor configurado.
func (uc *ReplenishmentUseCase) Suggestions(ctx context.Context, storeID string, targetDays float64) (*dto.PurchaseSuggestionsDTO, error) {
	report, err := uc.buildReport(ctx, storeID, targetDays)
	if err != nil {
		return nil, err
	}

	countByAction := make(map[string]int, len(report.Summary.ByAction))
	for action, n := range report.Summary.ByAction {
		countByAction[string(action)] = n
	}

	items := make([]dto.PurchaseSuggestionDTO, 0, len(report.Items))
	for _, s := range report.Items {
		items = append(items, dto.PurchaseSuggestionDTO{
			ID:              s.ID,
			SKU:             s.SKU,
			Name:            s.Name,
			Status:          string(s.Status),
			CurrentStock:    s.Quantity,
			DailySales:      s.DailySales,
			CoverageDays:    s.CoverageDays,
			SuggestedQty:    s.SuggestedQty,
			SuggestedAction: string(s.SuggestedAction),
			UnitCost:        s.UnitCost.Round(2),
			PurchaseCost:    s.PurchaseCost.Round(2),
			Priority:        s.SuggestedAction.Priority(),
		})
	}

	return &dto.PurchaseSuggestionsDTO{
		TargetCoverageDays: report.TargetCoverageDays,
		TotalPurchaseCost:  report.Summary.TotalPurchaseCost.Round(2),
		TotalUnits:         report.Summary.TotalUnits,
		CountByAction:      countByAction,
		Items:              items,
	}, nil
}

// ExportXLSX genera la planilla de sugerencias.
func (uc *ReplenishmentUseCase) ExportXLSX(ctx context.Context, storeID string, targetDays float64) ([]byte, error) {
	if uc.spreadsheet == nil {
		return nil, fmt.Errorf("replenishment: exportación xlsx no configurada")
	}
	report, err := uc.buildReport(ctx, storeID, targetDays)
	if err != nil {
		return nil, err
	}
	out, err := uc.spreadsheet.ExportSuggestions(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("replenishment: generar xlsx: %w", err)
	}
	return out, nil
}

// ReportPDF genera el reporte PDF de sugerencias.
func (uc *ReplenishmentUseCase) ReportPDF(ctx context.Context, storeID string, targetDays float64) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("replenishment: reporte pdf no configurado")
	}
	report, err := uc.buildReport(ctx, storeID, targetDays)
	if err != nil {
		return nil, err
	}
	out, err := uc.pdf.GenerateSuggestionsPDF(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("replenishment: generar pdf: %w", err)
	}
	return out, nil
}

// PurchaseNeeds calcula el punto de pedido de un SKU a partir de la venta mensual.
func (uc *ReplenishmentUseCase) PurchaseNeeds(req dto.PurchaseNeedsRequest) (*stock.PurchaseNeeds, error) {
	in := stock.PurchaseNeedsInput{
		SKU:             req.SKU,
		CurrentStock:    req.CurrentStock,
		MonthlySales:    req.MonthlySales,
		LeadTimeDays:    req.LeadTimeDays,
		SafetyStockDays: req.SafetyStockDays,
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	needs := stock.CalculatePurchaseNeeds(in)
	return &needs, nil
}

func (uc *ReplenishmentUseCase) buildReport(ctx context.Context, storeID string, targetDays float64) (*SuggestionReport, error) {
	if storeID == "" {
		return nil, fmt.Errorf("%w: store_id es obligatorio", domain.ErrInvalidInput)
	}
	if targetDays < 0 || targetDays > maxTargetCoverageDays {
		return nil, fmt.Errorf("%w: target_days debe estar entre 1 y %d", domain.ErrInvalidInput, maxTargetCoverageDays)
	}
	if targetDays == 0 {
		targetDays = uc.defaultTarget
	}

	records, err := uc.stockRepo.ListStock(ctx, repository.StockFilter{StoreID: storeID})
	if err != nil {
		return nil, fmt.Errorf("replenishment: listar estoque: %w", err)
	}

	items := stock.Suggest(stock.NormalizeAll(records), targetDays)
	summary := stock.SummarizeSuggestions(items)
	uc.log.Debug().Str("store_id", storeID).Float64("target_days", targetDays).
		Int("items", summary.TotalItems).Int64("units", summary.TotalUnits).Msg("sugerencias calculadas")

	return &SuggestionReport{
		StoreID:            storeID,
		GeneratedAt:        uc.now(),
		TargetCoverageDays: targetDays,
		Summary:            summary,
		Items:              items,
	}, nil
}
