package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-inteligente-api/internal/domain/stock"
)

// SuggestionReport datos de entrada de los reportes de sugerencias (XLSX y PDF).
// Items llega ya ordenado por prioridad.
type SuggestionReport struct {
	StoreID            string
	GeneratedAt        time.Time
	TargetCoverageDays float64
	Summary            stock.SuggestionSummary
	Items              []stock.PurchaseSuggestion
}

// SpreadsheetExporter genera la planilla de sugerencias.
type SpreadsheetExporter interface {
	ExportSuggestions(ctx context.Context, report *SuggestionReport) ([]byte, error)
}

// ReportPDFGenerator genera el reporte imprimible de sugerencias.
type ReportPDFGenerator interface {
	GenerateSuggestionsPDF(ctx context.Context, report *SuggestionReport) ([]byte, error)
}
