// Package spreadsheet genera la planilla XLSX de sugerencias de compra con excelize.
package spreadsheet

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	appinventory "github.com/jhoicas/estoque-inteligente-api/internal/application/inventory"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/stock"
)

var _ appinventory.SpreadsheetExporter = (*ExcelizeExporter)(nil)

// Nombres de hoja.
const (
	SheetSuggestions = "Sugestões"
	SheetSummary     = "Resumo"
)

var suggestionHeader = []any{
	"SKU", "Produto", "Status", "Estoque", "Venda diária", "Cobertura (dias)",
	"Ação sugerida", "Qtd. sugerida", "Custo unitário", "Custo da compra",
}

// ExcelizeExporter implementa inventory.SpreadsheetExporter.
type ExcelizeExporter struct{}

// NewExcelizeExporter construye el exportador.
func NewExcelizeExporter() *ExcelizeExporter { return &ExcelizeExporter{} }

// ExportSuggestions arma dos hojas: el detalle en el orden recibido y un resumen por acción.
func (e *ExcelizeExporter) ExportSuggestions(_ context.Context, report *appinventory.SuggestionReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSuggestions); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#00467F"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	if err := f.SetSheetRow(SheetSuggestions, "A1", &suggestionHeader); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(suggestionHeader))
	_ = f.SetCellStyle(SheetSuggestions, "A1", lastCol+"1", headerStyle)

	for i, s := range report.Items {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{
			s.SKU, s.Name, string(s.Status), s.Quantity, s.DailySales, s.CoverageDays,
			string(s.SuggestedAction), s.SuggestedQty,
			s.UnitCost.Round(2).InexactFloat64(), s.PurchaseCost.Round(2).InexactFloat64(),
		}
		if err := f.SetSheetRow(SheetSuggestions, cell, &row); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}
	if n := len(report.Items); n > 0 {
		_ = f.SetCellStyle(SheetSuggestions, "I2", fmt.Sprintf("J%d", n+1), moneyStyle)
	}
	_ = f.SetColWidth(SheetSuggestions, "B", "B", 40)
	_ = f.SetColWidth(SheetSuggestions, "C", "J", 16)
	_ = f.SetPanes(SheetSuggestions, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	if err := writeSummary(f, report, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, report *appinventory.SuggestionReport, headerStyle int) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("xlsx: hoja resumen: %w", err)
	}
	rows := [][]any{
		{"Loja", report.StoreID},
		{"Gerado em", report.GeneratedAt.Format("02/01/2006 15:04")},
		{"Cobertura alvo (dias)", report.TargetCoverageDays},
		{"Itens", report.Summary.TotalItems},
		{"Unidades sugeridas", report.Summary.TotalUnits},
		{"Custo total da compra", report.Summary.TotalPurchaseCost.Round(2).InexactFloat64()},
		{},
		{"Ação", "Itens"},
	}
	for _, a := range []stock.Action{stock.ActionBuyUrgent, stock.ActionBuy, stock.ActionBurn, stock.ActionWait} {
		rows = append(rows, []any{string(a), report.Summary.ByAction[a]})
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &r); err != nil {
			return fmt.Errorf("xlsx: resumen fila %d: %w", i+1, err)
		}
	}
	_ = f.SetCellStyle(SheetSummary, "A8", "B8", headerStyle)
	_ = f.SetColWidth(SheetSummary, "A", "A", 26)
	return nil
}
