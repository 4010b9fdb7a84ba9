// Package pdf implementa el reporte imprimible de sugerencias de compra.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Loja        │  Fecha + Cobertura alvo      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: ítems / unidades / costo total / conteo por acción │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Produto | Status | Cob. | Ação | Qtd | Custo   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda del cálculo                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appinventory "github.com/jhoicas/estoque-inteligente-api/internal/application/inventory"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/stock"
)

var _ appinventory.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorUrgent  = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa inventory.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateSuggestionsPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateSuggestionsPDF(_ context.Context, report *appinventory.SuggestionReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Sugestões de compra", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report.Summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(report.Items)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(report.TargetCoverageDays))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *appinventory.SuggestionReport) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("SUGESTÕES DE COMPRA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Loja: "+r.StoreID, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Gerado em "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(fmt.Sprintf("Cobertura alvo: %s dias", formatFloat(r.TargetCoverageDays)), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 8,
			}),
		),
	)
}

func summaryRow(s stock.SuggestionSummary) core.Row {
	label := func(l string, top float64) core.Component {
		return text.New(l, props.Text{Style: fontstyle.Bold, Size: 8, Top: top, Color: colorPrimary})
	}
	value := func(v string, top float64) core.Component {
		return text.New(v, props.Text{Size: 8, Top: top})
	}
	return row.New(22).Add(
		col.New(3).Add(
			label("Itens analisados", 2), value(strconv.Itoa(s.TotalItems), 7),
			label("Unidades sugeridas", 12), value(strconv.FormatInt(s.TotalUnits, 10), 17),
		),
		col.New(3).Add(
			label("Custo total da compra", 2), value(FormatBRL(s.TotalPurchaseCost), 7),
		),
		col.New(6).Add(
			value(fmt.Sprintf("%s: %d", stock.ActionBuyUrgent, s.ByAction[stock.ActionBuyUrgent]), 2),
			value(fmt.Sprintf("%s: %d", stock.ActionBuy, s.ByAction[stock.ActionBuy]), 7),
			value(fmt.Sprintf("%s: %d", stock.ActionBurn, s.ByAction[stock.ActionBurn]), 12),
			value(fmt.Sprintf("%s: %d", stock.ActionWait, s.ByAction[stock.ActionWait]), 17),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de sugerencias.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Produto", 3, align.Left),
		h("Status", 1, align.Center),
		h("Cob.", 1, align.Right),
		h("Ação", 2, align.Left),
		h("Qtd.", 1, align.Right),
		h("Custo", 2, align.Right),
	)
}

// tableDetailRows: una fila por sugerencia, en el orden de prioridad recibido.
func tableDetailRows(items []stock.PurchaseSuggestion) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, s := range items {
		actionProps := props.Text{Size: 7.5, Top: 1, Left: 1}
		if s.SuggestedAction == stock.ActionBuyUrgent {
			actionProps.Style = fontstyle.Bold
			actionProps.Color = colorUrgent
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(s.SKU, props.Text{Size: 7.5, Top: 1, Left: 1})),
			col.New(3).Add(text.New(clip(s.Name, 38), props.Text{Size: 7.5, Top: 1, Left: 1})),
			col.New(1).Add(text.New(string(s.Status), props.Text{Size: 6.5, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(formatFloat(s.CoverageDays), props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(string(s.SuggestedAction), actionProps)),
			col.New(1).Add(text.New(strconv.FormatInt(s.SuggestedQty, 10), props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(FormatBRL(s.PurchaseCost), props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func footerRow(target float64) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			fmt.Sprintf("Quantidade sugerida = venda diária × %s dias - estoque atual, arredondada para cima. "+
				"Itens em excesso nunca recebem sugestão de compra.", formatFloat(target)),
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// FormatBRL formatea un valor como moneda brasileña. Ej: 1234567.5 → "R$ 1.234.567,50".
func FormatBRL(v decimal.Decimal) string {
	s := v.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	out := "R$ " + groupThousands(intPart) + "," + frac
	if v.IsNegative() {
		return "-" + out
	}
	return out
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
