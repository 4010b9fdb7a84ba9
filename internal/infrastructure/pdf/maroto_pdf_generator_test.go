package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/estoque-inteligente-api/internal/application/inventory"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/stock"
	"github.com/jhoicas/estoque-inteligente-api/internal/infrastructure/pdf"
)

func TestFormatBRL(t *testing.T) {
	cases := map[string]string{
		"0":          "R$ 0,00",
		"12.5":       "R$ 12,50",
		"1234567.5":  "R$ 1.234.567,50",
		"-2500":      "-R$ 2.500,00",
		"999.999":    "R$ 1.000,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, pdf.FormatBRL(decimal.RequireFromString(in)), "in=%s", in)
	}
}

func TestGenerateSuggestionsPDF(t *testing.T) {
	items := []stock.PurchaseSuggestion{
		{ID: "1", SKU: "SKU-1", Name: "Arroz tipo 1 pacote de 5kg da marca da casa", Status: stock.StatusCritico,
			SuggestedQty: 90, SuggestedAction: stock.ActionBuyUrgent, PurchaseCost: decimal.NewFromInt(360)},
		{ID: "2", SKU: "SKU-2", Name: "Açúcar", Status: stock.StatusSaudavel, CoverageDays: 40,
			SuggestedAction: stock.ActionWait, PurchaseCost: decimal.Zero},
	}
	report := &appinventory.SuggestionReport{
		StoreID:            "store-1",
		GeneratedAt:        time.Now(),
		TargetCoverageDays: 30,
		Summary:            stock.SummarizeSuggestions(items),
		Items:              items,
	}

	out, err := pdf.NewMarotoPDFGenerator().GenerateSuggestionsPDF(context.Background(), report)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}
