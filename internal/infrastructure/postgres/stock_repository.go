package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
//
// Tabla stock_items: una fila por SKU y loja. Las columnas numéricas se leen como texto
// (::text) porque la carga importa planillas con formato local; el dominio las normaliza.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de estoque. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// coverageNumeric expresión que convierte cobertura_dias texto ("12,5") a numeric; NULL si no es número.
const coverageNumeric = `NULLIF(regexp_replace(replace(coverage_days::text, ',', '.'), '[^0-9.\-]', '', 'g'), '')::numeric`

// ListStock lista las filas de la loja aplicando los filtros opcionales.
// Orden estable por id para que Limit devuelva siempre las mismas filas.
func (r *StockRepo) ListStock(ctx context.Context, f repository.StockFilter) ([]entity.StockRecord, error) {
	w := &whereBuilder{}
	if f.StoreID != "" {
		w.add("store_id = ?", f.StoreID)
	}
	if len(f.StatusContains) > 0 {
		ors := make([]string, 0, len(f.StatusContains))
		for _, s := range f.StatusContains {
			ors = append(ors, "status ILIKE "+w.arg(likePattern(s)))
		}
		w.conds = append(w.conds, "("+strings.Join(ors, " OR ")+")")
	}
	if f.ABCClass != "" {
		w.add("upper(trim(abc_class)) = ?", strings.ToUpper(strings.TrimSpace(f.ABCClass)))
	}
	if f.DescriptionContains != "" {
		p := likePattern(f.DescriptionContains)
		w.add("(description ILIKE ? OR category ILIKE ? OR sku ILIKE ?)", p, p, p)
	}
	if len(f.IDs) > 0 {
		w.add("id::text = ANY(?)", f.IDs)
	}
	if f.MinCoverage != nil {
		w.add(coverageNumeric+" >= ?", *f.MinCoverage)
	}
	if f.MaxCoverage != nil {
		w.add(coverageNumeric+" <= ?", *f.MaxCoverage)
	}

	query := `
		SELECT id::text, store_id::text, COALESCE(sku, ''), COALESCE(description, ''),
		       COALESCE(category, ''), COALESCE(quantity::text, ''), COALESCE(cost::text, ''),
		       COALESCE(price::text, ''), COALESCE(daily_sales::text, ''),
		       COALESCE(coverage_days::text, ''), COALESCE(abc_class, ''), COALESCE(status, ''),
		       updated_at
		FROM stock_items` + w.sql() + `
		ORDER BY id`
	if f.Limit > 0 {
		query += " LIMIT " + w.arg(f.Limit)
	}

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var list []entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(
			&s.ID, &s.StoreID, &s.SKU, &s.Description, &s.Category, &s.Quantity, &s.Cost,
			&s.Price, &s.DailySales, &s.CoverageDays, &s.ABCClass, &s.Status, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stock rows: %w", err)
	}
	return list, nil
}
