package repository

import (
	"context"

	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
)

// StockFilter predicados de lectura sobre la tabla de estoque. Los campos vacíos no filtran.
// StatusContains se combina con OR; el resto con AND.
type StockFilter struct {
	StoreID             string
	StatusContains      []string
	ABCClass            string
	DescriptionContains string
	IDs                 []string
	MinCoverage         *float64
	MaxCoverage         *float64
	Limit               int // 0 = sin límite
}

// StockRepository define el puerto de lectura de filas de estoque.
// Las filas llegan crudas; la normalización ocurre en el dominio.
type StockRepository interface {
	ListStock(ctx context.Context, filter StockFilter) ([]entity.StockRecord, error)
}
