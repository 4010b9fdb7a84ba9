// Package analytics contiene el caso de uso del Dashboard de estoque: totales financieros,
// riesgo, cobertura y los tops de ruptura y excesso.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque-inteligente-api/internal/application/dto"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/repository"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/stock"
	"github.com/jhoicas/estoque-inteligente-api/pkg/logger"
)

// DashboardUseCase recalcula las métricas en cada request sobre todas las filas de la loja.
//
// Fuente de datos: StockRepository (read-only). Sin caché ni estado entre requests.
type DashboardUseCase struct {
	stockRepo  repository.StockRepository
	partitions int
	log        *logger.Logger
}

// NewDashboardUseCase construye el caso de uso. partitions ≤ 1 agrega en secuencia.
func NewDashboardUseCase(stockRepo repository.StockRepository, partitions int, log *logger.Logger) *DashboardUseCase {
	return &DashboardUseCase{
		stockRepo:  stockRepo,
		partitions: partitions,
		log:        log.Component("dashboard"),
	}
}

// GetMetrics construye el DashboardMetricsDTO de la loja indicada.
//
//  1. ListStock(store)          → filas crudas
//  2. NormalizeAll              → ítems tipados
//  3. AggregateParallel(n)      → un acumulador por partición, combinados al final
func (uc *DashboardUseCase) GetMetrics(ctx context.Context, storeID string) (*dto.DashboardMetricsDTO, error) {
	if storeID == "" {
		return nil, fmt.Errorf("%w: store_id es obligatorio", domain.ErrInvalidInput)
	}

	records, err := uc.stockRepo.ListStock(ctx, repository.StockFilter{StoreID: storeID})
	if err != nil {
		return nil, fmt.Errorf("dashboard: listar estoque: %w", err)
	}

	m := stock.AggregateParallel(stock.NormalizeAll(records), uc.partitions)
	uc.log.Debug().Str("store_id", storeID).Int("items", m.TotalItems).
		Int("rupture", m.RuptureCount).Int("excess", m.ExcessCount).Msg("métricas calculadas")

	return toDashboardDTO(m), nil
}

func toDashboardDTO(m stock.DashboardMetrics) *dto.DashboardMetricsDTO {
	out := &dto.DashboardMetricsDTO{
		TotalItems:       m.TotalItems,
		InventoryValue:   m.InventoryValue.Round(2),
		RevenuePotential: m.RevenuePotential.Round(2),
		ProjectedProfit:  m.ProjectedProfit.Round(2),
		AverageMargin:    m.AverageMargin,
		ExcessValue:      m.ExcessValue.Round(2),
		RuptureCount:     m.RuptureCount,
		ExcessCount:      m.ExcessCount,
		HealthyCount:     m.HealthyCount,
		RuptureShare:     m.RuptureShare,
		HealthyShare:     m.HealthyShare,
		CoverageBuckets:  make([]dto.CoverageBucketDTO, 0, len(m.CoverageBuckets)),
		TopRupture:       make([]dto.RuptureMoverDTO, 0, len(m.TopRupture)),
		TopExcess:        make([]dto.ExcessMoverDTO, 0, len(m.TopExcess)),
	}
	for _, b := range m.CoverageBuckets {
		out.CoverageBuckets = append(out.CoverageBuckets, dto.CoverageBucketDTO{Label: b.Label, Value: b.Value.Round(2)})
	}
	for _, r := range m.TopRupture {
		out.TopRupture = append(out.TopRupture, dto.RuptureMoverDTO{
			ID:                 r.ID,
			SKU:                r.SKU,
			Name:               r.Name,
			DailySales:         r.DailySales,
			EstimatedDailyLoss: r.EstimatedDailyLoss.Round(2),
		})
	}
	for _, e := range m.TopExcess {
		out.TopExcess = append(out.TopExcess, dto.ExcessMoverDTO{
			ID:           e.ID,
			SKU:          e.SKU,
			Name:         e.Name,
			Quantity:     e.Quantity,
			CoverageDays: e.CoverageDays,
			CapitalTied:  e.CapitalTied.Round(2),
		})
	}
	return out
}
