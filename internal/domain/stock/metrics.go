package stock

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TopMovers tamaño de las listas de ruptura y excesso del dashboard.
const TopMovers = 5

// Rangos de cobertura (días). El bucket i cubre (bounds[i-1], bounds[i]]; el primero
// incluye el 0 y coberturas negativas, el último no tiene techo.
var (
	coverageBounds = []float64{7, 15, 30, 60}
	coverageLabels = []string{"0-7 dias", "8-15 dias", "16-30 dias", "31-60 dias", "60+ dias"}
)

var hundred = decimal.NewFromInt(100)

// CoverageBucket valor de estoque (no cantidad de ítems) dentro de un rango de cobertura.
type CoverageBucket struct {
	Label string
	Value decimal.Decimal
}

// RuptureMover ítem en ruptura ordenado por pérdida diaria estimada (venta diaria × precio).
type RuptureMover struct {
	ID                 string
	SKU                string
	Name               string
	DailySales         float64
	EstimatedDailyLoss decimal.Decimal
}

// ExcessMover ítem en excesso ordenado por capital parado (cantidad × costo).
type ExcessMover struct {
	ID           string
	SKU          string
	Name         string
	Quantity     float64
	CoverageDays float64
	CapitalTied  decimal.Decimal
}

// DashboardMetrics agregado completo del dashboard. Se recalcula en cada request.
type DashboardMetrics struct {
	TotalItems       int
	InventoryValue   decimal.Decimal
	RevenuePotential decimal.Decimal
	ProjectedProfit  decimal.Decimal
	AverageMargin    decimal.Decimal // %
	ExcessValue      decimal.Decimal // capital parado en ítems EXCESSO
	RuptureCount     int
	ExcessCount      int
	HealthyCount     int
	RuptureShare     decimal.Decimal // %
	HealthyShare     decimal.Decimal // %
	CoverageBuckets  []CoverageBucket
	TopRupture       []RuptureMover
	TopExcess        []ExcessMover
}

// Accumulator reducción parcial. Totales y contadores son aditivos; las listas top
// se recortan a TopMovers en cada paso y se vuelven a ordenar al combinar.
type Accumulator struct {
	items            int
	inventoryValue   decimal.Decimal
	revenuePotential decimal.Decimal
	excessValue      decimal.Decimal
	ruptureCount     int
	excessCount      int
	healthyCount     int
	buckets          []decimal.Decimal
	topRupture       []RuptureMover
	topExcess        []ExcessMover
}

// NewAccumulator crea un acumulador vacío.
func NewAccumulator() *Accumulator {
	buckets := make([]decimal.Decimal, len(coverageLabels))
	for i := range buckets {
		buckets[i] = decimal.Zero
	}
	return &Accumulator{
		inventoryValue:   decimal.Zero,
		revenuePotential: decimal.Zero,
		excessValue:      decimal.Zero,
		buckets:          buckets,
	}
}

// Add incorpora un ítem.
func (a *Accumulator) Add(it NormalizedItem) {
	stockValue := it.StockValue()

	a.items++
	a.inventoryValue = a.inventoryValue.Add(stockValue)
	a.revenuePotential = a.revenuePotential.Add(it.RevenuePotential())

	switch {
	case it.Status.IsRupture():
		a.ruptureCount++
		a.topRupture = keepTopRupture(append(a.topRupture, RuptureMover{
			ID:                 it.ID,
			SKU:                it.SKU,
			Name:               it.Name,
			DailySales:         it.DailySales,
			EstimatedDailyLoss: it.DailyLoss(),
		}))
	case it.Status == StatusExcesso:
		a.excessCount++
		a.excessValue = a.excessValue.Add(stockValue)
		a.topExcess = keepTopExcess(append(a.topExcess, ExcessMover{
			ID:           it.ID,
			SKU:          it.SKU,
			Name:         it.Name,
			Quantity:     it.Quantity,
			CoverageDays: it.CoverageDays,
			CapitalTied:  stockValue,
		}))
	case it.Status == StatusSaudavel:
		a.healthyCount++
	}

	if it.Quantity > 0 {
		idx := bucketIndex(it.CoverageDays)
		a.buckets[idx] = a.buckets[idx].Add(stockValue)
	}
}

// Merge suma otro parcial a este.
func (a *Accumulator) Merge(b *Accumulator) {
	a.items += b.items
	a.inventoryValue = a.inventoryValue.Add(b.inventoryValue)
	a.revenuePotential = a.revenuePotential.Add(b.revenuePotential)
	a.excessValue = a.excessValue.Add(b.excessValue)
	a.ruptureCount += b.ruptureCount
	a.excessCount += b.excessCount
	a.healthyCount += b.healthyCount
	for i := range a.buckets {
		a.buckets[i] = a.buckets[i].Add(b.buckets[i])
	}
	a.topRupture = keepTopRupture(append(a.topRupture, b.topRupture...))
	a.topExcess = keepTopExcess(append(a.topExcess, b.topExcess...))
}

// Result calcula los derivados y devuelve el agregado final.
func (a *Accumulator) Result() DashboardMetrics {
	profit := a.revenuePotential.Sub(a.inventoryValue)

	margin := decimal.Zero
	if !a.revenuePotential.IsZero() {
		margin = profit.Div(a.revenuePotential).Mul(hundred).Round(2)
	}

	buckets := make([]CoverageBucket, len(coverageLabels))
	for i, label := range coverageLabels {
		buckets[i] = CoverageBucket{Label: label, Value: a.buckets[i]}
	}

	return DashboardMetrics{
		TotalItems:       a.items,
		InventoryValue:   a.inventoryValue,
		RevenuePotential: a.revenuePotential,
		ProjectedProfit:  profit,
		AverageMargin:    margin,
		ExcessValue:      a.excessValue,
		RuptureCount:     a.ruptureCount,
		ExcessCount:      a.excessCount,
		HealthyCount:     a.healthyCount,
		RuptureShare:     share(a.ruptureCount, a.items),
		HealthyShare:     share(a.healthyCount, a.items),
		CoverageBuckets:  buckets,
		TopRupture:       append([]RuptureMover{}, a.topRupture...),
		TopExcess:        append([]ExcessMover{}, a.topExcess...),
	}
}

// Aggregate reduce los ítems en una sola pasada.
func Aggregate(items []NormalizedItem) DashboardMetrics {
	acc := NewAccumulator()
	for _, it := range items {
		acc.Add(it)
	}
	return acc.Result()
}

// AggregateParallel particiona los ítems, reduce cada parte en su propia goroutine y
// combina los parciales. El resultado es idéntico al de Aggregate.
func AggregateParallel(items []NormalizedItem, partitions int) DashboardMetrics {
	if partitions <= 1 || len(items) < 2*partitions {
		return Aggregate(items)
	}
	size := (len(items) + partitions - 1) / partitions

	partials := make(chan *Accumulator, partitions)
	launched := 0
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		launched++
		go func(part []NormalizedItem) {
			acc := NewAccumulator()
			for _, it := range part {
				acc.Add(it)
			}
			partials <- acc
		}(items[start:end])
	}

	total := NewAccumulator()
	for i := 0; i < launched; i++ {
		total.Merge(<-partials)
	}
	return total.Result()
}

func bucketIndex(coverage float64) int {
	for i, bound := range coverageBounds {
		if coverage <= bound {
			return i
		}
	}
	return len(coverageBounds)
}

func share(count, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(count)).Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(2)
}

func keepTopRupture(list []RuptureMover) []RuptureMover {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].EstimatedDailyLoss.Equal(list[j].EstimatedDailyLoss) {
			return list[i].EstimatedDailyLoss.GreaterThan(list[j].EstimatedDailyLoss)
		}
		return list[i].ID < list[j].ID
	})
	if len(list) > TopMovers {
		list = list[:TopMovers]
	}
	return list
}

func keepTopExcess(list []ExcessMover) []ExcessMover {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CapitalTied.Equal(list[j].CapitalTied) {
			return list[i].CapitalTied.GreaterThan(list[j].CapitalTied)
		}
		return list[i].ID < list[j].ID
	})
	if len(list) > TopMovers {
		list = list[:TopMovers]
	}
	return list
}

// RankByDailyLoss ordena in-place por pérdida diaria estimada desc, empate por ID.
func RankByDailyLoss(items []NormalizedItem) {
	rankBy(items, NormalizedItem.DailyLoss)
}

// RankByCapitalTied ordena in-place por capital inmovilizado (cantidad × costo) desc,
// empate por ID.
func RankByCapitalTied(items []NormalizedItem) {
	rankBy(items, NormalizedItem.StockValue)
}

func rankBy(items []NormalizedItem, key func(NormalizedItem) decimal.Decimal) {
	sort.SliceStable(items, func(i, j int) bool {
		ki, kj := key(items[i]), key(items[j])
		if !ki.Equal(kj) {
			return ki.GreaterThan(kj)
		}
		return items[i].ID < items[j].ID
	})
}
