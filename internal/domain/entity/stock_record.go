package entity

import "time"

// StockRecord fila cruda de la tabla de estoque, una por SKU.
// Los campos numéricos llegan como texto con formato local ("1.234,56") y el status
// como texto libre, a veces con emoji ("🟠 Crítico"). Es un snapshot inmutable:
// el dominio lo normaliza pero nunca lo modifica.
type StockRecord struct {
	ID           string
	StoreID      string
	SKU          string
	Description  string
	Category     string
	Quantity     string
	Cost         string
	Price        string
	DailySales   string
	CoverageDays string
	ABCClass     string
	Status       string
	UpdatedAt    time.Time
}
