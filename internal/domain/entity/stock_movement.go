package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeStockIn      = "stock_in"     // entrada de mercancía (proveedor)
	MovementTypeDistribution = "distribution" // salida hacia un departamento
)

// DisplayDateLayout formato legible de la fecha del movimiento (dd/mm/aaaa hh:mm).
const DisplayDateLayout = "02/01/2006 15:04"

// StockMovement representa un movimiento de stock (entrada o distribución) con
// el snapshot completo de sus líneas. Inmutable una vez creado, salvo por la
// eliminación dentro de la ventana de 24 horas, que revierte sus deltas.
type StockMovement struct {
	ID           string // código secuencial legible: MOV000001, MOV000002, ...
	Type         string // stock_in | distribution
	DepartmentID string // requerido si Type == distribution
	Supplier     string // requerido si Type == stock_in
	StockManager string
	TotalValue   decimal.Decimal // Σ Total de las líneas
	TotalItems   decimal.Decimal // Σ Quantity de las líneas
	DisplayDate  string          // Timestamp formateado con DisplayDateLayout
	Timestamp    time.Time       // instante canónico del movimiento
	CreatedAt    time.Time
	Lines        []MovementLine
}

// MovementLine snapshot de una línea del movimiento.
// Invariante: NewStock = PreviousStock + Quantity (stock_in)
// o NewStock = PreviousStock - Quantity (distribution), con NewStock >= 0.
type MovementLine struct {
	ID            string // UUID
	MovementID    string
	ProductID     string
	ProductName   string // nombre al momento del movimiento
	Quantity      decimal.Decimal
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	UnitPrice     decimal.Decimal
	Total         decimal.Decimal // Quantity * UnitPrice
}
