package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario. Quantity es la existencia
// autoritativa (el libro de stock); solo el Stock Ledger puede escribirla,
// nunca otros componentes con writes ad-hoc. Invariante: Quantity >= 0
// después de cualquier operación confirmada.
type Product struct {
	ID         string // código secuencial legible: prod-001, prod-002, ...
	Name       string
	Quantity   decimal.Decimal
	Unit       string // kg, l, unidad, caja, ...
	Price      decimal.Decimal
	ExpiryDate *time.Time // nil = producto sin vencimiento
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Expired indica si el producto está vencido en el instante dado.
func (p *Product) Expired(at time.Time) bool {
	return p.ExpiryDate != nil && p.ExpiryDate.Before(at)
}
