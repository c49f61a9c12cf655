package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una factura.
//
// Transiciones legales:
//
//	pending   → confirmed            (Confirm)
//	(creación confirmada) → paid     si Rest == 0
//	(creación confirmada) → not paid si Rest > 0
//	paid ↔ not paid                  al recalcular Rest en una edición
//
// pending nunca ha descontado stock; confirmed, paid y "not paid" sí
// (estados con stock debitado). Confirmar una factura no pendiente es ilegal.
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusConfirmed = "confirmed"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusNotPaid   = "not paid"
)

// Invoice representa la cabecera de una factura con sus líneas.
// Invariantes: Total = Σ(Quantity*UnitPrice) de las líneas;
// TotalAfterDiscount = Total - Remise; Rest = max(0, Total - Remise - Advance).
type Invoice struct {
	ID                 string // código secuencial legible en mayúsculas: INV-001, INV-002, ...
	ClientID           string
	Remise             decimal.Decimal // descuento
	Advance            decimal.Decimal // anticipo
	Total              decimal.Decimal
	TotalAfterDiscount decimal.Decimal
	Rest               decimal.Decimal
	Status             string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Lines              []InvoiceLine
}

// InvoiceLine representa una línea de detalle de una factura.
type InvoiceLine struct {
	ID          string // UUID
	InvoiceID   string
	ProductID   string
	ProductName string // nombre al momento de facturar
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal // Quantity * UnitPrice
}

// ComputeTotals recalcula Total, TotalAfterDiscount y Rest desde las líneas.
// Rest nunca es negativo: un anticipo mayor que el saldo deja Rest en 0.
func (i *Invoice) ComputeTotals() {
	total := decimal.Zero
	for idx := range i.Lines {
		i.Lines[idx].Total = i.Lines[idx].Quantity.Mul(i.Lines[idx].UnitPrice)
		total = total.Add(i.Lines[idx].Total)
	}
	i.Total = total
	i.TotalAfterDiscount = total.Sub(i.Remise)
	rest := total.Sub(i.Remise).Sub(i.Advance)
	if rest.IsNegative() {
		rest = decimal.Zero
	}
	i.Rest = rest
}

// PaymentStatus deriva paid / "not paid" del saldo restante.
func PaymentStatus(rest decimal.Decimal) string {
	if rest.IsZero() {
		return InvoiceStatusPaid
	}
	return InvoiceStatusNotPaid
}

// StockDebited indica si la factura ya descontó stock del ledger
// (todo estado distinto de pending lo hizo).
func (i *Invoice) StockDebited() bool {
	return i.Status != InvoiceStatusPending
}
