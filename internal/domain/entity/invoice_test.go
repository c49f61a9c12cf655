package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dcoral/gestock-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// ComputeTotals es la única fuente de los montos derivados de una factura:
// Total = Σ(Quantity*UnitPrice), TotalAfterDiscount = Total - Remise y
// Rest = max(0, Total - Remise - Advance). Los estados paid / "not paid"
// se derivan después del Rest, así que un error aquí corrompe facturación
// y cobranza a la vez.
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeTotals_SumaLineas(t *testing.T) {
	inv := &entity.Invoice{
		Lines: []entity.InvoiceLine{
			{Quantity: dec("2"), UnitPrice: dec("1500")},
			{Quantity: dec("3"), UnitPrice: dec("200.50")},
		},
	}

	inv.ComputeTotals()

	assert.True(t, dec("3601.50").Equal(inv.Total),
		"Total debe ser 2*1500 + 3*200.50 = 3601.50, fue %s", inv.Total)
	assert.True(t, dec("3000").Equal(inv.Lines[0].Total),
		"el total de la línea debe recalcularse junto con la cabecera")
	assert.True(t, dec("601.50").Equal(inv.Lines[1].Total))
}

func TestComputeTotals_DescuentoYAnticipo(t *testing.T) {
	inv := &entity.Invoice{
		Remise:  dec("100"),
		Advance: dec("400"),
		Lines: []entity.InvoiceLine{
			{Quantity: dec("1"), UnitPrice: dec("1000")},
		},
	}

	inv.ComputeTotals()

	assert.True(t, dec("900").Equal(inv.TotalAfterDiscount),
		"TotalAfterDiscount debe ser Total - Remise")
	assert.True(t, dec("500").Equal(inv.Rest),
		"Rest debe ser Total - Remise - Advance")
}

// El anticipo puede superar el saldo (el cliente pagó de más); el resto jamás
// queda negativo: se fija en cero y la factura se considera pagada.
func TestComputeTotals_AnticipoExcesivoDejaRestoEnCero(t *testing.T) {
	inv := &entity.Invoice{
		Remise:  dec("50"),
		Advance: dec("2000"),
		Lines: []entity.InvoiceLine{
			{Quantity: dec("1"), UnitPrice: dec("1000")},
		},
	}

	inv.ComputeTotals()

	assert.True(t, inv.Rest.IsZero(),
		"un anticipo mayor que el saldo debe dejar Rest en 0, fue %s", inv.Rest)
	assert.Equal(t, entity.InvoiceStatusPaid, entity.PaymentStatus(inv.Rest))
}

func TestComputeTotals_SinLineas(t *testing.T) {
	inv := &entity.Invoice{}

	inv.ComputeTotals()

	assert.True(t, inv.Total.IsZero())
	assert.True(t, inv.TotalAfterDiscount.IsZero())
	assert.True(t, inv.Rest.IsZero())
}

func TestComputeTotals_EsIdempotente(t *testing.T) {
	inv := &entity.Invoice{
		Remise:  dec("10"),
		Advance: dec("20"),
		Lines: []entity.InvoiceLine{
			{Quantity: dec("4"), UnitPrice: dec("25")},
		},
	}

	inv.ComputeTotals()
	primera := inv.Rest
	inv.ComputeTotals()

	assert.True(t, primera.Equal(inv.Rest),
		"recalcular dos veces no debe cambiar los montos")
}

// ── Derivación del estado de pago ─────────────────────────────────────────────

func TestPaymentStatus_RestoCeroEsPagada(t *testing.T) {
	assert.Equal(t, entity.InvoiceStatusPaid, entity.PaymentStatus(decimal.Zero))
}

func TestPaymentStatus_ConSaldoEsNoPagada(t *testing.T) {
	assert.Equal(t, entity.InvoiceStatusNotPaid, entity.PaymentStatus(dec("0.01")))
}

// ── Estados con stock debitado ────────────────────────────────────────────────

// Toda factura no pendiente ya descontó inventario: eliminarla exige restaurar
// el stock, y editarla aplica diferencias por línea en lugar de redescontar.
func TestStockDebited_PorEstado(t *testing.T) {
	casos := map[string]bool{
		entity.InvoiceStatusPending:   false,
		entity.InvoiceStatusConfirmed: true,
		entity.InvoiceStatusPaid:      true,
		entity.InvoiceStatusNotPaid:   true,
	}

	for status, esperado := range casos {
		inv := &entity.Invoice{Status: status}
		assert.Equal(t, esperado, inv.StockDebited(),
			"StockDebited con estado %q", status)
	}
}

// ── helper ────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
