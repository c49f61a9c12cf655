package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dcoral/gestock-api/internal/domain/entity"
)

// Un producto vencido no puede facturarse; la verificación corre contra el
// instante de la operación, no contra "hoy" truncado a medianoche.

func TestExpired_SinVencimientoNuncaVence(t *testing.T) {
	p := &entity.Product{ExpiryDate: nil}
	assert.False(t, p.Expired(time.Now()), "un producto sin ExpiryDate nunca vence")
}

func TestExpired_FechaFutura(t *testing.T) {
	mañana := time.Now().Add(24 * time.Hour)
	p := &entity.Product{ExpiryDate: &mañana}
	assert.False(t, p.Expired(time.Now()))
}

func TestExpired_FechaPasada(t *testing.T) {
	ayer := time.Now().Add(-24 * time.Hour)
	p := &entity.Product{ExpiryDate: &ayer}
	assert.True(t, p.Expired(time.Now()))
}

// El límite es estricto: en el instante exacto del vencimiento el producto
// todavía se considera vigente.
func TestExpired_InstanteExactoNoVence(t *testing.T) {
	instante := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	p := &entity.Product{ExpiryDate: &instante}
	assert.False(t, p.Expired(instante))
}
