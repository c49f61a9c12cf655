package sequence_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcoral/gestock-api/internal/application/sequence"
	"github.com/dcoral/gestock-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del generador de ids secuenciales: contador transaccional para
// productos y movimientos, escaneo max+1 para facturas, y degradación a
// sufijo base-36 cuando el camino secuencial falla (nunca un error).
// ──────────────────────────────────────────────────────────────────────────────

func TestNextProductID_FormatoSecuencial(t *testing.T) {
	g := buildGenerator(&fakeCounters{next: 7}, &fakeInvoiceIDs{})

	assert.Equal(t, "prod-007", g.NextProductID())
}

func TestNextProductID_AnchoCreceConElContador(t *testing.T) {
	g := buildGenerator(&fakeCounters{next: 1234}, &fakeInvoiceIDs{})

	assert.Equal(t, "prod-1234", g.NextProductID(),
		"el cero-padding es mínimo 3 dígitos, no un tope")
}

func TestNextMovementID_FormatoSecuencial(t *testing.T) {
	g := buildGenerator(&fakeCounters{next: 42}, &fakeInvoiceIDs{})

	assert.Equal(t, "MOV000042", g.NextMovementID())
}

func TestNextInvoiceID_MaxMasUno(t *testing.T) {
	g := buildGenerator(&fakeCounters{}, &fakeInvoiceIDs{
		ids: []string{"INV-001", "INV-003", "INV-002"},
	})

	assert.Equal(t, "INV-004", g.NextInvoiceID(),
		"debe tomar el máximo sufijo numérico y sumar uno, sin importar el orden")
}

func TestNextInvoiceID_SinFacturasEmpiezaEnUno(t *testing.T) {
	g := buildGenerator(&fakeCounters{}, &fakeInvoiceIDs{})

	assert.Equal(t, "INV-001", g.NextInvoiceID())
}

func TestNextInvoiceID_IgnoraIdsSinSufijoNumerico(t *testing.T) {
	g := buildGenerator(&fakeCounters{}, &fakeInvoiceIDs{
		ids: []string{"INV-009", "INV-borrador", "legacy-17"},
	})

	assert.Equal(t, "INV-010", g.NextInvoiceID())
}

func TestNextInvoiceID_SoloIdsLegacyUsaConteo(t *testing.T) {
	g := buildGenerator(&fakeCounters{}, &fakeInvoiceIDs{
		ids: []string{"legacy-a", "legacy-b", "legacy-c"},
	})

	assert.Equal(t, "INV-004", g.NextInvoiceID(),
		"sin sufijos numéricos el siguiente es cantidad_de_existentes+1")
}

func TestNextInvoiceID_AceptaIdsEnMinuscula(t *testing.T) {
	g := buildGenerator(&fakeCounters{}, &fakeInvoiceIDs{
		ids: []string{"inv-005"},
	})

	assert.Equal(t, "INV-006", g.NextInvoiceID())
}

// ── modo degradado ────────────────────────────────────────────────────────────

func TestNextProductID_ContadorCaidoDegradaASufijoBase36(t *testing.T) {
	g := buildGenerator(&fakeCounters{err: errors.New("store no disponible")}, &fakeInvoiceIDs{})

	id := g.NextProductID()

	require.True(t, strings.HasPrefix(id, "prod-"), "el prefijo se conserva en modo degradado")
	suffix := strings.TrimPrefix(id, "prod-")
	assert.NotEmpty(t, suffix)
	assert.NotRegexp(t, `^\d{3}$`, suffix, "el sufijo degradado no es el correlativo de 3 dígitos")
}

func TestNextMovementID_ContadorCaidoNuncaEsError(t *testing.T) {
	g := buildGenerator(&fakeCounters{err: errors.New("timeout")}, &fakeInvoiceIDs{})

	id := g.NextMovementID()

	assert.True(t, strings.HasPrefix(id, "MOV"))
	assert.Greater(t, len(id), len("MOV"))
}

func TestNextInvoiceID_EscaneoCaidoDegradaASufijoBase36(t *testing.T) {
	g := buildGenerator(&fakeCounters{}, &fakeInvoiceIDs{err: errors.New("query falló")})

	id := g.NextInvoiceID()

	assert.True(t, strings.HasPrefix(id, "INV-"))
	assert.Greater(t, len(id), len("INV-"))
}

func TestIDsDegradadosSonDistintosDeLosSecuenciales(t *testing.T) {
	degradado := buildGenerator(&fakeCounters{err: errors.New("caído")}, &fakeInvoiceIDs{})
	sano := buildGenerator(&fakeCounters{next: 1}, &fakeInvoiceIDs{})

	assert.NotEqual(t, sano.NextProductID(), degradado.NextProductID())
}

// ── fakes y helpers ───────────────────────────────────────────────────────────

type fakeCounters struct {
	next int64
	err  error
}

func (c *fakeCounters) Next(kind string) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	return c.next, nil
}

type fakeInvoiceIDs struct {
	ids []string
	err error
}

func (f *fakeInvoiceIDs) ListIDs() ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ids, nil
}

func buildGenerator(c *fakeCounters, ids *fakeInvoiceIDs) *sequence.Generator {
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	return sequence.NewGenerator(c, ids, log)
}
