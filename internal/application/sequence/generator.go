package sequence

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dcoral/gestock-api/internal/domain/entity"
	"github.com/dcoral/gestock-api/pkg/logger"
)

// CounterSource emite el siguiente valor del contador de una clase de entidad
// mediante un incremento atómico en el store.
type CounterSource interface {
	Next(kind string) (int64, error)
}

// InvoiceIDSource lista los ids de factura existentes para la estrategia de
// escaneo.
type InvoiceIDSource interface {
	ListIDs() ([]string, error)
}

var invoiceIDPattern = regexp.MustCompile(`^INV-(\d+)$`)

// Generator emite identificadores secuenciales legibles por clase de entidad:
// prod-001, MOV000042, INV-003. Productos y movimientos usan el contador
// transaccional; las facturas escanean los ids existentes y toman max+1.
// Si el camino secuencial falla, degrada a un sufijo base-36 del timestamp
// con el mismo prefijo: el id sigue siendo único pero deja de ser correlativo.
// La degradación nunca es un error; los llamadores deben tolerar ids no
// secuenciales.
type Generator struct {
	counters CounterSource
	invoices InvoiceIDSource
	log      *logger.Logger
}

// NewGenerator construye el generador.
func NewGenerator(counters CounterSource, invoices InvoiceIDSource, log *logger.Logger) *Generator {
	return &Generator{counters: counters, invoices: invoices, log: log}
}

// NextProductID emite el siguiente id de producto (prod-001, prod-002, ...).
func (g *Generator) NextProductID() string {
	n, err := g.counters.Next(entity.CounterProducts)
	if err != nil {
		g.warnDegraded(entity.CounterProducts, err)
		return fallbackID("prod-")
	}
	return fmt.Sprintf("prod-%03d", n)
}

// NextMovementID emite el siguiente id de movimiento (MOV000001, MOV000002, ...).
func (g *Generator) NextMovementID() string {
	n, err := g.counters.Next(entity.CounterStockMovements)
	if err != nil {
		g.warnDegraded(entity.CounterStockMovements, err)
		return fallbackID("MOV")
	}
	return fmt.Sprintf("MOV%06d", n)
}

// NextInvoiceID escanea los ids de factura existentes, extrae el sufijo
// numérico con INV-(\d+) y emite max+1 (INV-001, INV-002, ...). Si ningún id
// tiene sufijo numérico usa cantidad_de_existentes+1.
func (g *Generator) NextInvoiceID() string {
	ids, err := g.invoices.ListIDs()
	if err != nil {
		g.warnDegraded("invoices", err)
		return fallbackID("INV-")
	}

	var max int64
	matched := false
	for _, id := range ids {
		m := invoiceIDPattern.FindStringSubmatch(strings.ToUpper(id))
		if m == nil {
			continue
		}
		n, convErr := strconv.ParseInt(m[1], 10, 64)
		if convErr != nil {
			continue
		}
		matched = true
		if n > max {
			max = n
		}
	}

	next := max + 1
	if !matched {
		next = int64(len(ids)) + 1
	}
	return fmt.Sprintf("INV-%03d", next)
}

func (g *Generator) warnDegraded(kind string, err error) {
	g.log.Warn().Err(err).Str("kind", kind).
		Msg("generador de ids en modo degradado (sufijo base-36)")
}

// fallbackID produce prefix + base36(milisegundos unix). Único salvo
// emisiones concurrentes dentro del mismo milisegundo, riesgo aceptado del
// modo degradado.
func fallbackID(prefix string) string {
	return prefix + strconv.FormatInt(time.Now().UnixMilli(), 36)
}
