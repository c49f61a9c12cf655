package inventory

import (
	"context"

	"github.com/dcoral/gestock-api/internal/application/ledger"
	"github.com/dcoral/gestock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. El registro del movimiento y los deltas de
// stock de sus líneas aterrizan juntos o no aterrizan.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// StockLedger operaciones bulk del ledger ejecutadas con los repositorios del
// caller (misma transacción). Los fallos por ítem vienen en los resultados;
// un error es un fallo del store.
type StockLedger interface {
	IncrementTx(productRepo repository.ProductRepository, items []ledger.Item) ([]ledger.ItemResult, error)
	DecrementTx(productRepo repository.ProductRepository, items []ledger.Item) ([]ledger.ItemResult, error)
}

// IDGenerator emite ids de movimiento (MOV000001, ...). Nunca falla: degrada
// a un sufijo no secuencial.
type IDGenerator interface {
	NextMovementID() string
}
