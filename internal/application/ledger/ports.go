package ledger

import (
	"context"

	"github.com/dcoral/gestock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con el
// repositorio de productos atado a esa tx. Commit si fn devuelve nil,
// Rollback si devuelve error.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
	) error) error
}
