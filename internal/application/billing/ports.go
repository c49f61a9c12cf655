package billing

import (
	"context"

	"github.com/dcoral/gestock-api/internal/application/ledger"
	"github.com/dcoral/gestock-api/internal/domain/entity"
	"github.com/dcoral/gestock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los repos
// de facturación e inventario. fn con error => rollback: la factura y sus
// ajustes de stock aterrizan juntos o no aterrizan.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// StockLedger aplica deltas de stock usando los repositorios del caller
// (misma transacción). Las líneas fallidas vienen marcadas en los resultados;
// el caller decide si eso aborta la transacción.
type StockLedger interface {
	IncrementTx(productRepo repository.ProductRepository, items []ledger.Item) ([]ledger.ItemResult, error)
	DecrementTx(productRepo repository.ProductRepository, items []ledger.Item) ([]ledger.ItemResult, error)
}

// IDGenerator emite el consecutivo de factura (INV-001, INV-002, ...).
type IDGenerator interface {
	NextInvoiceID() string
}

// InvoicePDFGenerator renderiza la representación gráfica (PDF) de una factura.
// client puede ser nil si el cliente fue eliminado después de facturar.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, client *entity.Client) ([]byte, error)
}
