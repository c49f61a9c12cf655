package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dcoral/gestock-api/internal/domain/repository"
)

// Códigos de fallo por ítem.
const (
	CodeProductNotFound   = "PRODUCT_NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
)

// Mensajes de fallo por ítem; el frontend los muestra tal cual.
const (
	msgProductNotFound   = "Product not found"
	msgInsufficientStock = "Insufficient stock"
)

// Item delta de stock de un producto. Amount es siempre positivo; el signo
// lo decide la operación (increment/decrement).
type Item struct {
	ProductID string
	Amount    decimal.Decimal
}

// ItemResult resultado por ítem de una operación bulk. En fallos por stock
// insuficiente OldQuantity conserva la existencia encontrada; en producto
// inexistente ambas cantidades quedan en cero.
type ItemResult struct {
	ProductID   string
	Success     bool
	OldQuantity decimal.Decimal
	NewQuantity decimal.Decimal
	Code        string
	Error       string
}

// Service es el dueño único de products.quantity: toda mutación de stock pasa
// por sus operaciones bulk. Cada ítem se valida por separado (producto
// inexistente, stock insuficiente) y solo el subconjunto válido se escribe;
// los fallos se reportan individualmente en los resultados, nunca abortan a
// sus hermanos. El lote válido se confirma como una unidad: un fallo de
// persistencia invalida la llamada completa sin escrituras retenidas.
type Service struct {
	txRunner TxRunner
}

// NewService construye el ledger de stock.
func NewService(txRunner TxRunner) *Service {
	return &Service{txRunner: txRunner}
}

// BulkIncrement suma Amount al stock de cada producto, en una transacción
// propia.
func (s *Service) BulkIncrement(ctx context.Context, items []Item) ([]ItemResult, error) {
	return s.bulk(ctx, items, false)
}

// BulkDecrement resta Amount del stock de cada producto, en una transacción
// propia. Cada ítem exige además existencia actual >= Amount.
func (s *Service) BulkDecrement(ctx context.Context, items []Item) ([]ItemResult, error) {
	return s.bulk(ctx, items, true)
}

// IncrementTx aplica el incremento con los repositorios del caller (misma
// transacción). Si el caller aborta, los deltas se revierten con su rollback.
func (s *Service) IncrementTx(productRepo repository.ProductRepository, items []Item) ([]ItemResult, error) {
	return apply(productRepo, items, false)
}

// DecrementTx aplica el decremento con los repositorios del caller (misma
// transacción).
func (s *Service) DecrementTx(productRepo repository.ProductRepository, items []Item) ([]ItemResult, error) {
	return apply(productRepo, items, true)
}

func (s *Service) bulk(ctx context.Context, items []Item, decrement bool) ([]ItemResult, error) {
	var results []ItemResult
	err := s.txRunner.RunLedger(ctx, func(productRepo repository.ProductRepository) error {
		var applyErr error
		results, applyErr = apply(productRepo, items, decrement)
		return applyErr
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// apply recorre los ítems bloqueando cada fila de producto (SELECT FOR
// UPDATE) y escribe la nueva cantidad de los válidos. Un error de
// persistencia corta el lote entero; el rollback lo hace el runner del
// caller.
func apply(productRepo repository.ProductRepository, items []Item, decrement bool) ([]ItemResult, error) {
	results := make([]ItemResult, 0, len(items))
	for _, item := range items {
		product, err := productRepo.GetForUpdate(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			results = append(results, ItemResult{
				ProductID: item.ProductID,
				Code:      CodeProductNotFound,
				Error:     msgProductNotFound,
			})
			continue
		}

		old := product.Quantity
		var newQuantity decimal.Decimal
		if decrement {
			if old.LessThan(item.Amount) {
				results = append(results, ItemResult{
					ProductID:   item.ProductID,
					OldQuantity: old,
					Code:        CodeInsufficientStock,
					Error:       msgInsufficientStock,
				})
				continue
			}
			newQuantity = old.Sub(item.Amount)
		} else {
			newQuantity = old.Add(item.Amount)
		}

		if err := productRepo.UpdateQuantity(item.ProductID, newQuantity); err != nil {
			return nil, err
		}
		results = append(results, ItemResult{
			ProductID:   item.ProductID,
			Success:     true,
			OldQuantity: old,
			NewQuantity: newQuantity,
		})
	}
	return results, nil
}

// Failures filtra los resultados fallidos de un lote.
func Failures(results []ItemResult) []ItemResult {
	var failed []ItemResult
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// FailureMessages construye un mensaje por ítem fallido, alineando results
// con los items originales por posición.
func FailureMessages(items []Item, results []ItemResult) []string {
	var msgs []string
	for i, r := range results {
		if r.Success {
			continue
		}
		switch r.Code {
		case CodeInsufficientStock:
			msgs = append(msgs, fmt.Sprintf("%s: %s (disponible %s, solicitado %s)",
				r.ProductID, r.Error, r.OldQuantity.String(), items[i].Amount.String()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: %s", r.ProductID, r.Error))
		}
	}
	return msgs
}
