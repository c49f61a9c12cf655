package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcoral/gestock-api/internal/application/dto"
	"github.com/dcoral/gestock-api/internal/application/ledger"
	"github.com/dcoral/gestock-api/internal/domain"
	"github.com/dcoral/gestock-api/internal/domain/entity"
	"github.com/dcoral/gestock-api/internal/domain/repository"
)

// deleteWindow ventana dentro de la cual un movimiento puede eliminarse
// (y su efecto sobre el stock, revertirse).
const deleteWindow = 24 * time.Hour

// MovementUseCase registra y revierte movimientos de stock (entradas y
// distribuciones). Cada operación corre entera en una transacción: el
// documento del movimiento y los deltas de stock de todas sus líneas se
// confirman juntos o no se confirman. La validación recopila los errores de
// todas las líneas antes de mutar nada.
type MovementUseCase struct {
	txRunner       TxRunner
	stockLedger    StockLedger
	ids            IDGenerator
	movementRepo   repository.StockMovementRepository
	departmentRepo repository.DepartmentRepository
}

// NewMovementUseCase construye el motor de movimientos.
func NewMovementUseCase(
	txRunner TxRunner,
	stockLedger StockLedger,
	ids IDGenerator,
	movementRepo repository.StockMovementRepository,
	departmentRepo repository.DepartmentRepository,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:       txRunner,
		stockLedger:    stockLedger,
		ids:            ids,
		movementRepo:   movementRepo,
		departmentRepo: departmentRepo,
	}
}

// Create valida el movimiento completo (forma y líneas), aplica los deltas en
// el ledger y persiste el documento con los snapshots por línea, todo en una
// transacción. Cualquier error de validación aborta sin efectos.
func (uc *MovementUseCase) Create(ctx context.Context, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if errs := validateShape(in); len(errs) > 0 {
		return nil, domain.NewValidationError(errs...)
	}

	if in.Type == entity.MovementTypeDistribution {
		dept, err := uc.departmentRepo.GetByID(in.DepartmentID)
		if err != nil {
			return nil, err
		}
		if dept == nil {
			return nil, domain.NewValidationError("El departamento indicado no existe")
		}
	}

	items := make([]ledger.Item, len(in.Items))
	for i, line := range in.Items {
		items[i] = ledger.Item{ProductID: line.ProductID, Amount: line.Quantity}
	}

	now := time.Now()
	var movement *entity.StockMovement

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// Deltas de stock con bloqueo de fila; un ítem fallido no frena a los
		// demás en los resultados, pero sí rechaza el movimiento completo.
		var results []ledger.ItemResult
		var ledgerErr error
		if in.Type == entity.MovementTypeStockIn {
			results, ledgerErr = uc.stockLedger.IncrementTx(productRepo, items)
		} else {
			results, ledgerErr = uc.stockLedger.DecrementTx(productRepo, items)
		}
		if ledgerErr != nil {
			return ledgerErr
		}
		if msgs := ledger.FailureMessages(items, results); len(msgs) > 0 {
			return domain.NewValidationError(msgs...)
		}

		// Todas las líneas validaron: emitir id y armar los snapshots.
		lines := make([]entity.MovementLine, len(in.Items))
		var totalValue, totalItems decimal.Decimal
		for i, line := range in.Items {
			product, err := productRepo.GetByID(line.ProductID)
			if err != nil {
				return err
			}
			unitPrice := product.Price
			if line.UnitPrice != nil {
				unitPrice = *line.UnitPrice
			}
			total := line.Quantity.Mul(unitPrice)
			lines[i] = entity.MovementLine{
				ProductID:     line.ProductID,
				ProductName:   product.Name,
				Quantity:      line.Quantity,
				PreviousStock: results[i].OldQuantity,
				NewStock:      results[i].NewQuantity,
				UnitPrice:     unitPrice,
				Total:         total,
			}
			totalValue = totalValue.Add(total)
			totalItems = totalItems.Add(line.Quantity)
		}

		movement = &entity.StockMovement{
			ID:           uc.ids.NextMovementID(),
			Type:         in.Type,
			DepartmentID: in.DepartmentID,
			Supplier:     in.Supplier,
			StockManager: strings.TrimSpace(in.StockManager),
			TotalValue:   totalValue,
			TotalItems:   totalItems,
			DisplayDate:  now.Format(entity.DisplayDateLayout),
			Timestamp:    now,
			CreatedAt:    now,
			Lines:        lines,
		}
		return movRepo.Create(movement)
	})
	if err != nil {
		return nil, err
	}

	return toMovementResponse(movement), nil
}

// Delete revierte y elimina un movimiento dentro de la ventana de 24 horas.
// La reversión (decremento para entradas, incremento para distribuciones) y
// el borrado del documento aterrizan en la misma transacción: si alguna línea
// no puede restaurarse no se elimina nada.
func (uc *MovementUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		movement, err := movRepo.GetByID(id)
		if err != nil {
			return err
		}
		if movement == nil {
			return domain.ErrNotFound
		}
		if time.Since(movement.Timestamp) > deleteWindow {
			return domain.ErrMovementTooOld
		}

		items := make([]ledger.Item, len(movement.Lines))
		for i, line := range movement.Lines {
			items[i] = ledger.Item{ProductID: line.ProductID, Amount: line.Quantity}
		}

		var results []ledger.ItemResult
		var ledgerErr error
		if movement.Type == entity.MovementTypeStockIn {
			results, ledgerErr = uc.stockLedger.DecrementTx(productRepo, items)
		} else {
			results, ledgerErr = uc.stockLedger.IncrementTx(productRepo, items)
		}
		if ledgerErr != nil {
			return ledgerErr
		}
		if msgs := ledger.FailureMessages(items, results); len(msgs) > 0 {
			return fmt.Errorf("%w: %s", domain.ErrStockRestorationFailed, strings.Join(msgs, "; "))
		}

		return movRepo.Delete(id)
	})
}

// Get obtiene un movimiento con sus líneas.
func (uc *MovementUseCase) Get(ctx context.Context, id string) (*dto.MovementResponse, error) {
	movement, err := uc.movementRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if movement == nil {
		return nil, domain.ErrNotFound
	}
	return toMovementResponse(movement), nil
}

// List lista movimientos con filtros opcionales y paginación.
func (uc *MovementUseCase) List(ctx context.Context, in dto.ListMovementsRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()
	movements, err := uc.movementRepo.List(repository.MovementListFilter{
		Type:         in.Type,
		DepartmentID: in.DepartmentID,
		ProductID:    in.ProductID,
		From:         in.From,
		To:           in.To,
		Limit:        in.Limit,
		Offset:       in.Offset,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(movements)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, m := range movements {
		resp.Items = append(resp.Items, *toMovementResponse(m))
	}
	return resp, nil
}

// validateShape valida la forma del movimiento y devuelve todos los errores
// encontrados, nunca solo el primero.
func validateShape(in dto.CreateMovementRequest) []string {
	var errs []string

	switch in.Type {
	case entity.MovementTypeStockIn:
		if strings.TrimSpace(in.Supplier) == "" {
			errs = append(errs, "El proveedor es obligatorio para entradas de stock")
		}
	case entity.MovementTypeDistribution:
		if strings.TrimSpace(in.DepartmentID) == "" {
			errs = append(errs, "El departamento es obligatorio para distribuciones")
		}
	default:
		errs = append(errs, "El tipo de movimiento debe ser stock_in o distribution")
	}

	if strings.TrimSpace(in.StockManager) == "" {
		errs = append(errs, "El responsable de bodega es obligatorio")
	}
	if len(in.Items) == 0 {
		errs = append(errs, "El movimiento debe tener al menos una línea")
	}

	for i, line := range in.Items {
		if strings.TrimSpace(line.ProductID) == "" {
			errs = append(errs, fmt.Sprintf("Línea %d: el producto es obligatorio", i+1))
		}
		if !line.Quantity.GreaterThan(decimal.Zero) {
			errs = append(errs, fmt.Sprintf("Línea %d: la cantidad debe ser mayor que cero", i+1))
		}
		if line.UnitPrice != nil && line.UnitPrice.LessThan(decimal.Zero) {
			errs = append(errs, fmt.Sprintf("Línea %d: el precio unitario no puede ser negativo", i+1))
		}
	}
	return errs
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	resp := &dto.MovementResponse{
		ID:           m.ID,
		Type:         m.Type,
		DepartmentID: m.DepartmentID,
		Supplier:     m.Supplier,
		StockManager: m.StockManager,
		TotalValue:   m.TotalValue,
		TotalItems:   m.TotalItems,
		DisplayDate:  m.DisplayDate,
		Timestamp:    m.Timestamp,
		CreatedAt:    m.CreatedAt,
		Lines:        make([]dto.MovementLineResponse, 0, len(m.Lines)),
	}
	for _, line := range m.Lines {
		resp.Lines = append(resp.Lines, dto.MovementLineResponse{
			ID:            line.ID,
			ProductID:     line.ProductID,
			ProductName:   line.ProductName,
			Quantity:      line.Quantity,
			PreviousStock: line.PreviousStock,
			NewStock:      line.NewStock,
			UnitPrice:     line.UnitPrice,
			Total:         line.Total,
		})
	}
	return resp
}
