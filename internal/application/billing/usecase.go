package billing

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

// InvoiceUseCase integra el ciclo de vida de la factura con el Stock Ledger:
// crear (pendiente o confirmada), confirmar, editar y eliminar. Toda mutación
// que toca inventario aplica sus deltas en la misma transacción que el
// documento de la factura.
type InvoiceUseCase struct {
	txRunner    TxRunner
	stockLedger StockLedger
	ids         IDGenerator
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner TxRunner,
	stockLedger StockLedger,
	ids IDGenerator,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:    txRunner,
		stockLedger: stockLedger,
		ids:         ids,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
	}
}

// Create crea una factura pendiente o confirmada. Se validan cliente y todas
// las líneas (producto existente, cantidad positiva, precio positivo, producto
// no vencido) recopilando todos los errores antes de mutar nada. Con
// Confirmed=true el débito de stock y la inserción de la factura aterrizan en
// la misma transacción, y el estado queda "paid" si rest == 0 o "not paid" si
// queda saldo; sin confirmar queda "pending" sin tocar inventario.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	now := time.Now()
	var errs []string

	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		errs = append(errs, "El cliente indicado no existe")
	}
	if in.Remise.IsNegative() {
		errs = append(errs, "El descuento no puede ser negativo")
	}
	if in.Advance.IsNegative() {
		errs = append(errs, "El anticipo no puede ser negativo")
	}
	if len(in.Items) == 0 {
		errs = append(errs, "La factura debe tener al menos una línea")
	}

	// Validar líneas fuera de la transacción (solo lectura). La suficiencia de
	// stock no se comprueba aquí: la decide el ledger bajo bloqueo de fila.
	lines := make([]entity.InvoiceLine, 0, len(in.Items))
	for i, item := range in.Items {
		product, err := resolveProduct(uc.productRepo, item)
		if err != nil {
			return nil, err
		}
		if product == nil {
			errs = append(errs, fmt.Sprintf("Línea %d: el producto no existe", i+1))
			continue
		}
		if !item.Quantity.GreaterThan(decimal.Zero) {
			errs = append(errs, fmt.Sprintf("Línea %d: la cantidad debe ser mayor que cero", i+1))
		}
		unitPrice := product.Price
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}
		if !unitPrice.GreaterThan(decimal.Zero) {
			errs = append(errs, fmt.Sprintf("Línea %d: el precio unitario debe ser mayor que cero", i+1))
		}
		if product.Expired(now) {
			errs = append(errs, fmt.Sprintf("Línea %d: el producto %s está vencido", i+1, product.Name))
		}
		lines = append(lines, entity.InvoiceLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
		})
	}
	if len(errs) > 0 {
		return nil, domain.NewValidationError(errs...)
	}

	invoice := &entity.Invoice{
		ID:        uc.ids.NextInvoiceID(),
		ClientID:  in.ClientID,
		Remise:    in.Remise,
		Advance:   in.Advance,
		Status:    entity.InvoiceStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
		Lines:     lines,
	}
	invoice.ComputeTotals()

	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		productRepo repository.ProductRepository,
	) error {
		if in.Confirmed {
			items := ledgerItems(invoice.Lines)
			results, err := uc.stockLedger.DecrementTx(productRepo, items)
			if err != nil {
				return err
			}
			if msgs := ledger.FailureMessages(items, results); len(msgs) > 0 {
				return domain.NewValidationError(msgs...)
			}
			invoice.Status = entity.PaymentStatus(invoice.Rest)
		}
		return invoiceRepo.Create(invoice)
	})
	if err != nil {
		return nil, err
	}

	return toInvoiceResponse(invoice, client.Name), nil
}

// Confirm pasa una factura pendiente a confirmada. La suficiencia de stock se
// revalida línea por línea contra la existencia actual justo antes de
// confirmar; el débito y el cambio de estado aterrizan juntos. Una factura que
// ya descontó stock no puede confirmarse de nuevo.
func (uc *InvoiceUseCase) Confirm(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	var confirmed *entity.Invoice
	err := uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		productRepo repository.ProductRepository,
	) error {
		invoice, err := invoiceRepo.GetByID(id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}
		if invoice.Status != entity.InvoiceStatusPending {
			return domain.ErrInvoiceAlreadyConfirmed
		}

		items := ledgerItems(invoice.Lines)
		results, err := uc.stockLedger.DecrementTx(productRepo, items)
		if err != nil {
			return err
		}
		if msgs := ledger.FailureMessages(items, results); len(msgs) > 0 {
			return domain.NewValidationError(msgs...)
		}

		if err := invoiceRepo.UpdateStatus(id, entity.InvoiceStatusConfirmed); err != nil {
			return err
		}
		invoice.Status = entity.InvoiceStatusConfirmed
		confirmed = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(confirmed, uc.clientName(confirmed.ClientID)), nil
}

// Update edita una factura. Si vienen líneas nuevas reemplazan a las
// existentes; sobre facturas con stock descontado cada línea nueva se empareja
// con la original (por producto, si no por nombre) y al inventario solo se
// aplica la diferencia de cantidad: diff > 0 descuenta y exige stock
// suficiente, diff < 0 devuelve. Facturas pendientes recalculan sin tocar
// inventario. Los totales se recalculan y el estado se rederiva del saldo.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	now := time.Now()
	var updated *entity.Invoice

	err := uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		productRepo repository.ProductRepository,
	) error {
		invoice, err := invoiceRepo.GetByID(id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}

		if in.Remise != nil {
			invoice.Remise = *in.Remise
		}
		if in.Advance != nil {
			invoice.Advance = *in.Advance
		}

		var errs []string
		if invoice.Remise.IsNegative() {
			errs = append(errs, "El descuento no puede ser negativo")
		}
		if invoice.Advance.IsNegative() {
			errs = append(errs, "El anticipo no puede ser negativo")
		}

		var decItems, incItems []ledger.Item
		if len(in.Items) > 0 {
			newLines := make([]entity.InvoiceLine, 0, len(in.Items))
			for i, item := range in.Items {
				product, err := resolveProduct(productRepo, item)
				if err != nil {
					return err
				}
				if product == nil {
					errs = append(errs, fmt.Sprintf("Línea %d: el producto no existe", i+1))
					continue
				}
				if !item.Quantity.GreaterThan(decimal.Zero) {
					errs = append(errs, fmt.Sprintf("Línea %d: la cantidad debe ser mayor que cero", i+1))
				}
				unitPrice := product.Price
				if item.UnitPrice != nil {
					unitPrice = *item.UnitPrice
				}
				if !unitPrice.GreaterThan(decimal.Zero) {
					errs = append(errs, fmt.Sprintf("Línea %d: el precio unitario debe ser mayor que cero", i+1))
				}

				// Diferencia contra la línea original; una línea sin pareja
				// cuenta como cantidad original cero (producto agregado).
				if invoice.StockDebited() {
					originalQty := decimal.Zero
					if original := matchOriginalLine(invoice.Lines, product); original != nil {
						originalQty = original.Quantity
					}
					diff := item.Quantity.Sub(originalQty)
					switch {
					case diff.IsPositive():
						decItems = append(decItems, ledger.Item{ProductID: product.ID, Amount: diff})
					case diff.IsNegative():
						incItems = append(incItems, ledger.Item{ProductID: product.ID, Amount: diff.Neg()})
					}
				}

				newLines = append(newLines, entity.InvoiceLine{
					ProductID:   product.ID,
					ProductName: product.Name,
					Quantity:    item.Quantity,
					UnitPrice:   unitPrice,
				})
			}
			if len(errs) > 0 {
				return domain.NewValidationError(errs...)
			}
			invoice.Lines = newLines
		}
		if len(errs) > 0 {
			return domain.NewValidationError(errs...)
		}

		// Los deltas y la reescritura de la factura comparten transacción.
		if len(decItems) > 0 {
			results, err := uc.stockLedger.DecrementTx(productRepo, decItems)
			if err != nil {
				return err
			}
			if msgs := ledger.FailureMessages(decItems, results); len(msgs) > 0 {
				return domain.NewValidationError(msgs...)
			}
		}
		if len(incItems) > 0 {
			results, err := uc.stockLedger.IncrementTx(productRepo, incItems)
			if err != nil {
				return err
			}
			if msgs := ledger.FailureMessages(incItems, results); len(msgs) > 0 {
				return domain.NewValidationError(msgs...)
			}
		}

		invoice.ComputeTotals()
		if invoice.StockDebited() {
			invoice.Status = entity.PaymentStatus(invoice.Rest)
		}
		invoice.UpdatedAt = now
		if err := invoiceRepo.Update(invoice); err != nil {
			return err
		}
		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(updated, uc.clientName(updated.ClientID)), nil
}

// Delete elimina una factura. Si la factura descontó stock (cualquier estado
// distinto de pendiente) primero devuelve la cantidad de cada línea al
// inventario, en la misma transacción que el borrado; si alguna devolución
// falla no se elimina nada. Las pendientes se eliminan sin restauración.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		productRepo repository.ProductRepository,
	) error {
		invoice, err := invoiceRepo.GetByID(id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}

		if invoice.StockDebited() {
			items := ledgerItems(invoice.Lines)
			results, err := uc.stockLedger.IncrementTx(productRepo, items)
			if err != nil {
				return err
			}
			if msgs := ledger.FailureMessages(items, results); len(msgs) > 0 {
				return fmt.Errorf("%w: %s", domain.ErrStockRestorationFailed, strings.Join(msgs, "; "))
			}
		}
		return invoiceRepo.Delete(id)
	})
}

// Get obtiene una factura con sus líneas y el nombre del cliente.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	invoice, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return toInvoiceResponse(invoice, uc.clientName(invoice.ClientID)), nil
}

// List lista facturas con paginado y filtro opcional por estado.
func (uc *InvoiceUseCase) List(ctx context.Context, in dto.ListInvoicesRequest) (*dto.InvoiceListResponse, error) {
	in.DefaultPage()
	invoices, err := uc.invoiceRepo.List(in.Status, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}

	resp := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceResponse, 0, len(invoices)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	names := make(map[string]string)
	for _, invoice := range invoices {
		name, ok := names[invoice.ClientID]
		if !ok {
			name = uc.clientName(invoice.ClientID)
			names[invoice.ClientID] = name
		}
		resp.Items = append(resp.Items, *toInvoiceResponse(invoice, name))
	}
	return resp, nil
}

func (uc *InvoiceUseCase) clientName(id string) string {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil || client == nil {
		return ""
	}
	return client.Name
}

// resolveProduct busca el producto por id y, si no aparece, por nombre.
// Devuelve nil si no existe por ninguna de las dos vías.
func resolveProduct(productRepo repository.ProductRepository, item dto.InvoiceItemRequest) (*entity.Product, error) {
	if item.ProductID != "" {
		product, err := productRepo.GetByID(item.ProductID)
		if err != nil || product != nil {
			return product, err
		}
	}
	if item.ProductName != "" {
		return productRepo.GetByName(item.ProductName)
	}
	return nil, nil
}

// matchOriginalLine busca la línea original que corresponde al producto,
// primero por id y si no por nombre.
func matchOriginalLine(lines []entity.InvoiceLine, product *entity.Product) *entity.InvoiceLine {
	for i := range lines {
		if lines[i].ProductID == product.ID {
			return &lines[i]
		}
	}
	for i := range lines {
		if lines[i].ProductName == product.Name {
			return &lines[i]
		}
	}
	return nil
}

func ledgerItems(lines []entity.InvoiceLine) []ledger.Item {
	items := make([]ledger.Item, len(lines))
	for i, line := range lines {
		items[i] = ledger.Item{ProductID: line.ProductID, Amount: line.Quantity}
	}
	return items
}

func toInvoiceResponse(invoice *entity.Invoice, clientName string) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:                 invoice.ID,
		ClientID:           invoice.ClientID,
		ClientName:         clientName,
		Remise:             invoice.Remise,
		Advance:            invoice.Advance,
		Total:              invoice.Total,
		TotalAfterDiscount: invoice.TotalAfterDiscount,
		Rest:               invoice.Rest,
		Status:             invoice.Status,
		CreatedAt:          invoice.CreatedAt,
		UpdatedAt:          invoice.UpdatedAt,
		Lines:              make([]dto.InvoiceLineResponse, 0, len(invoice.Lines)),
	}
	for _, line := range invoice.Lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ID:          line.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Total:       line.Total,
		})
	}
	return resp
}
