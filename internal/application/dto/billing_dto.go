package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest línea de factura. El producto puede referenciarse por id
// o por nombre; el precio unitario omitido se toma del producto.
type InvoiceItemRequest struct {
	ProductID   string           `json:"product_id,omitempty"`
	ProductName string           `json:"product_name,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// Confirmed=true descuenta el stock en la misma operación; la factura queda
// "paid" o "not paid" según el resto. Confirmed=false la deja "pending" sin
// tocar inventario.
type CreateInvoiceRequest struct {
	ClientID  string               `json:"client_id" validate:"required"`
	Remise    decimal.Decimal      `json:"remise"`
	Advance   decimal.Decimal      `json:"advance"`
	Confirmed bool                 `json:"confirmed"`
	Items     []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id. Items reemplaza las
// líneas completas; sobre facturas con stock descontado solo se aplican al
// inventario las diferencias de cantidad por línea.
type UpdateInvoiceRequest struct {
	Remise  *decimal.Decimal     `json:"remise"`
	Advance *decimal.Decimal     `json:"advance"`
	Items   []InvoiceItemRequest `json:"items" validate:"omitempty,min=1,dive"`
}

// InvoiceLineResponse línea de factura en respuestas.
type InvoiceLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceResponse factura con detalle para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID                 string                `json:"id"`
	ClientID           string                `json:"client_id"`
	ClientName         string                `json:"client_name,omitempty"`
	Remise             decimal.Decimal       `json:"remise"`
	Advance            decimal.Decimal       `json:"advance"`
	Total              decimal.Decimal       `json:"total"`
	TotalAfterDiscount decimal.Decimal       `json:"total_after_discount"`
	Rest               decimal.Decimal       `json:"rest"`
	Status             string                `json:"status"` // pending|confirmed|paid|not paid
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
	Lines              []InvoiceLineResponse `json:"lines"`
}

// ListInvoicesRequest filtros para GET /api/invoices.
type ListInvoicesRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=pending confirmed paid 'not paid'"`
	PageRequest
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
