package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementItemRequest línea de un movimiento de stock.
type MovementItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"` // por defecto: precio del producto
}

// CreateMovementRequest body para POST /api/movements.
// DepartmentID es obligatorio para distribution, Supplier para stock_in.
type CreateMovementRequest struct {
	Type         string                `json:"type" validate:"required,oneof=stock_in distribution"`
	DepartmentID string                `json:"department_id,omitempty"`
	Supplier     string                `json:"supplier,omitempty"`
	StockManager string                `json:"stock_manager" validate:"required,min=1,max=200"`
	Items        []MovementItemRequest `json:"items" validate:"required,min=1,dive"`
}

// MovementLineResponse línea persistida con sus snapshots de stock.
type MovementLineResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Total         decimal.Decimal `json:"total"`
}

// MovementResponse salida de un movimiento de stock.
type MovementResponse struct {
	ID           string                 `json:"id"`
	Type         string                 `json:"type"`
	DepartmentID string                 `json:"department_id,omitempty"`
	Supplier     string                 `json:"supplier,omitempty"`
	StockManager string                 `json:"stock_manager"`
	TotalValue   decimal.Decimal        `json:"total_value"`
	TotalItems   decimal.Decimal        `json:"total_items"`
	DisplayDate  string                 `json:"display_date"` // dd/mm/aaaa hh:mm
	Timestamp    time.Time              `json:"timestamp"`
	CreatedAt    time.Time              `json:"created_at"`
	Lines        []MovementLineResponse `json:"lines"`
}

// ListMovementsRequest filtros para GET /api/movements.
type ListMovementsRequest struct {
	Type         string     `query:"type" validate:"omitempty,oneof=stock_in distribution"`
	DepartmentID string     `query:"department_id"`
	ProductID    string     `query:"product_id"`
	From         *time.Time `query:"from"`
	To           *time.Time `query:"to"`
	PageRequest
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
