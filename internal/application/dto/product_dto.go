package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Quantity es el stock
// inicial; después de la creación solo los movimientos pueden modificarlo.
type CreateProductRequest struct {
	Name       string          `json:"name" validate:"required,min=1,max=200"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit" validate:"required,min=1,max=50"`
	Price      decimal.Decimal `json:"price"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Quantity).
type UpdateProductRequest struct {
	Name       *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Unit       *string          `json:"unit" validate:"omitempty,min=1,max=50"`
	Price      *decimal.Decimal `json:"price"`
	ExpiryDate *time.Time       `json:"expiry_date,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	Price      decimal.Decimal `json:"price"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
