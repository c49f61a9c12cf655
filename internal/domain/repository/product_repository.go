package repository

import (
	"github.com/shopspring/decimal"

	"github.com/dcoral/gestock-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
//
// Quantity es propiedad exclusiva del Stock Ledger: se escribe solo con
// UpdateQuantity dentro de una transacción del ledger. Update no la toca.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByName(name string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea su fila (SELECT FOR UPDATE).
	// Devuelve nil si no existe. Usar solo dentro de una transacción.
	GetForUpdate(id string) (*entity.Product, error)
	// Update escribe los campos descriptivos (name, unit, price, expiry_date);
	// nunca quantity.
	Update(product *entity.Product) error
	// UpdateQuantity fija la existencia del producto. Reservado al Stock Ledger.
	UpdateQuantity(id string, quantity decimal.Decimal) error
	List(limit, offset int) ([]*entity.Product, error)
	ListAll() ([]*entity.Product, error)
	Delete(id string) error
}
