package repository

import (
	"time"

	"github.com/dcoral/gestock-api/internal/domain/entity"
)

// MovementListFilter filtros opcionales para listar movimientos.
// Los campos en cero se ignoran.
type MovementListFilter struct {
	Type         string
	DepartmentID string
	ProductID    string
	From, To     *time.Time
	Limit        int
	Offset       int
}

// StockMovementRepository define el puerto de persistencia para movimientos de stock (DIP).
// Create y Delete escriben cabecera y líneas juntas; GetByID devuelve el movimiento con líneas.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	List(filter MovementListFilter) ([]*entity.StockMovement, error)
	Delete(id string) error
}
