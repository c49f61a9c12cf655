package entity

import "time"

// Department representa un departamento interno, destino de las distribuciones de stock.
type Department struct {
	ID          string // UUID
	Name        string
	Description string
	CreatedAt   time.Time
}
