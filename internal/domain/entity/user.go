package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleGestor   = "gestor" // gestor de stock: movimientos y productos
	RoleVendedor = "vendedor"
)

// User representa un usuario del sistema.
type User struct {
	ID           string // UUID
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, gestor, vendedor
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
