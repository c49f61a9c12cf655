package entity

import "time"

// Client representa un cliente (destinatario de facturas).
type Client struct {
	ID        string // UUID
	Name      string
	Email     string
	Phone     string
	Address   string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
