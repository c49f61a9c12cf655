package repository

import "github.com/dcoral/gestock-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	// Update reescribe cabecera y líneas (las líneas se reemplazan completas).
	Update(invoice *entity.Invoice) error
	UpdateStatus(id, status string) error
	Delete(id string) error
	List(status string, limit, offset int) ([]*entity.Invoice, error)
	// ListIDs devuelve todos los IDs de factura, para derivar el consecutivo
	// por escaneo (INV-001, INV-002, ...).
	ListIDs() ([]string, error)
}
