package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dcoral/gestock-api/internal/domain"
	"github.com/dcoral/gestock-api/internal/domain/entity"
	"github.com/dcoral/gestock-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, client_id, remise, advance, total, total_after_discount, rest, status, created_at, updated_at`

// Create persiste la cabecera de la factura y sus líneas.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, client_id, remise, advance, total, total_after_discount, rest, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.ClientID, invoice.Remise, invoice.Advance,
		invoice.Total, invoice.TotalAfterDiscount, invoice.Rest, invoice.Status,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return r.insertLines(invoice.ID, invoice.Lines)
}

// GetByID obtiene una factura completa (con líneas). Devuelve nil si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.ClientID, &inv.Remise, &inv.Advance,
		&inv.Total, &inv.TotalAfterDiscount, &inv.Rest, &inv.Status,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	lines, err := r.linesByInvoice(id)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines
	return &inv, nil
}

// Update reescribe la cabecera y reemplaza las líneas completas.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET client_id = $2, remise = $3, advance = $4, total = $5,
		    total_after_discount = $6, rest = $7, status = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.ClientID, invoice.Remise, invoice.Advance,
		invoice.Total, invoice.TotalAfterDiscount, invoice.Rest, invoice.Status,
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM invoice_lines WHERE invoice_id = $1`, invoice.ID); err != nil {
		return fmt.Errorf("replace invoice lines: %w", err)
	}
	return r.insertLines(invoice.ID, invoice.Lines)
}

// UpdateStatus cambia solo el estado de la factura.
func (r *InvoiceRepo) UpdateStatus(id, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE invoices SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la factura y sus líneas (ON DELETE CASCADE cubre las líneas).
func (r *InvoiceRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista facturas (con líneas) de la más reciente a la más antigua.
// status vacío = todos los estados.
func (r *InvoiceRepo) List(status string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, status, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.ClientID, &inv.Remise, &inv.Advance,
			&inv.Total, &inv.TotalAfterDiscount, &inv.Rest, &inv.Status,
			&inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, inv := range list {
		lines, err := r.linesByInvoice(inv.ID)
		if err != nil {
			return nil, err
		}
		inv.Lines = lines
	}
	return list, nil
}

// ListIDs devuelve todos los IDs de factura (escaneo del consecutivo INV-###).
func (r *InvoiceRepo) ListIDs() ([]string, error) {
	rows, err := r.q.Query(context.Background(), `SELECT id FROM invoices ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list invoice ids: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan invoice id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *InvoiceRepo) insertLines(invoiceID string, lines []entity.InvoiceLine) error {
	query := `
		INSERT INTO invoice_lines (id, invoice_id, product_id, product_name, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range lines {
		line := &lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.InvoiceID = invoiceID
		if _, err := r.q.Exec(context.Background(), query,
			line.ID, line.InvoiceID, line.ProductID, line.ProductName,
			line.Quantity, line.UnitPrice, line.Total,
		); err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}
	return nil
}

func (r *InvoiceRepo) linesByInvoice(invoiceID string) ([]entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, product_id, product_name, quantity, unit_price, total
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(
			&l.ID, &l.InvoiceID, &l.ProductID, &l.ProductName,
			&l.Quantity, &l.UnitPrice, &l.Total,
		); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
