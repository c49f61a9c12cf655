package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dcoral/gestock-api/internal/domain"
	"github.com/dcoral/gestock-api/internal/domain/entity"
	"github.com/dcoral/gestock-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación de StockMovementRepository (usable con pool o tx).
// Create y Delete escriben cabecera y líneas dentro del mismo Querier: cuando el
// Querier es una tx, movimiento y deltas de stock aterrizan juntos.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste la cabecera del movimiento y todas sus líneas.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, type, department_id, supplier, stock_manager, total_value, total_items, display_date, timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.Type, nullIfEmpty(m.DepartmentID), nullIfEmpty(m.Supplier), m.StockManager,
		m.TotalValue, m.TotalItems, m.DisplayDate, m.Timestamp, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert movement: %w", err)
	}

	lineQuery := `
		INSERT INTO stock_movement_lines (id, movement_id, product_id, product_name, quantity, previous_stock, new_stock, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range m.Lines {
		line := &m.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.MovementID = m.ID
		if _, err := r.q.Exec(context.Background(), lineQuery,
			line.ID, line.MovementID, line.ProductID, line.ProductName,
			line.Quantity, line.PreviousStock, line.NewStock, line.UnitPrice, line.Total,
		); err != nil {
			return fmt.Errorf("insert movement line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un movimiento con sus líneas. Devuelve nil si no existe.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `
		SELECT id, type, department_id, supplier, stock_manager, total_value, total_items, display_date, timestamp, created_at
		FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	var departmentID, supplier *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.Type, &departmentID, &supplier, &m.StockManager,
		&m.TotalValue, &m.TotalItems, &m.DisplayDate, &m.Timestamp, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	m.DepartmentID = derefStr(departmentID)
	m.Supplier = derefStr(supplier)

	lines, err := r.linesByMovement(id)
	if err != nil {
		return nil, err
	}
	m.Lines = lines
	return &m, nil
}

// List lista movimientos (con líneas) según el filtro, del más reciente al más antiguo.
func (r *StockMovementRepo) List(filter repository.MovementListFilter) ([]*entity.StockMovement, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, type, department_id, supplier, stock_manager, total_value, total_items, display_date, timestamp, created_at
		FROM stock_movements WHERE 1=1`)
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.Type != "" {
		sb.WriteString(" AND type = " + arg(filter.Type))
	}
	if filter.DepartmentID != "" {
		sb.WriteString(" AND department_id = " + arg(filter.DepartmentID))
	}
	if filter.ProductID != "" {
		sb.WriteString(" AND id IN (SELECT movement_id FROM stock_movement_lines WHERE product_id = " + arg(filter.ProductID) + ")")
	}
	if filter.From != nil {
		sb.WriteString(" AND timestamp >= " + arg(*filter.From))
	}
	if filter.To != nil {
		sb.WriteString(" AND timestamp <= " + arg(*filter.To))
	}
	sb.WriteString(" ORDER BY timestamp DESC")
	sb.WriteString(" LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset))

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var departmentID, supplier *string
		if err := rows.Scan(
			&m.ID, &m.Type, &departmentID, &supplier, &m.StockManager,
			&m.TotalValue, &m.TotalItems, &m.DisplayDate, &m.Timestamp, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.DepartmentID = derefStr(departmentID)
		m.Supplier = derefStr(supplier)
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, m := range list {
		lines, err := r.linesByMovement(m.ID)
		if err != nil {
			return nil, err
		}
		m.Lines = lines
	}
	return list, nil
}

// Delete elimina el movimiento y sus líneas (ON DELETE CASCADE cubre las líneas).
func (r *StockMovementRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockMovementRepo) linesByMovement(movementID string) ([]entity.MovementLine, error) {
	query := `
		SELECT id, movement_id, product_id, product_name, quantity, previous_stock, new_stock, unit_price, total
		FROM stock_movement_lines WHERE movement_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query, movementID)
	if err != nil {
		return nil, fmt.Errorf("list movement lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.MovementLine
	for rows.Next() {
		var l entity.MovementLine
		if err := rows.Scan(
			&l.ID, &l.MovementID, &l.ProductID, &l.ProductName,
			&l.Quantity, &l.PreviousStock, &l.NewStock, &l.UnitPrice, &l.Total,
		); err != nil {
			return nil, fmt.Errorf("scan movement line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
