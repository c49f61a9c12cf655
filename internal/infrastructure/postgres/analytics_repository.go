package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dcoral/gestock-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard y los reportes.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetInventorySummary devuelve conteo de productos y valor total del stock.
// Usa COALESCE para devolver cero cuando no hay productos.
func (r *AnalyticsRepo) GetInventorySummary(ctx context.Context) (*repository.InventorySummaryResult, error) {
	const query = `
	SELECT
	    COUNT(*)                               AS product_count,
	    COALESCE(SUM(quantity * price), 0)    AS stock_value
	FROM products`

	var result repository.InventorySummaryResult
	err := r.pool.QueryRow(ctx, query).Scan(&result.ProductCount, &result.StockValue)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetInventorySummary: %w", err)
	}
	return &result, nil
}

// GetLowStockProducts devuelve los productos con existencias por debajo del
// umbral, los más escasos primero.
func (r *AnalyticsRepo) GetLowStockProducts(
	ctx context.Context,
	threshold decimal.Decimal,
	limit int,
) ([]*repository.LowStockResult, error) {
	const query = `
	SELECT id, name, quantity, unit
	FROM products
	WHERE quantity < $1
	ORDER BY quantity ASC, id ASC
	LIMIT $2`

	rows, err := r.pool.Query(ctx, query, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetLowStockProducts: %w", err)
	}
	defer rows.Close()

	var results []*repository.LowStockResult
	for rows.Next() {
		var row repository.LowStockResult
		if err := rows.Scan(&row.ProductID, &row.Name, &row.Quantity, &row.Unit); err != nil {
			return nil, fmt.Errorf("analytics.GetLowStockProducts scan: %w", err)
		}
		results = append(results, &row)
	}
	return results, rows.Err()
}

// GetInvoiceTotalsByStatus agrupa las facturas del período por estado con su
// total después de descuento.
func (r *AnalyticsRepo) GetInvoiceTotalsByStatus(
	ctx context.Context,
	from, to time.Time,
) ([]repository.StatusTotalResult, error) {
	const query = `
	SELECT
	    status,
	    COUNT(*)                                   AS invoice_count,
	    COALESCE(SUM(total_after_discount), 0)    AS total
	FROM invoices
	WHERE created_at BETWEEN $1 AND $2
	GROUP BY status
	ORDER BY total DESC`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetInvoiceTotalsByStatus: %w", err)
	}
	defer rows.Close()

	var results []repository.StatusTotalResult
	for rows.Next() {
		var row repository.StatusTotalResult
		if err := rows.Scan(&row.Status, &row.Count, &row.Total); err != nil {
			return nil, fmt.Errorf("analytics.GetInvoiceTotalsByStatus scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetMovementCountsByType agrupa los movimientos del período por tipo
// (stock_in / distribution) con el valor total movido.
func (r *AnalyticsRepo) GetMovementCountsByType(
	ctx context.Context,
	from, to time.Time,
) ([]repository.MovementTypeCountResult, error) {
	const query = `
	SELECT
	    type,
	    COUNT(*)                          AS movement_count,
	    COALESCE(SUM(total_value), 0)    AS total_value
	FROM stock_movements
	WHERE timestamp BETWEEN $1 AND $2
	GROUP BY type
	ORDER BY type`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetMovementCountsByType: %w", err)
	}
	defer rows.Close()

	var results []repository.MovementTypeCountResult
	for rows.Next() {
		var row repository.MovementTypeCountResult
		if err := rows.Scan(&row.Type, &row.Count, &row.TotalValue); err != nil {
			return nil, fmt.Errorf("analytics.GetMovementCountsByType scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetDepartmentUsage devuelve el consumo por departamento en el período,
// contando solo distribuciones (las entradas no tienen departamento destino).
func (r *AnalyticsRepo) GetDepartmentUsage(
	ctx context.Context,
	from, to time.Time,
) ([]repository.DepartmentUsageResult, error) {
	const query = `
	SELECT
	    d.id                                  AS department_id,
	    d.name                                AS department_name,
	    COUNT(DISTINCT m.id)                  AS movement_count,
	    COALESCE(SUM(l.quantity), 0)         AS total_items,
	    COALESCE(SUM(l.total), 0)            AS total_value
	FROM departments d
	JOIN stock_movements m       ON m.department_id = d.id
	JOIN stock_movement_lines l  ON l.movement_id   = m.id
	WHERE m.type = 'distribution'
	  AND m.timestamp BETWEEN $1 AND $2
	GROUP BY d.id, d.name
	ORDER BY total_value DESC`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetDepartmentUsage: %w", err)
	}
	defer rows.Close()

	var results []repository.DepartmentUsageResult
	for rows.Next() {
		var row repository.DepartmentUsageResult
		if err := rows.Scan(
			&row.DepartmentID,
			&row.DepartmentName,
			&row.MovementCount,
			&row.TotalItems,
			&row.TotalValue,
		); err != nil {
			return nil, fmt.Errorf("analytics.GetDepartmentUsage scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
