package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InventorySummaryResult resultado crudo del resumen de inventario.
// Lo produce la DB; el use case lo convierte en DTO.
type InventorySummaryResult struct {
	ProductCount int
	StockValue   decimal.Decimal // Σ quantity * price
}

// StatusTotalResult total facturado agrupado por estado de factura.
type StatusTotalResult struct {
	Status string
	Count  int
	Total  decimal.Decimal
}

// MovementTypeCountResult conteo de movimientos agrupado por tipo.
type MovementTypeCountResult struct {
	Type       string
	Count      int
	TotalValue decimal.Decimal
}

// DepartmentUsageResult consumo de un departamento vía distribuciones.
type DepartmentUsageResult struct {
	DepartmentID   string
	DepartmentName string
	MovementCount  int
	TotalItems     decimal.Decimal
	TotalValue     decimal.Decimal
}

// LowStockResult producto bajo el umbral de reposición.
type LowStockResult struct {
	ProductID string
	Name      string
	Quantity  decimal.Decimal
	Unit      string
}

// AnalyticsRepository define las consultas de lectura para el dashboard y los
// reportes. Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// GetInventorySummary devuelve el número de productos y el valor total del
	// stock (Σ quantity*price). Usa COALESCE para devolver cero sin productos.
	GetInventorySummary(ctx context.Context) (*InventorySummaryResult, error)

	// GetLowStockProducts devuelve los productos con quantity < threshold,
	// ordenados de menor a mayor existencia.
	GetLowStockProducts(ctx context.Context, threshold decimal.Decimal, limit int) ([]*LowStockResult, error)

	// GetInvoiceTotalsByStatus agrupa las facturas del período por estado.
	GetInvoiceTotalsByStatus(ctx context.Context, from, to time.Time) ([]StatusTotalResult, error)

	// GetMovementCountsByType agrupa los movimientos del período por tipo.
	GetMovementCountsByType(ctx context.Context, from, to time.Time) ([]MovementTypeCountResult, error)

	// GetDepartmentUsage devuelve el consumo por departamento (distribuciones)
	// en el período, ordenado por valor descendente.
	GetDepartmentUsage(ctx context.Context, from, to time.Time) ([]DepartmentUsageResult, error)
}
