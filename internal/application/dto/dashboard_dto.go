package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard.
// KPIs de inventario y facturación del período consultado.
type DashboardSummaryDTO struct {
	// Fotografía actual del inventario
	ProductCount  int             `json:"product_count"`
	StockValue    decimal.Decimal `json:"stock_value"` // Σ quantity * price
	LowStockCount int             `json:"low_stock_count"`
	LowStockItems []LowStockDTO   `json:"low_stock_items"`

	// Agregados del período (from - to)
	InvoicesByStatus []StatusTotalDTO  `json:"invoices_by_status"`
	MovementsByType  []MovementTypeDTO `json:"movements_by_type"`

	// Metadatos del período
	DateLabel string `json:"date_label"` // ej: "01/08/2026 - 25/08/2026"
}

// LowStockDTO producto bajo el umbral de reposición.
type LowStockDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
}

// StatusTotalDTO facturación agrupada por estado.
type StatusTotalDTO struct {
	Status string          `json:"status"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// MovementTypeDTO movimientos agrupados por tipo.
type MovementTypeDTO struct {
	Type       string          `json:"type"`
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// DepartmentUsageDTO consumo por departamento vía distribuciones.
type DepartmentUsageDTO struct {
	DepartmentID   string          `json:"department_id"`
	DepartmentName string          `json:"department_name"`
	MovementCount  int             `json:"movement_count"`
	TotalItems     decimal.Decimal `json:"total_items"`
	TotalValue     decimal.Decimal `json:"total_value"`
}

// DepartmentUsageReportDTO respuesta de GET /api/reports/departments.
type DepartmentUsageReportDTO struct {
	From        string               `json:"from"`
	To          string               `json:"to"`
	Departments []DepartmentUsageDTO `json:"departments"`
}
