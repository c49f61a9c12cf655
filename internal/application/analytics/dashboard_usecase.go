// Package analytics contiene los casos de uso de lectura para el dashboard y
// los reportes. No tiene invariantes propias: son vistas derivadas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcoral/gestock-api/internal/application/dto"
	"github.com/dcoral/gestock-api/internal/domain/repository"
)

const (
	lowStockThreshold = 10 // umbral de reposición: quantity < 10
	lowStockLimit     = 5  // productos en el widget del dashboard
)

// DashboardUseCase genera el resumen de inventario y facturación del período.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
// No accede directamente a las tablas; delega todo en el repositorio.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetSummary construye el DashboardSummaryDTO para el rango dado. Un rango en
// cero se normaliza al mes en curso (día 1 a las 00:00 hasta hoy 23:59:59).
//
// Cuatro llamadas en paralelo:
//  1. GetInventorySummary          → ProductCount + StockValue
//  2. GetLowStockProducts          → LowStockItems (quantity < 10)
//  3. GetInvoiceTotalsByStatus     → InvoicesByStatus
//  4. GetMovementCountsByType      → MovementsByType
func (uc *DashboardUseCase) GetSummary(
	ctx context.Context,
	from, to time.Time,
) (*dto.DashboardSummaryDTO, error) {
	from, to = normalizeRange(from, to)

	// ── Goroutines para paralelizar las 4 consultas DB ────────────────────────
	type summaryResult struct {
		summary *repository.InventorySummaryResult
		err     error
	}
	type lowStockResult struct {
		items []*repository.LowStockResult
		err   error
	}
	type invoicesResult struct {
		totals []repository.StatusTotalResult
		err    error
	}
	type movementsResult struct {
		counts []repository.MovementTypeCountResult
		err    error
	}

	summaryCh := make(chan summaryResult, 1)
	lowStockCh := make(chan lowStockResult, 1)
	invoicesCh := make(chan invoicesResult, 1)
	movementsCh := make(chan movementsResult, 1)

	go func() {
		summary, err := uc.analyticsRepo.GetInventorySummary(ctx)
		summaryCh <- summaryResult{summary, err}
	}()
	go func() {
		items, err := uc.analyticsRepo.GetLowStockProducts(ctx, decimal.NewFromInt(lowStockThreshold), lowStockLimit)
		lowStockCh <- lowStockResult{items, err}
	}()
	go func() {
		totals, err := uc.analyticsRepo.GetInvoiceTotalsByStatus(ctx, from, to)
		invoicesCh <- invoicesResult{totals, err}
	}()
	go func() {
		counts, err := uc.analyticsRepo.GetMovementCountsByType(ctx, from, to)
		movementsCh <- movementsResult{counts, err}
	}()

	summary := <-summaryCh
	lowStock := <-lowStockCh
	invoices := <-invoicesCh
	movements := <-movementsCh

	if summary.err != nil {
		return nil, fmt.Errorf("dashboard: resumen de inventario: %w", summary.err)
	}
	if lowStock.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", lowStock.err)
	}
	if invoices.err != nil {
		return nil, fmt.Errorf("dashboard: facturación por estado: %w", invoices.err)
	}
	if movements.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos por tipo: %w", movements.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	out := &dto.DashboardSummaryDTO{
		ProductCount:     summary.summary.ProductCount,
		StockValue:       summary.summary.StockValue.Round(2),
		LowStockCount:    len(lowStock.items),
		LowStockItems:    make([]dto.LowStockDTO, 0, len(lowStock.items)),
		InvoicesByStatus: make([]dto.StatusTotalDTO, 0, len(invoices.totals)),
		MovementsByType:  make([]dto.MovementTypeDTO, 0, len(movements.counts)),
		DateLabel:        rangeLabel(from, to),
	}
	for _, item := range lowStock.items {
		out.LowStockItems = append(out.LowStockItems, dto.LowStockDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
		})
	}
	for _, total := range invoices.totals {
		out.InvoicesByStatus = append(out.InvoicesByStatus, dto.StatusTotalDTO{
			Status: total.Status,
			Count:  total.Count,
			Total:  total.Total.Round(2),
		})
	}
	for _, count := range movements.counts {
		out.MovementsByType = append(out.MovementsByType, dto.MovementTypeDTO{
			Type:       count.Type,
			Count:      count.Count,
			TotalValue: count.TotalValue.Round(2),
		})
	}
	return out, nil
}

// normalizeRange completa un rango incompleto con el mes en curso.
func normalizeRange(from, to time.Time) (time.Time, time.Time) {
	now := time.Now()
	if to.IsZero() {
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		to = dayStart.Add(24*time.Hour - time.Nanosecond)
	}
	if from.IsZero() {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	return from, to
}

// rangeLabel devuelve la etiqueta legible del rango, ej: "01/08/2026 - 25/08/2026".
func rangeLabel(from, to time.Time) string {
	return fmt.Sprintf("%s - %s", from.Format("02/01/2006"), to.Format("02/01/2006"))
}
