package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/dcoral/gestock-api/internal/application/dto"
	"github.com/dcoral/gestock-api/internal/domain/repository"
)

// ReportsUseCase agrupa los reportes descargables y las vistas agregadas que
// no caben en el dashboard: consumo por departamento y export de inventario.
type ReportsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	productRepo   repository.ProductRepository
	exporter      InventoryExporter
}

func NewReportsUseCase(
	analyticsRepo repository.AnalyticsRepository,
	productRepo repository.ProductRepository,
	exporter InventoryExporter,
) *ReportsUseCase {
	return &ReportsUseCase{
		analyticsRepo: analyticsRepo,
		productRepo:   productRepo,
		exporter:      exporter,
	}
}

// GetDepartmentUsage devuelve el consumo por departamento en el período,
// calculado sobre las distribuciones registradas. Solo los movimientos de
// tipo distribution aportan al reporte.
func (uc *ReportsUseCase) GetDepartmentUsage(ctx context.Context, from, to time.Time) (*dto.DepartmentUsageReportDTO, error) {
	from, to = normalizeRange(from, to)

	rows, err := uc.analyticsRepo.GetDepartmentUsage(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("reports: consumo por departamento: %w", err)
	}

	departments := make([]dto.DepartmentUsageDTO, 0, len(rows))
	for _, row := range rows {
		departments = append(departments, dto.DepartmentUsageDTO{
			DepartmentID:   row.DepartmentID,
			DepartmentName: row.DepartmentName,
			MovementCount:  row.MovementCount,
			TotalItems:     row.TotalItems,
			TotalValue:     row.TotalValue.Round(2),
		})
	}

	return &dto.DepartmentUsageReportDTO{
		From:        from.Format("02/01/2006"),
		To:          to.Format("02/01/2006"),
		Departments: departments,
	}, nil
}

// ExportInventory genera el xlsx con el catálogo completo y devuelve los
// bytes junto con el nombre de archivo sugerido para la descarga.
func (uc *ReportsUseCase) ExportInventory(ctx context.Context) ([]byte, string, error) {
	products, err := uc.productRepo.ListAll()
	if err != nil {
		return nil, "", fmt.Errorf("reports: listar inventario: %w", err)
	}

	data, err := uc.exporter.ExportProducts(products)
	if err != nil {
		return nil, "", fmt.Errorf("reports: exportar inventario: %w", err)
	}

	filename := fmt.Sprintf("inventario_%s.xlsx", time.Now().Format("2006-01-02"))
	return data, filename, nil
}
