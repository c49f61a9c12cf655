package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/dcoral/gestock-api/internal/application/analytics"
	"github.com/dcoral/gestock-api/internal/application/dto"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportsHandler maneja los reportes descargables y agregados (protegido).
type ReportsHandler struct {
	uc *appanalytics.ReportsUseCase
}

// NewReportsHandler construye el handler.
func NewReportsHandler(uc *appanalytics.ReportsUseCase) *ReportsHandler {
	return &ReportsHandler{uc: uc}
}

// GetDepartmentUsage godoc
// @Summary      Consumo por departamento
// @Description  Agrega las distribuciones del período por departamento: número
// @Description  de movimientos, unidades y valor. Sin parámetros el período es
// @Description  del primer día del mes a hoy.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to    query  string  false  "Fecha final (2006-01-02)"
// @Success      200   {object}  dto.DepartmentUsageReportDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/departments [get]
func (h *ReportsHandler) GetDepartmentUsage(c *fiber.Ctx) error {
	var from, to time.Time

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe tener formato 2006-01-02"})
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe tener formato 2006-01-02"})
		}
		to = t
	}

	report, err := h.uc.GetDepartmentUsage(c.Context(), from, to)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(report)
}

// ExportInventory godoc
// @Summary      Exportar inventario a Excel
// @Description  Descarga el catálogo completo como xlsx: código, nombre,
// @Description  cantidad, unidad, precio, valor total y vencimiento.
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    file
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/inventory/export [get]
func (h *ReportsHandler) ExportInventory(c *fiber.Ctx) error {
	data, filename, err := h.uc.ExportInventory(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
