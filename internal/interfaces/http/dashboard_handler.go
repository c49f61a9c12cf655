package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/dcoral/gestock-api/internal/application/analytics"
	"github.com/dcoral/gestock-api/internal/application/dto"
)

// DashboardHandler maneja el endpoint del dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del dashboard
// @Description  KPIs de inventario (conteo, valor, bajo stock) y agregados del
// @Description  período: facturación por estado y movimientos por tipo. Sin
// @Description  parámetros el período es del primer día del mes a hoy.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to    query  string  false  "Fecha final (2006-01-02)"
// @Success      200   {object}  dto.DashboardSummaryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
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

	summary, err := h.uc.GetSummary(c.Context(), from, to)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(summary)
}
