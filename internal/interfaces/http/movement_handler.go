package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dcoral/gestock-api/internal/application/dto"
	"github.com/dcoral/gestock-api/internal/application/inventory"
	"github.com/dcoral/gestock-api/internal/domain"
)

// dateLayout formato de los filtros from/to en query params.
const dateLayout = "2006-01-02"

// MovementHandler maneja las peticiones HTTP de movimientos de stock (protegido).
type MovementHandler struct {
	uc *inventory.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar movimiento de stock
// @Description  stock_in suma existencias por línea; distribution las descuenta
// @Description  hacia un departamento. Todas las líneas se validan antes de
// @Description  mutar: un fallo rechaza el movimiento completo.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "type, items, stock_manager; department_id para distribution, supplier para stock_in"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if msgs := validateStruct(in); len(msgs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos del movimiento inválidos", Errors: msgs})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener movimiento por ID
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Código del movimiento (MOV000001)"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "MOVEMENT_NOT_FOUND", Message: "movimiento no encontrado"})
		}
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        type           query  string  false  "stock_in | distribution"
// @Param        department_id  query  string  false  "Filtrar por departamento"
// @Param        product_id     query  string  false  "Filtrar por producto"
// @Param        from           query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to             query  string  false  "Fecha final (2006-01-02)"
// @Param        limit          query  int     false  "Límite"   default(20)
// @Param        offset         query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	in := dto.ListMovementsRequest{
		Type:         c.Query("type"),
		DepartmentID: c.Query("department_id"),
		ProductID:    c.Query("product_id"),
	}
	in.Limit = c.QueryInt("limit", 20)
	in.Offset = c.QueryInt("offset", 0)
	if in.Limit > 100 {
		in.Limit = 100
	}

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe tener formato 2006-01-02"})
		}
		in.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe tener formato 2006-01-02"})
		}
		// El filtro es inclusivo: el día completo de la fecha final.
		end := t.Add(24*time.Hour - time.Nanosecond)
		in.To = &end
	}

	if msgs := validateStruct(in); len(msgs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtros inválidos", Errors: msgs})
	}

	out, err := h.uc.List(c.Context(), in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar movimiento (ventana de 24 horas)
// @Description  Revierte exactamente el efecto del movimiento sobre el stock y
// @Description  lo elimina. Fuera de la ventana de 24 horas responde 409
// @Description  MOVEMENT_TOO_OLD sin mutar nada; si la reversión dejaría algún
// @Description  stock negativo responde 409 STOCK_RESTORATION_FAILED y el
// @Description  movimiento se conserva.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Código del movimiento"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "MOVEMENT_NOT_FOUND", Message: "movimiento no encontrado"})
		}
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
