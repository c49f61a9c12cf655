package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrUserNotFound            = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists      = errors.New("el email ya está registrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrDuplicate               = errors.New("recurso duplicado")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
	ErrConflict                = errors.New("conflicto con el estado actual")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrMovementTooOld          = errors.New("el movimiento supera la ventana de 24 horas y no puede eliminarse")
	ErrStockRestorationFailed  = errors.New("no se pudo restaurar el stock del movimiento")
	ErrInvoiceAlreadyConfirmed = errors.New("la factura ya fue confirmada")
)

// ValidationError agrupa los errores de validación de todas las líneas de una
// operación (movimiento o factura). Se recopilan completos antes de mutar nada:
// si hay al menos uno se rechaza la operación entera, sin efectos parciales.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, "; ")
}

// NewValidationError construye un ValidationError con los mensajes dados.
func NewValidationError(errs ...string) *ValidationError {
	return &ValidationError{Errors: errs}
}

// AsValidationError extrae el *ValidationError de la cadena de errores, si existe.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
