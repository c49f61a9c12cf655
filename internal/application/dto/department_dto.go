package dto

import "time"

// CreateDepartmentRequest entrada para crear un departamento.
type CreateDepartmentRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// UpdateDepartmentRequest entrada para actualizar un departamento.
type UpdateDepartmentRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// DepartmentResponse salida de un departamento.
type DepartmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DepartmentListResponse lista de departamentos.
type DepartmentListResponse struct {
	Items []DepartmentResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
