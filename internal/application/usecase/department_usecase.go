package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcoral/gestock-api/internal/application/dto"
	"github.com/dcoral/gestock-api/internal/domain"
	"github.com/dcoral/gestock-api/internal/domain/entity"
	"github.com/dcoral/gestock-api/internal/domain/repository"
)

// DepartmentUseCase casos de uso CRUD para departamentos (destinos de distribución).
type DepartmentUseCase struct {
	repo repository.DepartmentRepository
}

// NewDepartmentUseCase construye el caso de uso.
func NewDepartmentUseCase(repo repository.DepartmentRepository) *DepartmentUseCase {
	return &DepartmentUseCase{repo: repo}
}

// Create crea un departamento.
func (uc *DepartmentUseCase) Create(in dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	department := &entity.Department{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(department); err != nil {
		return nil, err
	}
	return toDepartmentResponse(department), nil
}

// GetByID obtiene un departamento por ID.
func (uc *DepartmentUseCase) GetByID(id string) (*dto.DepartmentResponse, error) {
	department, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if department == nil {
		return nil, domain.ErrNotFound
	}
	return toDepartmentResponse(department), nil
}

// Update actualiza nombre o descripción de un departamento.
func (uc *DepartmentUseCase) Update(id string, in dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error) {
	department, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if department == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		department.Name = *in.Name
	}
	if in.Description != nil {
		department.Description = *in.Description
	}
	if err := uc.repo.Update(department); err != nil {
		return nil, err
	}
	return toDepartmentResponse(department), nil
}

// List lista departamentos con paginación.
func (uc *DepartmentUseCase) List(in dto.PageRequest) (*dto.DepartmentListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DepartmentResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDepartmentResponse(d))
	}
	return &dto.DepartmentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Delete elimina un departamento. Con movimientos asociados la base lo impide
// y se devuelve un conflicto.
func (uc *DepartmentUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func toDepartmentResponse(d *entity.Department) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
}
