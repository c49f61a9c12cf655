package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dcoral/gestock-api/internal/domain"
	"github.com/dcoral/gestock-api/internal/domain/entity"
	"github.com/dcoral/gestock-api/internal/domain/repository"
)

var _ repository.DepartmentRepository = (*DepartmentRepo)(nil)

// DepartmentRepo implementación de DepartmentRepository (usable con pool o tx).
type DepartmentRepo struct {
	q Querier
}

// NewDepartmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDepartmentRepository(q Querier) *DepartmentRepo {
	return &DepartmentRepo{q: q}
}

// Create persiste un nuevo departamento.
func (r *DepartmentRepo) Create(department *entity.Department) error {
	query := `
		INSERT INTO departments (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		department.ID, department.Name, nullIfEmpty(department.Description), department.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

// GetByID obtiene un departamento por ID. Devuelve nil si no existe.
func (r *DepartmentRepo) GetByID(id string) (*entity.Department, error) {
	query := `SELECT id, name, description, created_at FROM departments WHERE id = $1`
	var d entity.Department
	var description *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.Name, &description, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	d.Description = derefStr(description)
	return &d, nil
}

// Update actualiza un departamento.
func (r *DepartmentRepo) Update(department *entity.Department) error {
	query := `UPDATE departments SET name = $2, description = $3 WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		department.ID, department.Name, nullIfEmpty(department.Description),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update department: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista departamentos con paginación, ordenados por nombre.
func (r *DepartmentRepo) List(limit, offset int) ([]*entity.Department, error) {
	query := `SELECT id, name, description, created_at FROM departments ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Department
	for rows.Next() {
		var d entity.Department
		var description *string
		if err := rows.Scan(&d.ID, &d.Name, &description, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		d.Description = derefStr(description)
		list = append(list, &d)
	}
	return list, rows.Err()
}

// Delete elimina un departamento.
func (r *DepartmentRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete department: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
