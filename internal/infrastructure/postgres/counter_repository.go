package postgres

import (
	"context"
	"fmt"

	"github.com/dcoral/gestock-api/internal/domain/repository"
)

var _ repository.CounterRepository = (*CounterRepo)(nil)

// CounterRepo implementación de CounterRepository sobre PostgreSQL.
type CounterRepo struct {
	q Querier
}

// NewCounterRepository construye el adaptador de contadores. Pasar pool o tx (Querier).
func NewCounterRepository(q Querier) *CounterRepo {
	return &CounterRepo{q: q}
}

// Next incrementa el contador de la clase dada en una sola sentencia atómica
// (UPSERT ... RETURNING): dos emisiones concurrentes serializan sobre la misma
// fila y nunca reciben el mismo valor. Si el contador no existe arranca en 1.
func (r *CounterRepo) Next(kind string) (int64, error) {
	query := `
		INSERT INTO counters (id, count)
		VALUES ($1, 1)
		ON CONFLICT (id)
		DO UPDATE SET count = counters.count + 1
		RETURNING count`
	var count int64
	if err := r.q.QueryRow(context.Background(), query, kind).Scan(&count); err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", kind, err)
	}
	return count, nil
}
