package repository

// CounterRepository define el puerto fetch-and-increment de los contadores secuenciales.
type CounterRepository interface {
	// Next incrementa atómicamente el contador de la clase dada (creándolo en 1
	// si no existe) y devuelve el valor ya incrementado. Dos emisiones
	// concurrentes nunca reciben el mismo valor.
	Next(kind string) (int64, error)
}
