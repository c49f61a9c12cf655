package entity

// Contadores de IDs secuenciales, uno por tipo de entidad.
// Las facturas no usan contador: su consecutivo se deriva escaneando los IDs existentes.
const (
	CounterProducts       = "products"
	CounterStockMovements = "stock_movements"
)

// Counter es el documento contador de una clase de entidad. Count es
// monótonamente no decreciente y se incrementa exactamente una vez por cada
// emisión exitosa de ID, con el primitivo atómico fetch-and-increment del store.
type Counter struct {
	ID    string // clase de entidad: products, stock_movements
	Count int64
}
