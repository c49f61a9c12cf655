package analytics

import "github.com/dcoral/gestock-api/internal/domain/entity"

// InventoryExporter serializa el catálogo a un archivo descargable (xlsx).
// La implementación vive en infrastructure; aquí solo se declara lo que el
// caso de uso necesita.
type InventoryExporter interface {
	ExportProducts(products []*entity.Product) ([]byte, error)
}
