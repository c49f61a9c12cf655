// Package xlsx genera el export descargable del inventario en formato Excel.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dcoral/gestock-api/internal/domain/entity"
)

const sheetName = "Inventario"

// ExcelizeExporter implementa analytics.InventoryExporter usando excelize.
type ExcelizeExporter struct{}

// NewExcelizeExporter construye el exportador.
func NewExcelizeExporter() *ExcelizeExporter { return &ExcelizeExporter{} }

// ExportProducts serializa el catálogo a un libro xlsx de una sola hoja:
// una fila de cabecera y una fila por producto.
func (e *ExcelizeExporter) ExportProducts(products []*entity.Product) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsx: eliminar hoja por defecto: %w", err)
	}

	headers := []string{"Código", "Nombre", "Cantidad", "Unidad", "Precio Unitario", "Valor Total", "Vencimiento"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("xlsx: celda de cabecera: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx: escribir cabecera: %w", err)
		}
	}

	for i, p := range products {
		r := fmt.Sprint(i + 2)

		quantity, _ := p.Quantity.Float64()
		price, _ := p.Price.Float64()
		totalValue, _ := p.Quantity.Mul(p.Price).Float64()

		expiry := ""
		if p.ExpiryDate != nil {
			expiry = p.ExpiryDate.Format("02/01/2006")
		}

		values := map[string]interface{}{
			"A" + r: p.ID,
			"B" + r: p.Name,
			"C" + r: quantity,
			"D" + r: p.Unit,
			"E" + r: price,
			"F" + r: totalValue,
			"G" + r: expiry,
		}
		for cell, v := range values {
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("xlsx: escribir fila %d: %w", i+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: serializar libro: %w", err)
	}
	return buf.Bytes(), nil
}
