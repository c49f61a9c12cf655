// seed genera la migración SQL que puebla el catálogo inicial de productos
// a partir del export del sistema anterior (CSV separado por ';' en ISO-8859-1).
//
// Uso: go run ./cmd/seed [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/0002_seed_catalog.up.sql
// y su correspondiente .down.sql.
//
// Columnas esperadas: nombre;cantidad;unidad;precio;vencimiento
// (vencimiento en dd/mm/aaaa, vacío si el producto no vence).
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type row struct {
	name     string
	quantity decimal.Decimal
	unit     string
	price    decimal.Decimal
	expiry   string // yyyy-mm-dd, "" si no vence
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// Los exports del sistema anterior vienen en ISO-8859-1 con ';'.
	reader := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	var rows []row
	var skipped int
	for i, rec := range records {
		if i == 0 && looksLikeHeader(rec) {
			continue
		}
		r, ok := parseRow(rec)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, r)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "El CSV no contiene filas válidas")
		os.Exit(1)
	}

	// Orden estable por nombre: los ids prod-NNN quedan deterministas
	// aunque el export venga desordenado.
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })

	moduleRoot := findModuleRoot()
	migrationsDir := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations")

	upPath := filepath.Join(migrationsDir, "0002_seed_catalog.up.sql")
	if err := writeUp(upPath, csvPath, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir %s: %v\n", upPath, err)
		os.Exit(1)
	}
	downPath := filepath.Join(migrationsDir, "0002_seed_catalog.down.sql")
	if err := writeDown(downPath, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir %s: %v\n", downPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generado %s: %d productos (%d filas descartadas)\n", upPath, len(rows), skipped)
}

func writeUp(path, source string, rows []row) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	fmt.Fprintf(out, "-- Catálogo inicial de productos\n")
	fmt.Fprintf(out, "-- Generado desde %s (export del sistema anterior)\n\n", filepath.Base(source))

	out.WriteString("INSERT INTO products (id, name, quantity, unit, price, expiry_date) VALUES\n")
	for i, r := range rows {
		expiry := "NULL"
		if r.expiry != "" {
			expiry = "'" + r.expiry + "'"
		}
		sep := ","
		if i == len(rows)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  ('prod-%03d', '%s', %s, '%s', %s, %s)%s\n",
			i+1, escapeSQL(r.name), r.quantity.String(), escapeSQL(r.unit), r.price.String(), expiry, sep)
	}
	out.WriteString("ON CONFLICT (id) DO NOTHING;\n\n")

	// El contador arranca después del último id sembrado para que el
	// generador secuencial continúe en prod-(N+1).
	fmt.Fprintf(out, "INSERT INTO counters (id, count) VALUES ('products', %d)\n", len(rows))
	out.WriteString("ON CONFLICT (id) DO UPDATE SET count = GREATEST(counters.count, EXCLUDED.count);\n")
	return nil
}

func writeDown(path string, rows []row) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	out.WriteString("-- Revierte el catálogo sembrado. El contador de productos se conserva\n")
	out.WriteString("-- para no reemitir ids ya usados por movimientos o facturas.\n")
	out.WriteString("DELETE FROM products WHERE id IN (\n")
	for i := range rows {
		sep := ","
		if i == len(rows)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  'prod-%03d'%s\n", i+1, sep)
	}
	out.WriteString(");\n")
	return nil
}

func looksLikeHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "nombre")
}

// parseRow valida y normaliza una fila del export. Filas sin nombre, con
// cantidad o precio ilegibles o con cantidad negativa se descartan.
func parseRow(rec []string) (row, bool) {
	if len(rec) < 4 {
		return row{}, false
	}
	name := strings.TrimSpace(rec[0])
	if name == "" {
		return row{}, false
	}
	quantity, err := decimal.NewFromString(strings.TrimSpace(rec[1]))
	if err != nil || quantity.IsNegative() {
		return row{}, false
	}
	unit := strings.TrimSpace(rec[2])
	price, err := decimal.NewFromString(strings.TrimSpace(rec[3]))
	if err != nil || price.IsNegative() {
		return row{}, false
	}

	var expiry string
	if len(rec) > 4 && strings.TrimSpace(rec[4]) != "" {
		t, err := time.Parse("02/01/2006", strings.TrimSpace(rec[4]))
		if err != nil {
			return row{}, false
		}
		expiry = t.Format("2006-01-02")
	}

	return row{name: name, quantity: quantity, unit: unit, price: price, expiry: expiry}, true
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
