// seed_stock genera el script SQL que carga la planilla de estoque de una loja en stock_items.
//
// Acepta la exportación del ERP en CSV (separador ";" o ",", UTF-8 o ISO-8859-1) o XLSX
// (primera hoja). Las celdas se copian como texto; la normalización ocurre al leer.
//
// Uso: go run ./cmd/seed_stock <store_id> [ruta/estoque.csv|.xlsx]
// Por defecto busca estoque.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_stock.sql
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/estoque-inteligente-api/internal/domain/stock"
)

// columns orden de las columnas de stock_items que carga el script.
var columns = []string{
	"id", "sku", "description", "category", "quantity", "cost", "price",
	"daily_sales", "coverage_days", "abc_class", "status",
}

// headerAliases cabeceras conocidas del ERP (ya plegadas) → columna.
var headerAliases = map[string]string{
	"id": "id", "codigo": "id", "cod": "id",
	"sku": "sku", "referencia": "sku",
	"descricao": "description", "produto": "description", "description": "description",
	"categoria": "category", "category": "category",
	"quantidade": "quantity", "estoque": "quantity", "qtd": "quantity", "quantity": "quantity",
	"custo": "cost", "custo unitario": "cost", "cost": "cost",
	"preco": "price", "preco venda": "price", "price": "price",
	"venda diaria": "daily_sales", "vendas dia": "daily_sales", "daily sales": "daily_sales",
	"cobertura": "coverage_days", "cobertura dias": "coverage_days", "coverage days": "coverage_days",
	"curva abc": "abc_class", "abc": "abc_class", "classe abc": "abc_class", "abc class": "abc_class",
	"status": "status", "situacao": "status",
}

func main() {
	if len(os.Args) < 2 || strings.TrimSpace(os.Args[1]) == "" {
		fmt.Fprintln(os.Stderr, "Uso: seed_stock <store_id> [ruta/estoque.csv|.xlsx]")
		os.Exit(2)
	}
	storeID := strings.TrimSpace(os.Args[1])
	inPath := "estoque.csv"
	if len(os.Args) > 2 {
		inPath = os.Args[2]
	}

	records, err := readTable(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer planilla: %v\n", err)
		os.Exit(1)
	}
	rows, err := mapRows(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cabecera: %v\n", err)
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_stock.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, storeID, filepath.Base(inPath), rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d ítems para la loja %s\n", outPath, len(rows), storeID)
}

// readTable devuelve la planilla como filas de texto, cabecera incluida.
func readTable(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("el archivo no tiene hojas")
		}
		return f.GetRows(sheets[0])
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseCSV(raw)
}

// parseCSV decodifica ISO-8859-1 cuando el contenido no es UTF-8 válido y detecta el
// separador por la primera línea.
func parseCSV(raw []byte) ([][]string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	firstLine, _, _ := bytes.Cut(raw, []byte("\n"))
	r := csv.NewReader(src)
	r.Comma = ','
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		r.Comma = ';'
	}
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r.ReadAll()
}

// mapRows convierte las filas en mapas columna → valor. id es obligatorio; las filas
// sin id se descartan.
func mapRows(records [][]string) ([]map[string]string, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("planilla vacía")
	}
	index := make(map[int]string)
	for i, h := range records[0] {
		if col, ok := headerAliases[stock.Fold(strings.ReplaceAll(h, "_", " "))]; ok {
			index[i] = col
		}
	}
	found := false
	for _, col := range index {
		if col == "id" {
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("falta la columna id/código")
	}

	var rows []map[string]string
	for _, rec := range records[1:] {
		row := make(map[string]string, len(columns))
		for i, v := range rec {
			if col, ok := index[i]; ok {
				row[col] = strings.TrimSpace(v)
			}
		}
		if row["id"] == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func writeSQL(w io.Writer, storeID, source string, rows []map[string]string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "-- Estoque de la loja %s\n-- Generado desde %s\n\n", storeID, source)
	for _, row := range rows {
		values := make([]string, 0, len(columns)+1)
		values = append(values, quote(storeID))
		for _, col := range columns {
			values = append(values, quoteOrNull(row[col]))
		}
		fmt.Fprintf(&b, "INSERT INTO stock_items (store_id, %s)\nVALUES (%s)\n",
			strings.Join(columns, ", "), strings.Join(values, ", "))
		b.WriteString("ON CONFLICT (id) DO UPDATE SET ")
		sets := make([]string, 0, len(columns))
		for _, col := range columns[1:] {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
		b.WriteString(strings.Join(sets, ", "))
		b.WriteString(", store_id = EXCLUDED.store_id, updated_at = now();\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func quote(s string) string {
	return "'" + escapeSQL(s) + "'"
}

func quoteOrNull(s string) string {
	if s == "" {
		return "NULL"
	}
	return quote(s)
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
