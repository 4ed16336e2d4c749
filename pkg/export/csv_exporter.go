package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// Dataset is ordered tabular content shared by the CSV and PDF renderers.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

// AddRow appends a record. Missing trailing cells are left empty.
func (d *Dataset) AddRow(cells ...string) {
	d.Rows = append(d.Rows, cells)
}

// CSVExporter writes datasets as RFC 4180 CSV.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV bytes. Cells that a spreadsheet would evaluate as a formula are quoted with a leading apostrophe.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	record := make([]string, len(data.Headers))
	for i, row := range data.Rows {
		for col := range record {
			record[col] = ""
			if col < len(row) {
				record[col] = neutralizeFormula(row[col])
			}
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func neutralizeFormula(cell string) string {
	if cell == "" {
		return cell
	}
	if strings.ContainsRune("=+-@", rune(cell[0])) {
		return "'" + cell
	}
	return cell
}
