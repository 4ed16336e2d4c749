package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Field is a labelled value printed in the document header block.
type Field struct {
	Label string
	Value string
}

// Section is a headed block of narrative text. Blank lines split paragraphs.
type Section struct {
	Heading string
	Body    string
}

// Document describes a printable narrative report.
type Document struct {
	Title    string
	Subtitle string
	Fields   []Field
	Sections []Section
	Table    *Dataset
	Footer   string
}

// PDFExporter renders documents onto A4 pages.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render lays out the header fields, the narrative sections and an optional table.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if strings.TrimSpace(doc.Title) == "" {
		return nil, fmt.Errorf("pdf requires a title")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(120, 6, tr(doc.Footer), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "C", false, 0, "")
	if doc.Subtitle != "" {
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, tr(doc.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, field := range doc.Fields {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(45, 6, tr(field.Label), "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, tr(field.Value), "", "", false)
	}

	for _, section := range doc.Sections {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, tr(section.Heading), "B", 1, "", false, 0, "")
		pdf.Ln(2)
		pdf.SetFont("Arial", "", 10)
		for _, paragraph := range paragraphs(section.Body) {
			pdf.MultiCell(0, 5, tr(paragraph), "", "J", false)
			pdf.Ln(2)
		}
	}

	if doc.Table != nil && len(doc.Table.Headers) > 0 {
		pdf.Ln(4)
		renderTable(pdf, tr, *doc.Table)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("layout pdf: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderTable(pdf *gofpdf.Fpdf, tr func(string) string, data Dataset) {
	width, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (width - left - right) / float64(len(data.Headers))

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 7, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range data.Rows {
		for col := range data.Headers {
			value := ""
			if col < len(row) {
				value = row[col]
			}
			pdf.CellFormat(colWidth, 6, tr(truncate(value, colWidth)), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func paragraphs(body string) []string {
	parts := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// truncate keeps table cells on one line. An 8pt Arial glyph averages about 1.6mm.
func truncate(value string, width float64) string {
	limit := int(width / 1.6)
	runes := []rune(value)
	if limit < 4 || len(runes) <= limit {
		return value
	}
	return string(runes[:limit-3]) + "..."
}
