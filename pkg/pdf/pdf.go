// Package pdf renders tabular reports into PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Chafic123/Attendance-Backend/config"
)

// ContentType of rendered documents.
const ContentType = "application/pdf"

// Field a label/value pair printed above or below the table.
type Field struct {
	Label string
	Value string
}

// Column a table column. Weight is relative to the other columns.
type Column struct {
	Header string
	Weight float64
	Align  string // "L", "C" or "R"; empty means left
}

// Document the data of one report. Rendering is purely presentational.
type Document struct {
	Title       string
	Info        []Field
	Columns     []Column
	Rows        [][]string
	Summary     []Field
	EmptyText   string
	GeneratedAt time.Time
}

// Renderer turns Documents into PDF bytes.
type Renderer struct {
	institution string
	paper       string
}

// NewRenderer creates a Renderer from the report config.
func NewRenderer(cfg *config.ReportConfig) *Renderer {
	paper := "A4"
	if strings.EqualFold(cfg.PaperSize, "letter") {
		paper = "Letter"
	}
	return &Renderer{institution: cfg.Institution, paper: paper}
}

const (
	lineHeight   = 7.0
	headerHeight = 8.0
)

var (
	accent     = [3]int{30, 74, 107}
	headerText = [3]int{255, 255, 255}
	stripe     = [3]int{243, 247, 250}
)

// Render produces the PDF.
func (r *Renderer) Render(doc *Document) ([]byte, error) {
	if len(doc.Columns) == 0 {
		return nil, fmt.Errorf("pdf: document %q has no columns", doc.Title)
	}

	f := fpdf.New("P", "mm", r.paper, "")
	f.SetTitle(doc.Title, true)
	f.SetCreator(r.institution, true)
	f.SetAutoPageBreak(true, 15)
	tr := f.UnicodeTranslatorFromDescriptor("")

	generated := doc.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	f.SetFooterFunc(func() {
		f.SetY(-12)
		f.SetFont("Helvetica", "I", 8)
		f.SetTextColor(120, 120, 120)
		f.CellFormat(0, 5, tr(fmt.Sprintf("Generated %s - page %d", generated.Format("2006-01-02 15:04"), f.PageNo())), "", 0, "C", false, 0, "")
	})

	f.AddPage()
	pageW, _ := f.GetPageSize()
	left, _, right, _ := f.GetMargins()
	usable := pageW - left - right

	// header
	f.SetFont("Helvetica", "B", 11)
	f.SetTextColor(accent[0], accent[1], accent[2])
	f.CellFormat(0, 6, tr(r.institution), "", 1, "C", false, 0, "")
	f.SetFont("Helvetica", "B", 16)
	f.CellFormat(0, 10, tr(doc.Title), "B", 1, "C", false, 0, "")
	f.Ln(4)

	writeFields(f, tr, doc.Info)
	if len(doc.Info) > 0 {
		f.Ln(3)
	}

	widths := columnWidths(doc.Columns, usable)
	writeHeader(f, tr, doc.Columns, widths)

	f.SetFont("Helvetica", "", 9)
	f.SetTextColor(40, 40, 40)
	if len(doc.Rows) == 0 {
		empty := doc.EmptyText
		if empty == "" {
			empty = "No records"
		}
		f.CellFormat(usable, lineHeight, tr(empty), "1", 1, "C", false, 0, "")
	}
	for i, row := range doc.Rows {
		fill := i%2 == 1
		f.SetFillColor(stripe[0], stripe[1], stripe[2])
		for j, col := range doc.Columns {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			align := col.Align
			if align == "" {
				align = "L"
			}
			f.CellFormat(widths[j], lineHeight, tr(cell), "1", 0, align, fill, 0, "")
		}
		f.Ln(-1)
	}

	if len(doc.Summary) > 0 {
		f.Ln(4)
		writeFields(f, tr, doc.Summary)
	}

	if err := f.Error(); err != nil {
		return nil, fmt.Errorf("pdf: render %q: %w", doc.Title, err)
	}

	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: output %q: %w", doc.Title, err)
	}
	return buf.Bytes(), nil
}

func writeFields(f *fpdf.Fpdf, tr func(string) string, fields []Field) {
	for _, fd := range fields {
		f.SetFont("Helvetica", "B", 10)
		f.SetTextColor(accent[0], accent[1], accent[2])
		f.CellFormat(45, 6, tr(fd.Label+":"), "", 0, "L", false, 0, "")
		f.SetFont("Helvetica", "", 10)
		f.SetTextColor(40, 40, 40)
		f.CellFormat(0, 6, tr(fd.Value), "", 1, "L", false, 0, "")
	}
}

func writeHeader(f *fpdf.Fpdf, tr func(string) string, cols []Column, widths []float64) {
	f.SetFont("Helvetica", "B", 9)
	f.SetFillColor(accent[0], accent[1], accent[2])
	f.SetTextColor(headerText[0], headerText[1], headerText[2])
	for i, col := range cols {
		f.CellFormat(widths[i], headerHeight, tr(col.Header), "1", 0, "C", true, 0, "")
	}
	f.Ln(-1)
}

func columnWidths(cols []Column, usable float64) []float64 {
	total := 0.0
	for _, c := range cols {
		w := c.Weight
		if w <= 0 {
			w = 1
		}
		total += w
	}
	widths := make([]float64, len(cols))
	for i, c := range cols {
		w := c.Weight
		if w <= 0 {
			w = 1
		}
		widths[i] = usable * w / total
	}
	return widths
}
