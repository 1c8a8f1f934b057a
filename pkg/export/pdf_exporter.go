package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders attendance registers as a single-table PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render lays out the register with a title naming the subject and batch, a
// wide student column and right-aligned day counts.
func (e *PDFExporter) Render(register Register) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	title := fmt.Sprintf("Attendance Register - %s (%s)", register.Subject, register.Batch)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// 78 + 4*28 fills the 190mm printable width
	const studentWidth, countWidth = 78.0, 28.0

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(studentWidth, 8, registerHeaders[0], "1", 0, "L", false, 0, "")
	for _, header := range registerHeaders[1:] {
		pdf.CellFormat(countWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range register.Rows {
		pdf.CellFormat(studentWidth, 7, row.Student, "1", 0, "L", false, 0, "")
		for _, count := range []int{row.Present, row.Absent, row.Late, row.Total()} {
			pdf.CellFormat(countWidth, 7, strconv.Itoa(count), "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render register pdf: %w", err)
	}
	return buf.Bytes(), nil
}
