package mail

import (
	"bytes"
	"fmt"

	"github.com/joy095/taxibooking/models"
	"github.com/phpdave11/gofpdf"
)

// RenderPDF lays the booking summary out on a single A4 page.
func RenderPDF(b models.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Taxi Booking", false)
	// Core fonts are cp1252; translate so names with accents survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "New Taxi Booking")
	pdf.Ln(14)

	for _, row := range Rows(b) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(50, 8, tr(row.Label), "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.MultiCell(0, 8, tr(row.Value), "1", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render booking pdf: %w", err)
	}
	return buf.Bytes(), nil
}
