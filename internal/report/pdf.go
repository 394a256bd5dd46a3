package report

import (
	"io"

	"github.com/go-pdf/fpdf"
)

func writePDF(w io.Writer, r Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(Title, true)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.CellFormat(190, 10, Title, "", 1, "C", false, 0, "")
	pdf.Ln(10)
	for _, line := range r.Lines() {
		pdf.CellFormat(190, 10, tr(line), "", 1, "", false, 0, "")
	}
	pdf.Ln(10)
	pdf.MultiCell(0, 10, tr(r.Advice()), "", "", false)
	return pdf.Output(w)
}
