package infra

// pdf.go — receipt generation using go-pdf/fpdf. Produces an A4 materials
// receipt with:
//   - Business name header
//   - Order code, date, client and site location
//   - Material table (label, total quantity, unit)
//   - Total wall length line
//
// The output file is saved to storagePath/recibo_{codigo}_{reciboID}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"obraflow/internal/calc"
	"obraflow/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReciboPDF renders the materials receipt for an order. storagePath is
// created if needed. Returns the absolute path to the generated file.
func GenerateReciboPDF(recibo *model.Recibo, orden *model.Orden, totales calc.Totales, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%s_%s.pdf", orden.Codigo, recibo.ID.String())
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30 // total margins = 30mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "ObraFlow", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Recibo de Materiales", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Order info ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Orden %s", orden.Codigo), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, recibo.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if orden.Cliente != nil {
		pdf.CellFormat(contentW, 5, "Cliente: "+orden.Cliente.Nombre, "", 1, "L", false, 0, "")
	}
	if orden.Producto != nil {
		pdf.CellFormat(contentW, 5, "Producto: "+orden.Producto.Nombre, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, "Ubicación: "+orden.Ubicacion, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Separator ────────────────────────────────────────────────────────────
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Materials header ──────────────────────────────────────────────────────
	col1 := contentW * 0.50 // material label
	col2 := contentW * 0.28 // total
	col3 := contentW * 0.22 // unit

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Material", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Cantidad", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col3, 6, "Unidad", "B", 1, "C", false, 0, "")

	// ── Material rows ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	for _, mat := range totales.Materiales {
		pdf.CellFormat(col1, 6, mat.Etiqueta, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, mat.Total.StringFixed(3), "", 0, "R", false, 0, "")
		pdf.CellFormat(col3, 6, mat.Unidad, "", 1, "C", false, 0, "")
	}

	pdf.Ln(3)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Total length ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1, 7, "Largo total de muro:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, totales.LargoTotal.StringFixed(3), "", 0, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(col3, 7, "m", "", 1, "C", false, 0, "")

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Documento generado automáticamente — no requiere firma.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
