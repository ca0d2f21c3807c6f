package receipt

// pdf.go — PDF rendering of a check using go-pdf/fpdf.
// A7-size thermal receipt-style layout:
//   - Centered owner name header
//   - Check id and timestamp
//   - Position table (name, quantity, line total)
//   - Bold total, payment method, change
//
// Labels are Latin here: fpdf core fonts cover cp1252 only, so the Ukrainian
// wording lives in the plain-text renderer.

import (
	"bytes"
	"fmt"

	"github.com/wesglu/checkbox/internal/model"

	"github.com/go-pdf/fpdf"
)

// PDF renders the check as an in-memory PDF document.
func PDF(check *model.Check) ([]byte, error) {
	// A7 ≈ 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	ownerName := ""
	if check.User != nil {
		ownerName = check.User.Name
	}

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr(ownerName), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, check.ID.String(), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, check.CreatedAt.Format("02/01/2006  15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Positions ────────────────────────────────────────────────────────────
	col1 := contentW * 0.52 // position name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // line total

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, p := range check.Positions {
		name := p.Name
		if len(name) > 22 {
			name = name[:21] + "."
		}
		pdf.CellFormat(col1, 5, tr(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", p.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, p.Total.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, check.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	label := "Cash:"
	if check.Payment.Type == model.PaymentCashless {
		label = "Card:"
	}
	pdf.CellFormat(col1+col2, 4, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, check.Payment.Amount.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.CellFormat(col1+col2, 4, "Change:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, check.Rest.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you for your purchase!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}
