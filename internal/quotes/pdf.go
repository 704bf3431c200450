package quotes

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/dhruvpatel3d/printquote-backend/pkg/config"
	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
	"github.com/dhruvpatel3d/printquote-backend/pkg/enums"
)

// PDFRenderer turns a quotation snapshot into the printable document. It
// formats the stored breakdown verbatim and performs no pricing math of its
// own.
type PDFRenderer struct {
	company  config.CompanyConfig
	currency string
}

// NewPDFRenderer builds a renderer with the configured company header.
func NewPDFRenderer(company config.CompanyConfig, currency string) *PDFRenderer {
	if currency == "" {
		currency = "Rs."
	}
	return &PDFRenderer{company: company, currency: currency}
}

func (r *PDFRenderer) money(amount int64) string {
	return fmt.Sprintf("%s %d", r.currency, amount)
}

// Render produces the quotation PDF bytes.
func (r *PDFRenderer) Render(quotation *models.Quotation, snapshot Snapshot) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, r.company.Name, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if r.company.Address != "" {
		pdf.CellFormat(0, 5, r.company.Address, "", 1, "L", false, 0, "")
	}
	contact := r.company.Phone
	if r.company.Email != "" {
		if contact != "" {
			contact += " | "
		}
		contact += r.company.Email
	}
	if contact != "" {
		pdf.CellFormat(0, 5, contact, "", 1, "L", false, 0, "")
	}
	if r.company.GSTIN != "" {
		pdf.CellFormat(0, 5, "GSTIN: "+r.company.GSTIN, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, "Quotation "+quotation.Number, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, "Date: "+quotation.CreatedAt.Format("02 Jan 2006"), "", 1, "L", false, 0, "")
	if quotation.ValidUntil != nil {
		pdf.CellFormat(0, 5, "Valid until: "+quotation.ValidUntil.Format("02 Jan 2006"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// Client block
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Quoted to", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, snapshot.Client.Name, "", 1, "L", false, 0, "")
	if snapshot.Client.Company != "" {
		pdf.CellFormat(0, 5, snapshot.Client.Company, "", 1, "L", false, 0, "")
	}
	if snapshot.Client.Address != "" {
		pdf.CellFormat(0, 5, snapshot.Client.Address, "", 1, "L", false, 0, "")
	}
	if snapshot.Client.GSTIN != "" {
		pdf.CellFormat(0, 5, "GSTIN: "+snapshot.Client.GSTIN, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Line table
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(58, 7, "File", "1", 0, "L", true, 0, "")
	pdf.CellFormat(22, 7, "Process", "1", 0, "L", true, 0, "")
	pdf.CellFormat(26, 7, "Material", "1", 0, "L", true, 0, "")
	pdf.CellFormat(22, 7, "Volume", "1", 0, "R", true, 0, "")
	pdf.CellFormat(18, 7, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(44, 7, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, line := range snapshot.Lines {
		volume := line.VolumeCC.String() + " cc"
		if line.VolumeMethod == enums.VolumeMethodEstimated {
			volume += " (est)"
		}
		pdf.CellFormat(58, 7, line.FileName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(22, 7, string(line.Technology), "1", 0, "L", false, 0, "")
		pdf.CellFormat(26, 7, line.MaterialKey, "1", 0, "L", false, 0, "")
		pdf.CellFormat(22, 7, volume, "1", 0, "R", false, 0, "")
		pdf.CellFormat(18, 7, strconv.Itoa(line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(44, 7, r.money(line.LineCost), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// Totals, straight from the stored breakdown.
	breakdown := snapshot.Breakdown
	r.totalRow(pdf, "Subtotal", r.money(breakdown.Subtotal), false)
	if breakdown.DiscountAmount > 0 {
		label := "Discount"
		if breakdown.DiscountLabel != "" {
			label = "Discount (" + breakdown.DiscountLabel + ")"
		}
		r.totalRow(pdf, label, "- "+r.money(breakdown.DiscountAmount), false)
		r.totalRow(pdf, "After discount", r.money(breakdown.AfterDiscount), false)
	}
	if breakdown.IGSTAmount.IsPositive() {
		r.totalRow(pdf, "IGST", r.currency+" "+breakdown.IGSTAmount.StringFixed(2), false)
	} else {
		if breakdown.CGSTAmount.IsPositive() {
			r.totalRow(pdf, "CGST", r.currency+" "+breakdown.CGSTAmount.StringFixed(2), false)
		}
		if breakdown.SGSTAmount.IsPositive() {
			r.totalRow(pdf, "SGST", r.currency+" "+breakdown.SGSTAmount.StringFixed(2), false)
		}
	}
	if snapshot.Charges.Applied {
		r.totalRow(pdf, "Packaging", r.money(snapshot.Charges.Packaging), false)
		r.totalRow(pdf, "Courier", r.money(snapshot.Charges.Courier), false)
	} else if snapshot.Charges.Note != "" {
		r.totalRow(pdf, "Shipping", snapshot.Charges.Note, false)
	}
	r.totalRow(pdf, "Grand total", r.money(breakdown.GrandTotal), true)

	if breakdown.NearSlabMessage != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 5, breakdown.NearSlabMessage, "", 1, "L", false, 0, "")
	}

	// Bank details footer
	if snapshot.BankDetails != nil {
		bank := snapshot.BankDetails
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Payment details", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 5, bank.AccountName+" | "+bank.BankName+" "+bank.Branch, "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, "A/C: "+bank.AccountNumber+"  IFSC: "+bank.IFSC, "", 1, "L", false, 0, "")
		if bank.UPIID != "" {
			pdf.CellFormat(0, 5, "UPI: "+bank.UPIID, "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) totalRow(pdf *gofpdf.Fpdf, label, value string, emphasize bool) {
	if emphasize {
		pdf.SetFont("Arial", "B", 11)
	} else {
		pdf.SetFont("Arial", "", 9)
	}
	pdf.CellFormat(146, 6, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(44, 6, value, "", 1, "R", false, 0, "")
}
