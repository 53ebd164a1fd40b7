package utils

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

type CertificatePDFData struct {
	Code           string
	Title          string
	RecipientName  string
	EventTitle     string
	EventVenue     string
	EventDates     string
	CMECredits     float64
	IssuedAt       string
	OrganizerName  string
	QRCodePNG      []byte // PNG bytes of the verification QR
}

// GenerateCertificatePDF renders a landscape attendance certificate
// with the verification QR in the lower left corner.
func GenerateCertificatePDF(data CertificatePDFData) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(25, 20, 25)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()

	// Border frame
	pdf.SetDrawColor(0, 51, 102)
	pdf.SetLineWidth(1.2)
	pdf.Rect(10, 10, pageW-20, pageH-20, "D")
	pdf.SetLineWidth(0.3)
	pdf.Rect(13, 13, pageW-26, pageH-26, "D")

	// Organizer header
	pdf.SetY(25)
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 8, data.OrganizerName, "", 1, "C", false, 0, "")

	// Certificate title
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 26)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 12, data.Title, "", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 6, "This certificate is proudly presented to", "", 1, "C", false, 0, "")

	// Recipient
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 12, data.RecipientName, "", 1, "C", false, 0, "")

	pdf.SetDrawColor(0, 51, 102)
	pdf.SetLineWidth(0.4)
	lineW := 120.0
	pdf.Line((pageW-lineW)/2, pdf.GetY(), (pageW+lineW)/2, pdf.GetY())

	// Event details
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, "for attending", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, data.EventTitle, "", 1, "C", false, 0, "")

	detail := data.EventVenue
	if data.EventDates != "" {
		if detail != "" {
			detail += ", "
		}
		detail += data.EventDates
	}
	if detail != "" {
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 6, detail, "", 1, "C", false, 0, "")
	}

	if data.CMECredits > 0 {
		pdf.Ln(2)
		pdf.SetFont("Arial", "I", 11)
		pdf.CellFormat(0, 6, fmt.Sprintf("Awarded %.1f CME credits", data.CMECredits), "", 1, "C", false, 0, "")
	}

	// QR code (lower left) with the code below it
	if len(data.QRCodePNG) > 0 {
		qrReader := bytes.NewReader(data.QRCodePNG)
		pdf.RegisterImageOptionsReader("qrcode", gofpdf.ImageOptions{ImageType: "PNG"}, qrReader)
		pdf.ImageOptions("qrcode", 22, pageH-55, 30, 30, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.SetXY(18, pageH-24)
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(38, 4, "Scan to verify", "", 1, "C", false, 0, "")
	}

	// Issue date (lower right)
	pdf.SetXY(pageW-90, pageH-40)
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(65, 6, fmt.Sprintf("Issued on %s", data.IssuedAt), "", 1, "C", false, 0, "")

	// Footer: the code itself for manual verification
	pdf.SetY(pageH-18)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, fmt.Sprintf("Certificate code: %s", data.Code), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}
