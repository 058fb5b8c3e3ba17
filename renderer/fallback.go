package renderer

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// FallbackRenderer synthesizes the certificate page programmatically.
// Used when the template asset is missing or overlay rendering fails;
// an error here is terminal for the issuance attempt.
type FallbackRenderer struct{}

func (r *FallbackRenderer) Render(data CertificateData) ([]byte, error) {
	pdf := fpdf.New("P", "cm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	width, height := pdf.GetPageSize()

	// Decorative double border
	pdf.SetDrawColor(0x1a, 0x23, 0x7e)
	pdf.SetLineWidth(0.1)
	pdf.Rect(0.5, 0.5, width-1, height-1, "D")
	pdf.SetLineWidth(0.03)
	pdf.Rect(1, 1, width-2, height-2, "D")

	// Corner ornaments
	pdf.SetFillColor(0x28, 0x35, 0x93)
	const cornerRadius = 0.53
	pdf.Circle(1.5, 1.5, cornerRadius, "F")
	pdf.Circle(width-1.5, 1.5, cornerRadius, "F")
	pdf.Circle(1.5, height-1.5, cornerRadius, "F")
	pdf.Circle(width-1.5, height-1.5, cornerRadius, "F")

	centeredText := func(y float64, s string) {
		pdf.Text((width-pdf.GetStringWidth(s))/2, y, s)
	}

	// Title
	pdf.SetFont("Helvetica", "B", 32)
	pdf.SetTextColor(0x1a, 0x23, 0x7e)
	centeredText(3, "CERTIFICATE OF REGISTRATION")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0x42, 0x42, 0x42)
	centeredText(3.7, "WAPL - Student Portfolio and Placement Management System")

	pdf.SetFont("Helvetica", "", 13)
	centeredText(5.5, "This is to certify that")

	// Student name (prominent)
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(0x1a, 0x23, 0x7e)
	centeredText(6.8, data.StudentName)

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(0x42, 0x42, 0x42)
	centeredText(7.7, "has successfully registered with WAPL")

	// Labeled key-value block
	type row struct{ label, value string }
	rows := []row{
		{"WAPL ID:", data.WaplID},
		{"Domain:", data.DomainName},
	}
	if data.HRName != "" {
		rows = append(rows, row{"Issued by:", data.HRName})
	}
	rows = append(rows,
		row{"Issue Date:", data.IssueDate},
		row{"Expiry Date:", data.ExpiryDate},
	)

	y := 8.8
	for _, r := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(0x28, 0x35, 0x93)
		pdf.Text(2, y, r.label)

		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(0x1a, 0x23, 0x7e)
		pdf.Text(4.5, y, r.value)
		y += 0.7
	}

	// Optional certificate text, wrapped and capped at 4 lines
	if data.CertificateText != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0x42, 0x42, 0x42)
		lines := pdf.SplitText(data.CertificateText, width-4)
		if len(lines) > 4 {
			lines = lines[:4]
		}
		textY := 13.0
		for _, line := range lines {
			pdf.Text(1.5, textY, line)
			textY += 0.5
		}
	}

	// QR code, centred
	if len(data.QRCodePNG) > 0 {
		const qrSize = 2.4
		qrX := width/2 - qrSize/2
		qrY := 13.1

		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(data.QRCodePNG))
		pdf.ImageOptions("qr", qrX, qrY, qrSize, qrSize, false, opts, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0x66, 0x66, 0x66)
		centeredText(qrY+qrSize+0.5, "Scan QR Code to Verify")
	}

	// Footer with the credential ID
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0x99, 0x99, 0x99)
	centeredText(height-1.2, "Certificate ID: "+data.WaplID)

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to write certificate PDF: %w", err)
	}
	return out.Bytes(), nil
}
