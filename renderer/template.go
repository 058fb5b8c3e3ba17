package renderer

import (
	"bytes"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Colors matching the WAPL certificate template artwork
const (
	colorGold = "#8a6a2f"
	colorBlue = "#1f2b44"
)

// TemplateRenderer composites certificate text over the template image and
// wraps the result into a single-page PDF. Any compositing error falls back
// to the programmatic renderer.
type TemplateRenderer struct {
	TemplatePath string
	FontDir      string
	fallback     *FallbackRenderer
}

type certificateFonts struct {
	name  font.Face // large display face for the student name
	title font.Face
	body  font.Face
	small font.Face
}

// loadFonts loads the Playfair Display faces; missing typeface files are
// recovered silently with the default face.
func (r *TemplateRenderer) loadFonts() certificateFonts {
	bold := filepath.Join(r.FontDir, "PlayfairDisplay-Bold.ttf")
	regular := filepath.Join(r.FontDir, "PlayfairDisplay-Regular.ttf")

	name, err1 := gg.LoadFontFace(bold, 90)
	title, err2 := gg.LoadFontFace(bold, 54)
	body, err3 := gg.LoadFontFace(bold, 44)
	small, err4 := gg.LoadFontFace(regular, 36)

	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		log.Printf("Certificate fonts not found in %s, using default face", r.FontDir)
		def := basicfont.Face7x13
		return certificateFonts{name: def, title: def, body: def, small: def}
	}
	return certificateFonts{name: name, title: title, body: body, small: small}
}

func (r *TemplateRenderer) Render(data CertificateData) ([]byte, error) {
	pdfBytes, err := r.renderOverlay(data)
	if err != nil {
		log.Printf("Template rendering failed (%v), falling back to programmatic renderer", err)
		return r.fallback.Render(data)
	}
	return pdfBytes, nil
}

func (r *TemplateRenderer) renderOverlay(data CertificateData) ([]byte, error) {
	img, err := imaging.Open(r.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open certificate template: %w", err)
	}

	dc := gg.NewContextForImage(img)
	w := float64(dc.Width())
	h := float64(dc.Height())
	cx := w / 2

	fonts := r.loadFonts()

	// Salutation line
	dc.SetFontFace(fonts.title)
	dc.SetHexColor(colorGold)
	dc.DrawStringAnchored("This certificate is proudly presented to", cx, 395, 0.5, 0.5)

	// Student name (prominent)
	dc.SetFontFace(fonts.name)
	dc.SetHexColor(colorBlue)
	dc.DrawStringAnchored(strings.ToUpper(data.StudentName), cx, 480, 0.5, 0.5)

	// Body paragraph, greedily word-wrapped to fit the artwork
	bodyText := data.CertificateText
	if bodyText == "" {
		bodyText = fmt.Sprintf(
			"This certificate recognizes the candidate's hands-on experience in %s and successful assessment by WAPL.",
			data.DomainName)
	}

	dc.SetFontFace(fonts.body)
	dc.SetHexColor(colorGold)
	bodyY := 580.0
	for _, line := range wrapText(dc, bodyText, w-400) {
		dc.DrawStringAnchored(line, cx, bodyY, 0.5, 0.5)
		bodyY += 58
	}

	// Left-aligned metadata block near the bottom
	leftX := 180.0
	baseY := h - 300

	dc.SetFontFace(fonts.small)
	dc.SetHexColor("#000000")
	dc.DrawStringAnchored("Valid From: "+data.IssueDate, leftX, baseY, 0, 0.5)
	dc.DrawStringAnchored("Valid Until: "+data.ExpiryDate, leftX, baseY+50, 0, 0.5)
	dc.DrawStringAnchored("WAPL ID: "+data.WaplID, leftX, baseY+100, 0, 0.5)
	if data.HRName != "" {
		dc.DrawStringAnchored("Issued by: "+data.HRName, leftX, baseY+150, 0, 0.5)
	}

	// QR code in the bottom-right region
	if len(data.QRCodePNG) > 0 {
		qrImg, err := imaging.Decode(bytes.NewReader(data.QRCodePNG))
		if err != nil {
			return nil, fmt.Errorf("failed to decode QR image: %w", err)
		}
		qrImg = imaging.Resize(qrImg, 220, 220, imaging.Lanczos)
		dc.DrawImage(qrImg, int(w)-400, int(baseY)-80)
	}

	// Flatten the composite to JPEG and wrap into a single-page PDF
	var jpegBuf bytes.Buffer
	if err := imaging.Encode(&jpegBuf, dc.Image(), imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("failed to encode certificate image: %w", err)
	}

	return imageToPDF(jpegBuf.Bytes(), w, h)
}

// wrapText accumulates words into lines no wider than maxWidth using the
// context's current font
func wrapText(dc *gg.Context, text string, maxWidth float64) []string {
	var lines []string
	var current string

	for _, word := range strings.Fields(text) {
		test := word
		if current != "" {
			test = current + " " + word
		}
		if lw, _ := dc.MeasureString(test); lw <= maxWidth {
			current = test
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// imageToPDF produces a PDF whose single page is exactly the image.
// Pixel dimensions are mapped to points at 96 DPI.
func imageToPDF(jpegData []byte, pxWidth, pxHeight float64) ([]byte, error) {
	const pxToPt = 72.0 / 96.0
	pageW := pxWidth * pxToPt
	pageH := pxHeight * pxToPt

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader("certificate", opts, bytes.NewReader(jpegData))
	pdf.ImageOptions("certificate", 0, 0, pageW, pageH, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to write certificate PDF: %w", err)
	}
	return out.Bytes(), nil
}
