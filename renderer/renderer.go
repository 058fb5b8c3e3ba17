// Package renderer produces the certificate PDF artifact. Two strategies
// exist behind one interface: an overlay renderer that composites text onto
// the deployment's certificate template image, and a programmatic renderer
// that synthesizes the whole page. The template is an optional asset, so the
// overlay renderer degrades to the programmatic one at runtime.
package renderer

import (
	"os"
)

// CertificateData carries everything printed on a certificate
type CertificateData struct {
	StudentName     string
	WaplID          string
	DomainName      string
	IssueDate       string // display format, e.g. "02 January 2006"
	ExpiryDate      string
	QRCodePNG       []byte
	HRName          string // optional issuer attribution
	CertificateText string // optional body paragraph
}

// Renderer turns certificate data into a single-page PDF
type Renderer interface {
	Render(data CertificateData) ([]byte, error)
}

// New selects the rendering strategy by template availability. With the
// template asset present the overlay renderer is used (itself falling back
// to the programmatic one if compositing fails); without it the
// programmatic renderer is used directly.
func New(templatePath, fontDir string) Renderer {
	if _, err := os.Stat(templatePath); err != nil {
		return &FallbackRenderer{}
	}
	return &TemplateRenderer{
		TemplatePath: templatePath,
		FontDir:      fontDir,
		fallback:     &FallbackRenderer{},
	}
}
