package publicControllers

import (
	"fmt"
	"html"
	"strings"
	"time"

	"wapl/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// VerifyController serves the public, unauthenticated certificate
// verification endpoints. Read-only; no side effects.
type VerifyController struct {
	DB *gorm.DB
}

func NewVerifyController(db *gorm.DB) *VerifyController {
	return &VerifyController{DB: db}
}

// certificateView is the certificate payload returned to verifiers
type certificateView struct {
	CertificateUniqueID string `json:"certificate_unique_id"`
	DisplayName         string `json:"display_name"`
	StudentName         string `json:"full_name"`
	WaplID              string `json:"wapl_id"`
	DomainNames         string `json:"domain_names"`
	IssueDate           string `json:"issue_date"`
	ExpiryDate          string `json:"expiry_date"`
}

// lookup resolves a certificate ID (exact, case-sensitive) with its student
// and domain data
func (ctrl *VerifyController) lookup(certID string) (*models.Certificate, *certificateView, error) {
	var cert models.Certificate
	if err := ctrl.DB.Where("certificate_unique_id = ?", certID).First(&cert).Error; err != nil {
		return nil, nil, err
	}

	view := &certificateView{
		CertificateUniqueID: cert.CertificateUniqueID,
		DisplayName:         cert.DisplayName,
		IssueDate:           cert.IssueDate.Format("02 January 2006"),
		ExpiryDate:          cert.ExpiryDate.Format("02 January 2006"),
	}

	var student models.Student
	if err := ctrl.DB.First(&student, cert.StudentID).Error; err == nil {
		view.StudentName = student.FullName
		view.WaplID = student.WaplID

		var names []string
		ctrl.DB.Table("domains").
			Joins("JOIN student_domains ON student_domains.domain_id = domains.id").
			Where("student_domains.student_id = ?", student.ID).
			Order("domains.domain_name").
			Pluck("domains.domain_name", &names)
		view.DomainNames = strings.Join(names, ", ")
	}

	return &cert, view, nil
}

// VerifyCertificateAPI is the machine-facing verification endpoint.
// Priority: not found (404), revoked (400), then expired/valid (200).
func (ctrl *VerifyController) VerifyCertificateAPI(c *fiber.Ctx) error {
	certID := c.Params("certId")

	cert, view, err := ctrl.lookup(certID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"valid":   false,
			"message": "Certificate not found",
		})
	}

	if !cert.IsActive {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"valid":   false,
			"message": "Certificate has been revoked",
		})
	}

	expired := cert.ExpiryDate.Before(time.Now().UTC())
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"valid":       !expired,
		"expired":     expired,
		"certificate": view,
	})
}

// VerifyCertificate is the human-facing verification page reached by
// scanning a certificate's QR code
func (ctrl *VerifyController) VerifyCertificate(c *fiber.Ctx) error {
	certID := c.Params("certId")
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)

	cert, view, err := ctrl.lookup(certID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString(verifyPage("Certificate not found", "", nil))
	}

	if !cert.IsActive {
		return c.Status(fiber.StatusBadRequest).SendString(verifyPage("Certificate has been revoked", "", nil))
	}

	if cert.ExpiryDate.Before(time.Now().UTC()) {
		return c.SendString(verifyPage("Certificate has expired", "", view))
	}

	return c.SendString(verifyPage("", "This certificate is valid.", view))
}

// verifyPage renders the minimal verification result page
func verifyPage(problem, confirmation string, view *certificateView) string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html><head><title>WAPL Certificate Verification</title>`)
	sb.WriteString(`<style>body{font-family:'Segoe UI',sans-serif;background:#f4f4f4;padding:40px}`)
	sb.WriteString(`.card{max-width:560px;margin:auto;background:#fff;border-radius:8px;padding:30px;box-shadow:0 2px 8px rgba(0,0,0,.1)}`)
	sb.WriteString(`h2{color:#1f2b44}.bad{color:#c0392b}.ok{color:#27ae60}`)
	sb.WriteString(`td{padding:4px 12px 4px 0;color:#424242}</style></head><body><div class="card">`)
	sb.WriteString(`<h2>WAPL Certificate Verification</h2>`)

	if problem != "" {
		sb.WriteString(fmt.Sprintf(`<p class="bad">%s</p>`, problem))
	} else {
		sb.WriteString(fmt.Sprintf(`<p class="ok">%s</p>`, confirmation))
	}

	if view != nil {
		// Every value here is user-supplied at registration time; escape all
		// of them before interpolating into markup.
		esc := html.EscapeString
		sb.WriteString(`<table>`)
		sb.WriteString(fmt.Sprintf(`<tr><td>Name</td><td><strong>%s</strong></td></tr>`, esc(view.DisplayName)))
		sb.WriteString(fmt.Sprintf(`<tr><td>WAPL ID</td><td>%s</td></tr>`, esc(view.WaplID)))
		sb.WriteString(fmt.Sprintf(`<tr><td>Domain</td><td>%s</td></tr>`, esc(view.DomainNames)))
		sb.WriteString(fmt.Sprintf(`<tr><td>Issued</td><td>%s</td></tr>`, esc(view.IssueDate)))
		sb.WriteString(fmt.Sprintf(`<tr><td>Expires</td><td>%s</td></tr>`, esc(view.ExpiryDate)))
		sb.WriteString(fmt.Sprintf(`<tr><td>Certificate ID</td><td>%s</td></tr>`, esc(view.CertificateUniqueID)))
		sb.WriteString(`</table>`)
	}

	sb.WriteString(`</div></body></html>`)
	return sb.String()
}
