package certificateControllers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"wapl/middleware"
	"wapl/models"
	"wapl/renderer"
	"wapl/storage"
	"wapl/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const certificateValidityDays = 365

// displayDateFormat is used on the rendered certificate (e.g. "02 January 2006")
const displayDateFormat = "02 January 2006"

// CertificateController owns all writes to the certificates and
// certificate_audit tables, and the denormalized certificate date columns
// on students. Dependencies are injected at construction.
type CertificateController struct {
	DB       *gorm.DB
	Store    storage.Storage
	Renderer renderer.Renderer
	// BaseDomain is the public base URL for verification links; when empty
	// the inbound request's own base URL is used.
	BaseDomain string
}

func NewCertificateController(db *gorm.DB, store storage.Storage, r renderer.Renderer, baseDomain string) *CertificateController {
	return &CertificateController{DB: db, Store: store, Renderer: r, BaseDomain: baseDomain}
}

// publicBase returns the base URL for verification links
func (ctrl *CertificateController) publicBase(c *fiber.Ctx) string {
	if ctrl.BaseDomain != "" {
		return ctrl.BaseDomain
	}
	return c.BaseURL()
}

// verificationURL builds the URL encoded into the certificate QR code
func verificationURL(base, certID string) string {
	return strings.TrimRight(base, "/") + "/verify-certificate/" + certID
}

// domainNamesFor returns the student's domain tags as a comma-joined string
func domainNamesFor(db *gorm.DB, studentID uint) string {
	var names []string
	db.Table("domains").
		Joins("JOIN student_domains ON student_domains.domain_id = domains.id").
		Where("student_domains.student_id = ?", studentID).
		Order("domains.domain_name").
		Pluck("domains.domain_name", &names)

	return strings.Join(names, ", ")
}

// insertCertificate inserts the row inside a savepoint. On Postgres a failed
// INSERT poisons the surrounding transaction until rollback; the savepoint
// keeps the outer transaction usable for the retry and the student update.
func (ctrl *CertificateController) insertCertificate(tx *gorm.DB, cert *models.Certificate) error {
	return tx.Transaction(func(ptx *gorm.DB) error {
		return ptx.Create(cert).Error
	})
}

// issueForStudent runs the full generation sequence for one student inside
// tx: mint ID, encode QR, render PDF, persist artifacts, insert the row and
// refresh the student's cached dates. A certificate_unique_id conflict gets
// one retry with a fresh ID; a conflict on the active-per-student index is
// reported as a conflict error. Artifacts saved for a failed insert are
// deleted again.
func (ctrl *CertificateController) issueForStudent(ctx context.Context, tx *gorm.DB, base string, student *models.Student) (*models.Certificate, error) {
	domainDisplay := domainNamesFor(tx, student.ID)
	if domainDisplay == "" {
		domainDisplay = "General Training"
	}

	issueDate := time.Now().UTC()
	expiryDate := issueDate.AddDate(0, 0, certificateValidityDays)

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		certID := utils.GenerateCertificateID()

		qrPNG, err := utils.GenerateQRCode(verificationURL(base, certID))
		if err != nil {
			return nil, err
		}

		qrLocator, err := ctrl.Store.Save(qrPNG, "qr_codes", certID+"_qr.png")
		if err != nil {
			return nil, err
		}

		pdfBytes, err := renderer.RenderWithTimeout(ctx, ctrl.Renderer, renderer.CertificateData{
			StudentName: student.FullName,
			WaplID:      student.WaplID,
			DomainName:  domainDisplay,
			IssueDate:   issueDate.Format(displayDateFormat),
			ExpiryDate:  expiryDate.Format(displayDateFormat),
			QRCodePNG:   qrPNG,
			CertificateText: fmt.Sprintf(
				"This certificate recognizes the candidate's hands-on experience in %s and successful assessment by WAPL.",
				domainDisplay),
		})
		if err != nil {
			ctrl.Store.Delete(qrLocator)
			return nil, err
		}

		pdfLocator, err := ctrl.Store.Save(pdfBytes, "certificates", certID+".pdf")
		if err != nil {
			ctrl.Store.Delete(qrLocator)
			return nil, err
		}

		cert := &models.Certificate{
			StudentID:           student.ID,
			CertificateUniqueID: certID,
			IssueDate:           issueDate,
			ExpiryDate:          expiryDate,
			QRCode:              qrLocator,
			PDFPath:             pdfLocator,
			IsActive:            true,
			DisplayName:         student.FullName,
		}

		lastErr = ctrl.insertCertificate(tx, cert)
		if lastErr == nil {
			// Refresh the denormalized cache on the student row
			err = tx.Model(&models.Student{}).Where("id = ?", student.ID).Updates(map[string]interface{}{
				"certificate_issued_date": issueDate,
				"certificate_expiry_date": expiryDate,
			}).Error
			if err != nil {
				return nil, err
			}
			return cert, nil
		}

		// The insert failed, so the artifacts saved above are orphans
		ctrl.Store.Delete(qrLocator)
		ctrl.Store.Delete(pdfLocator)

		if !utils.IsUniqueViolation(lastErr) {
			return nil, lastErr
		}
		if strings.Contains(lastErr.Error(), "active_student") || strings.Contains(lastErr.Error(), "student_id") {
			return nil, fmt.Errorf("%s already has an active certificate", student.FullName)
		}
		// certificate_unique_id collided within the same second; retry with
		// a fresh ID
	}
	return nil, lastErr
}

// IssueCertificates issues certificates for a batch of students. Each
// student is an independent unit: one failure never rolls back another's
// success. The response carries the success count and per-student errors;
// the request fails outright only when nothing was issued.
func (ctrl *CertificateController) IssueCertificates(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedIssue").(*struct {
		StudentIDs []uint `json:"studentIds"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	ctx := c.UserContext()
	base := ctrl.publicBase(c)

	issuedCount := 0
	errors := []string{}

	for _, studentID := range reqData.StudentIDs {
		var student models.Student
		if err := ctrl.DB.First(&student, studentID).Error; err != nil {
			errors = append(errors, fmt.Sprintf("Student ID %d not found", studentID))
			continue
		}

		// Friendly pre-check; the partial unique index still closes the race
		var existing models.Certificate
		if err := ctrl.DB.Where("student_id = ? AND is_active = ?", studentID, true).First(&existing).Error; err == nil {
			errors = append(errors, fmt.Sprintf("%s already has an active certificate", student.FullName))
			continue
		}

		var cert *models.Certificate
		err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
			var txErr error
			cert, txErr = ctrl.issueForStudent(ctx, tx, base, &student)
			return txErr
		})
		if err != nil {
			errors = append(errors, fmt.Sprintf("Error for %s: %v", student.FullName, err))
			continue
		}

		issuedCount++
		log.Printf("Certificate %s issued to %s", cert.CertificateUniqueID, student.FullName)
		ctrl.notifyIssued(&student, cert)
	}

	data := fiber.Map{"issued_count": issuedCount, "errors": errors}

	if issuedCount == 0 && len(errors) > 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, strings.Join(errors, "; "), data)
	}

	message := fmt.Sprintf("%d certificate(s) issued successfully", issuedCount)
	if len(errors) > 0 {
		message += ". Warnings: " + strings.Join(errors, "; ")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, message, data)
}

// RegenerateCertificate deactivates any active certificate the student has
// and issues a fresh one with a new ID and new artifacts. A student with no
// prior certificate is allowed; regeneration then behaves like a plain issue.
func (ctrl *CertificateController) RegenerateCertificate(c *fiber.Ctx) error {
	studentID, err := c.ParamsInt("studentId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid student ID!", nil)
	}

	var student models.Student
	if err := ctrl.DB.First(&student, studentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	var cert *models.Certificate
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Certificate{}).
			Where("student_id = ? AND is_active = ?", studentID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		var txErr error
		cert, txErr = ctrl.issueForStudent(c.UserContext(), tx, ctrl.publicBase(c), &student)
		return txErr
	})
	if err != nil {
		log.Printf("Error regenerating certificate for student %d: %v", studentID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to regenerate certificate!", nil)
	}

	log.Printf("Certificate %s regenerated for %s", cert.CertificateUniqueID, student.FullName)
	ctrl.notifyIssued(&student, cert)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate regenerated successfully.", fiber.Map{
		"certificate_id": cert.CertificateUniqueID,
	})
}

// DeleteCertificate revokes a certificate: soft-deactivate plus one audit
// row. Revoking an already-inactive certificate still logs an audit entry.
func (ctrl *CertificateController) DeleteCertificate(c *fiber.Ctx) error {
	certID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid certificate ID!", nil)
	}

	var cert models.Certificate
	if err := ctrl.DB.First(&cert, certID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	var adminID *uint
	if userID, ok := c.Locals("userId").(uint); ok {
		adminID = &userID
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Certificate{}).Where("id = ?", cert.ID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&models.CertificateAudit{
			CertificateID:    cert.ID,
			Action:           "deactivate",
			Reason:           "Deleted by admin",
			ChangedByAdminID: adminID,
		}).Error
	})
	if err != nil {
		log.Printf("Error deleting certificate %d: %v", certID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete certificate!", nil)
	}

	log.Printf("Certificate %s deactivated", cert.CertificateUniqueID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate deleted successfully.", nil)
}

// DownloadCertificate streams the stored PDF for an active certificate
func (ctrl *CertificateController) DownloadCertificate(c *fiber.Ctx) error {
	certID := c.Params("certId")

	var cert models.Certificate
	if err := ctrl.DB.Where("certificate_unique_id = ? AND is_active = ?", certID, true).
		First(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	data, err := ctrl.Store.Open(cert.PDFPath)
	if err != nil {
		log.Printf("Error reading certificate file %s: %v", cert.PDFPath, err)
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate file not found!", nil)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%s.pdf`, cert.CertificateUniqueID))
	return c.Send(data)
}

// CertificateWithStudent is the admin listing row
type CertificateWithStudent struct {
	models.Certificate
	StudentName string `json:"student_name"`
	WaplID      string `json:"wapl_id"`
	DomainNames string `json:"domain_names"`
}

// GetCertificates lists all active certificates, newest first
func (ctrl *CertificateController) GetCertificates(c *fiber.Ctx) error {
	var certs []models.Certificate
	if err := ctrl.DB.Where("is_active = ?", true).
		Order("issue_date DESC").
		Find(&certs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithStudent, len(certs))
	for i, cert := range certs {
		var student models.Student
		ctrl.DB.First(&student, cert.StudentID)
		result[i] = CertificateWithStudent{
			Certificate: cert,
			StudentName: student.FullName,
			WaplID:      student.WaplID,
			DomainNames: domainNamesFor(ctrl.DB, cert.StudentID),
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully.", result)
}

// StudentWithDomains is the issuance candidate listing row
type StudentWithDomains struct {
	models.Student
	Email       string `json:"email"`
	DomainNames string `json:"domain_names"`
}

// GetStudentsWithoutCertificates lists active students with no active
// certificate, the candidates for batch issuance.
func (ctrl *CertificateController) GetStudentsWithoutCertificates(c *fiber.Ctx) error {
	activeCerts := ctrl.DB.Model(&models.Certificate{}).
		Select("student_id").
		Where("is_active = ?", true)

	var students []models.Student
	if err := ctrl.DB.Where("account_status = ?", models.StudentActive).
		Where("id NOT IN (?)", activeCerts).
		Order("registration_date DESC").
		Find(&students).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}

	result := make([]StudentWithDomains, len(students))
	for i, s := range students {
		var user models.User
		ctrl.DB.First(&user, s.UserID)
		result[i] = StudentWithDomains{
			Student:     s,
			Email:       user.Email,
			DomainNames: domainNamesFor(ctrl.DB, s.ID),
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Students fetched successfully.", fiber.Map{
		"students": result,
	})
}

// notifyIssued emails the student their new certificate number
func (ctrl *CertificateController) notifyIssued(student *models.Student, cert *models.Certificate) {
	var user models.User
	if err := ctrl.DB.First(&user, student.UserID).Error; err != nil {
		log.Printf("Error fetching user %d for certificate mail: %v", student.UserID, err)
		return
	}
	utils.SendCertificateIssuedEmail(user.Email, student.FullName, cert.CertificateUniqueID)
}
