package studentControllers

import (
	"fmt"
	"log"

	"wapl/middleware"
	"wapl/models"
	"wapl/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StudentController serves a logged-in student's own certificate
type StudentController struct {
	DB    *gorm.DB
	Store storage.Storage
}

func NewStudentController(db *gorm.DB, store storage.Storage) *StudentController {
	return &StudentController{DB: db, Store: store}
}

// currentStudent resolves the student row behind the JWT user
func (ctrl *StudentController) currentStudent(c *fiber.Ctx) (*models.Student, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, fmt.Errorf("missing user in context")
	}

	var student models.Student
	if err := ctrl.DB.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// activeCertificate fetches the student's active certificate, newest first.
// The partial unique index guarantees at most one; ordering keeps the query
// defensive anyway.
func (ctrl *StudentController) activeCertificate(studentID uint) (*models.Certificate, error) {
	var cert models.Certificate
	err := ctrl.DB.Where("student_id = ? AND is_active = ?", studentID, true).
		Order("issue_date DESC").
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// GetCertificate returns the student's own active certificate
func (ctrl *StudentController) GetCertificate(c *fiber.Ctx) error {
	student, err := ctrl.currentStudent(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Student not found!", nil)
	}

	cert, err := ctrl.activeCertificate(student.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false,
			"No certificate found. Certificates are issued by admin after approval.", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully.", cert)
}

// DownloadCertificate streams the student's own certificate PDF
func (ctrl *StudentController) DownloadCertificate(c *fiber.Ctx) error {
	student, err := ctrl.currentStudent(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Student not found!", nil)
	}

	cert, err := ctrl.activeCertificate(student.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No certificate found!", nil)
	}

	data, err := ctrl.Store.Open(cert.PDFPath)
	if err != nil {
		log.Printf("Error reading certificate file %s: %v", cert.PDFPath, err)
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate file not found!", nil)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=certificate_%s.pdf`, cert.CertificateUniqueID))
	return c.Send(data)
}
