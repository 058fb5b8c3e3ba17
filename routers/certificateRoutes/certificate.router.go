package certificateRoutes

import (
	"wapl/controllers/certificateControllers"
	"wapl/middleware"
	"wapl/models"
	certificateValidator "wapl/validators/certificate"

	"github.com/gofiber/fiber/v2"
)

func SetupCertificateRoutes(app *fiber.App, ctrl *certificateControllers.CertificateController) {
	adminGroup := app.Group("/api/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Get("/students/without-certificates", ctrl.GetStudentsWithoutCertificates)
	adminGroup.Get("/certificates", ctrl.GetCertificates)
	adminGroup.Post("/certificates/issue", certificateValidator.IssueCertificates(), ctrl.IssueCertificates)
	adminGroup.Post("/certificate/regenerate/:studentId", ctrl.RegenerateCertificate)
	adminGroup.Delete("/certificate/:id", ctrl.DeleteCertificate)

	// Admin-side direct PDF download
	app.Get("/download/certificate/:certId", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), ctrl.DownloadCertificate)
}
