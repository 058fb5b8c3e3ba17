package studentRoutes

import (
	"wapl/controllers/studentControllers"
	"wapl/middleware"
	"wapl/models"

	"github.com/gofiber/fiber/v2"
)

func SetupStudentRoutes(app *fiber.App, ctrl *studentControllers.StudentController) {
	studentGroup := app.Group("/api/student", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStudent))

	studentGroup.Get("/certificate", ctrl.GetCertificate)
	studentGroup.Get("/certificate/download", ctrl.DownloadCertificate)
}
