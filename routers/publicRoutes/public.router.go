package publicRoutes

import (
	"wapl/controllers/publicControllers"

	"github.com/gofiber/fiber/v2"
)

func SetupPublicRoutes(app *fiber.App, ctrl *publicControllers.VerifyController) {
	// QR codes on issued certificates point at the HTML page
	app.Get("/verify-certificate/:certId", ctrl.VerifyCertificate)
	app.Get("/api/verify-certificate/:certId", ctrl.VerifyCertificateAPI)
}
