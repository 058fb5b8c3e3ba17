package authRoutes

import (
	"wapl/controllers/authControllers"
	authValidator "wapl/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, ctrl *authControllers.AuthController) {
	authGroup := app.Group("/api/auth")

	authGroup.Post("/register", authValidator.Register(), ctrl.Register)
	authGroup.Post("/verify-otp", authValidator.VerifyOTP(), ctrl.VerifyOTP)
	authGroup.Post("/login", authValidator.Login(), ctrl.Login)
}
