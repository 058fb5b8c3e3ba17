package certificateValidator

import (
	"wapl/middleware"

	"github.com/gofiber/fiber/v2"
)

// IssueCertificates validator middleware
func IssueCertificates() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			StudentIDs []uint `json:"studentIds"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.StudentIDs) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"studentIds": "Student IDs required!",
			})
		}

		c.Locals("validatedIssue", reqData)
		return c.Next()
	}
}
