package authControllers

import (
	"log"
	"time"

	"wapl/config"
	"wapl/middleware"
	"wapl/models"
	"wapl/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const otpValidity = 10 * time.Minute

// AuthController handles registration, OTP verification and login
type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// RegisterRequest is the student registration payload
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=3"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	// DomainIDs are the training domains the student registers under
	DomainIDs []uint `json:"domain_ids"`
}

// Register creates an unverified student user and emails an OTP.
// The Student row (and its WAPL ID) is only minted after OTP verification.
func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegister").(*RegisterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check if email already exists
	if err := ctrl.DB.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     models.RoleStudent,
	}
	if err := ctrl.DB.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register!", nil)
	}

	otp := models.OTP{
		Email:     reqData.Email,
		Code:      utils.GenerateOTP(),
		ExpiresAt: time.Now().UTC().Add(otpValidity),
	}
	if err := ctrl.DB.Create(&otp).Error; err != nil {
		log.Printf("Error saving OTP: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register!", nil)
	}

	utils.SendOTPEmail(reqData.Email, otp.Code, reqData.FullName)

	return middleware.JsonResponse(c, fiber.StatusCreated, true,
		"Registration started. Check your email for the OTP.", fiber.Map{"email": reqData.Email})
}

// VerifyOTPRequest completes registration
type VerifyOTPRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Code     string `json:"code" validate:"required,len=6"`
	FullName string `json:"full_name" validate:"required,min=3"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	// DomainIDs are the training domains the student registers under
	DomainIDs []uint `json:"domain_ids"`
}

// VerifyOTP checks the emailed code, marks the user verified and creates
// the Student row, minting its WAPL ID.
func (ctrl *AuthController) VerifyOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVerifyOTP").(*VerifyOTPRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var otp models.OTP
	err := ctrl.DB.Where("email = ? AND code = ? AND used = ?", reqData.Email, reqData.Code, false).
		Order("id DESC").
		First(&otp).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid OTP!", nil)
	}

	if otp.ExpiresAt.Before(time.Now().UTC()) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "OTP has expired!", nil)
	}

	var user models.User
	if err := ctrl.DB.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var student models.Student
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&otp).Update("used", true).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Update("is_verified", true).Error; err != nil {
			return err
		}

		student = models.Student{
			UserID:           user.ID,
			FullName:         reqData.FullName,
			Phone:            reqData.Phone,
			Address:          reqData.Address,
			AccountStatus:    models.StudentPending,
			RegistrationDate: time.Now().UTC(),
		}
		if err := utils.CreateStudentWithWaplID(tx, &student); err != nil {
			return err
		}

		for _, domainID := range reqData.DomainIDs {
			link := models.StudentDomain{StudentID: student.ID, DomainID: domainID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error completing registration for %s: %v", reqData.Email, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete registration!", nil)
	}

	utils.SendRegistrationConfirmationEmail(user.Email, student.FullName, student.WaplID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Registration successful.", fiber.Map{
		"wapl_id": student.WaplID,
	})
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login checks credentials and returns a JWT carrying the user's role
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := ctrl.DB.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	if !user.IsVerified {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please verify your email first!", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Role, user.Email)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"token": token,
		"role":  user.Role,
	})
}
