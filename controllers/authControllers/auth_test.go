package authControllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wapl/config"
	"wapl/controllers/authControllers"
	"wapl/database"
	"wapl/models"
	authRoutes "wapl/routers/authRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setup(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{
		Port:      "3000",
		JWTKey:    "test-secret",
		SaltRound: 4,
	}

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app, authControllers.NewAuthController(db))
	return app, db
}

func post(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRegistrationFlow(t *testing.T) {
	app, db := setup(t)

	resp := post(t, app, "/api/auth/register", fiber.Map{
		"email":      "jane@wapl.test",
		"password":   "supersecret",
		"full_name":  "Jane Doe",
		"phone":      "9876543210",
		"domain_ids": []uint{1, 2},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Pull the emailed code straight from the table
	var otp models.OTP
	require.NoError(t, db.Where("email = ?", "jane@wapl.test").First(&otp).Error)
	assert.Regexp(t, `^\d{6}$`, otp.Code)

	resp = post(t, app, "/api/auth/verify-otp", fiber.Map{
		"email":      "jane@wapl.test",
		"code":       otp.Code,
		"full_name":  "Jane Doe",
		"domain_ids": []uint{1, 2},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	waplID := body["data"].(map[string]interface{})["wapl_id"].(string)
	assert.Regexp(t, `^WAPL\d{10}$`, waplID)

	var student models.Student
	require.NoError(t, db.Where("wapl_id = ?", waplID).First(&student).Error)
	assert.Equal(t, models.StudentPending, student.AccountStatus)

	var links int64
	db.Model(&models.StudentDomain{}).Where("student_id = ?", student.ID).Count(&links)
	assert.Equal(t, int64(2), links)

	// Login now works and carries a token
	resp = post(t, app, "/api/auth/login", fiber.Map{
		"email":    "jane@wapl.test",
		"password": "supersecret",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.NotEmpty(t, body["data"].(map[string]interface{})["token"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, db := setup(t)
	require.NoError(t, db.Create(&models.User{
		Email: "taken@wapl.test", Password: "x", Role: models.RoleStudent,
	}).Error)

	resp := post(t, app, "/api/auth/register", fiber.Map{
		"email":     "taken@wapl.test",
		"password":  "supersecret",
		"full_name": "Jane Doe",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	app, _ := setup(t)

	resp := post(t, app, "/api/auth/register", fiber.Map{
		"email":     "not-an-email",
		"password":  "short",
		"full_name": "J",
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeBody(t, resp)
	errs := body["data"].(map[string]interface{})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestVerifyOTPWrongCode(t *testing.T) {
	app, _ := setup(t)

	resp := post(t, app, "/api/auth/register", fiber.Map{
		"email":     "jane@wapl.test",
		"password":  "supersecret",
		"full_name": "Jane Doe",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = post(t, app, "/api/auth/verify-otp", fiber.Map{
		"email":     "jane@wapl.test",
		"code":      "000000",
		"full_name": "Jane Doe",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestVerifyOTPExpired(t *testing.T) {
	app, db := setup(t)

	resp := post(t, app, "/api/auth/register", fiber.Map{
		"email":     "jane@wapl.test",
		"password":  "supersecret",
		"full_name": "Jane Doe",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var otp models.OTP
	require.NoError(t, db.Where("email = ?", "jane@wapl.test").First(&otp).Error)
	require.NoError(t, db.Model(&otp).
		Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error)

	resp = post(t, app, "/api/auth/verify-otp", fiber.Map{
		"email":     "jane@wapl.test",
		"code":      otp.Code,
		"full_name": "Jane Doe",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLoginRejectsUnverifiedAndBadPassword(t *testing.T) {
	app, db := setup(t)

	resp := post(t, app, "/api/auth/register", fiber.Map{
		"email":     "jane@wapl.test",
		"password":  "supersecret",
		"full_name": "Jane Doe",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Not verified yet
	resp = post(t, app, "/api/auth/login", fiber.Map{
		"email":    "jane@wapl.test",
		"password": "supersecret",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "jane@wapl.test").
		Update("is_verified", true).Error)

	resp = post(t, app, "/api/auth/login", fiber.Map{
		"email":    "jane@wapl.test",
		"password": "wrongpassword",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
