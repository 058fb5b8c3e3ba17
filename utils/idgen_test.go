package utils

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"wapl/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Student{}))
	return db
}

func TestGenerateCertificateID_Format(t *testing.T) {
	re := regexp.MustCompile(`^CERT\d{14}[A-Z0-9]{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := GenerateCertificateID()
		assert.Regexp(t, re, id)
		seen[id] = true
	}
	// 50 IDs within the same run should essentially never collide
	assert.Greater(t, len(seen), 45)
}

func TestGenerateWaplID_EmptyTable(t *testing.T) {
	db := testDB(t)

	id := GenerateWaplID(db)
	year := time.Now().UTC().Year()
	assert.Equal(t, fmt.Sprintf("WAPL%d%06d", year, 1), id)
}

func TestGenerateWaplID_Increments(t *testing.T) {
	db := testDB(t)
	year := time.Now().UTC().Year()

	require.NoError(t, db.Create(&models.Student{
		UserID:   1,
		WaplID:   fmt.Sprintf("WAPL%d%06d", year, 41),
		FullName: "First Student",
	}).Error)

	assert.Equal(t, fmt.Sprintf("WAPL%d%06d", year, 42), GenerateWaplID(db))
}

func TestGenerateWaplID_UnparsableFallsBack(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.Create(&models.Student{
		UserID:   1,
		WaplID:   "LEGACY-FORMAT",
		FullName: "Legacy Student",
	}).Error)

	id := GenerateWaplID(db)
	assert.Regexp(t, `^WAPL\d{4}\d{6}$`, id)
}

func TestCreateStudentWithWaplID_MintsSequentialID(t *testing.T) {
	db := testDB(t)
	year := time.Now().UTC().Year()

	first := &models.Student{UserID: 1, FullName: "First"}
	require.NoError(t, CreateStudentWithWaplID(db, first))
	assert.Equal(t, fmt.Sprintf("WAPL%d%06d", year, 1), first.WaplID)

	second := &models.Student{UserID: 2, FullName: "Second"}
	require.NoError(t, CreateStudentWithWaplID(db, second))
	assert.Equal(t, fmt.Sprintf("WAPL%d%06d", year, 2), second.WaplID)
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 20; i++ {
		assert.Regexp(t, `^\d{6}$`, GenerateOTP())
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(fmt.Errorf("connection refused")))
	assert.True(t, IsUniqueViolation(fmt.Errorf("UNIQUE constraint failed: students.wapl_id")))
	assert.True(t, IsUniqueViolation(fmt.Errorf(`duplicate key value violates unique constraint "idx_certificates_active_student"`)))
}
