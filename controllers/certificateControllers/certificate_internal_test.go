package certificateControllers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wapl/database"
	"wapl/models"
	"wapl/renderer"
	"wapl/storage"
	"wapl/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newController(t *testing.T) (*CertificateController, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	dir := t.TempDir()
	ctrl := NewCertificateController(db, storage.NewLocalStorage(dir),
		&renderer.FallbackRenderer{}, "https://wapl.example.com")
	return ctrl, dir
}

func seedStudent(t *testing.T, db *gorm.DB, name, email, waplID string) *models.Student {
	t.Helper()

	user := &models.User{Email: email, Password: "x", Role: models.RoleStudent, IsVerified: true}
	require.NoError(t, db.Create(user).Error)

	student := &models.Student{
		UserID:           user.ID,
		WaplID:           waplID,
		FullName:         name,
		AccountStatus:    models.StudentActive,
		RegistrationDate: time.Now().UTC(),
	}
	require.NoError(t, db.Create(student).Error)
	return student
}

func storedFiles(t *testing.T, dir string) []string {
	t.Helper()

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

// A failed insert must not poison the surrounding transaction: on Postgres a
// plain INSERT conflict aborts the whole transaction, so the savepoint wrap
// is what keeps the fresh-ID retry and the student update possible.
func TestInsertCertificateConflictKeepsTransactionUsable(t *testing.T) {
	ctrl, _ := newController(t)
	first := seedStudent(t, ctrl.DB, "First", "first@wapl.test", "WAPL2026000001")
	second := seedStudent(t, ctrl.DB, "Second", "second@wapl.test", "WAPL2026000002")

	now := time.Now().UTC()
	require.NoError(t, ctrl.DB.Create(&models.Certificate{
		StudentID:           first.ID,
		CertificateUniqueID: "CERT20260101000000AAAAAA",
		IssueDate:           now,
		ExpiryDate:          now.AddDate(0, 0, 365),
		QRCode:              "qr",
		PDFPath:             "pdf",
		IsActive:            false,
	}).Error)

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		dup := models.Certificate{
			StudentID:           second.ID,
			CertificateUniqueID: "CERT20260101000000AAAAAA",
			IssueDate:           now,
			ExpiryDate:          now.AddDate(0, 0, 365),
			QRCode:              "qr",
			PDFPath:             "pdf",
			IsActive:            true,
		}
		insErr := ctrl.insertCertificate(tx, &dup)
		require.Error(t, insErr)
		require.True(t, utils.IsUniqueViolation(insErr))

		// Retry with a fresh ID and refresh the student row, both on the
		// outer transaction.
		fresh := models.Certificate{
			StudentID:           second.ID,
			CertificateUniqueID: "CERT20260101000000BBBBBB",
			IssueDate:           now,
			ExpiryDate:          now.AddDate(0, 0, 365),
			QRCode:              "qr",
			PDFPath:             "pdf",
			IsActive:            true,
		}
		if err := ctrl.insertCertificate(tx, &fresh); err != nil {
			return err
		}
		return tx.Model(&models.Student{}).Where("id = ?", second.ID).
			Update("certificate_issued_date", now).Error
	})
	require.NoError(t, err)

	var count int64
	ctrl.DB.Model(&models.Certificate{}).
		Where("certificate_unique_id = ?", "CERT20260101000000BBBBBB").Count(&count)
	assert.Equal(t, int64(1), count)
}

// When a concurrent request wins the active-certificate race after the
// handler's pre-check, the index conflict must not leave the already-saved
// QR and PDF artifacts behind in storage.
func TestIssueForStudentActiveConflictCleansArtifacts(t *testing.T) {
	ctrl, dir := newController(t)
	student := seedStudent(t, ctrl.DB, "Jane Doe", "jane@wapl.test", "WAPL2026000001")

	now := time.Now().UTC()
	require.NoError(t, ctrl.DB.Create(&models.Certificate{
		StudentID:           student.ID,
		CertificateUniqueID: "CERT20260101000000AAAAAA",
		IssueDate:           now,
		ExpiryDate:          now.AddDate(0, 0, 365),
		QRCode:              "qr",
		PDFPath:             "pdf",
		IsActive:            true,
	}).Error)

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		_, txErr := ctrl.issueForStudent(context.Background(), tx, "https://wapl.example.com", student)
		return txErr
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has an active certificate")

	assert.Empty(t, storedFiles(t, dir), "failed issuance must not orphan artifacts")
}
