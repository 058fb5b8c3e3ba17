package utils

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strconv"
	"strings"
	"time"

	"wapl/models"

	"gorm.io/gorm"
)

const certIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCertificateID returns a certificate unique ID in the format
// CERT + YYYYMMDDHHMMSS + 6 random uppercase alphanumerics. The timestamp
// keeps IDs traceable; the suffix makes same-second collisions negligible
// but not impossible, so the unique column on certificates is what actually
// guarantees uniqueness.
func GenerateCertificateID() string {
	timestamp := time.Now().UTC().Format("20060102150405")
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(certIDCharset))))
		if err != nil {
			// crypto/rand failing is effectively unrecoverable; degrade to a
			// time-derived byte rather than returning a short ID
			suffix[i] = certIDCharset[time.Now().UnixNano()%int64(len(certIDCharset))]
			continue
		}
		suffix[i] = certIDCharset[n.Int64()]
	}
	return "CERT" + timestamp + string(suffix)
}

// GenerateWaplID returns the next student identifier in the format
// WAPL + year + 6-digit zero-padded sequence number, derived from the
// most recently created student. The read-then-increment is best effort and
// racy under concurrent registrations; the unique column on wapl_id plus
// the retry in CreateStudentWithWaplID is the real safety net. Any lookup
// or parse failure falls back to a random sequence number.
func GenerateWaplID(db *gorm.DB) string {
	year := time.Now().UTC().Year()

	var last models.Student
	err := db.Order("id DESC").First(&last).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("Error generating WAPL ID: %v", err)
			return fmt.Sprintf("WAPL%d%06d", year, randomInt(1, 999999))
		}
		return fmt.Sprintf("WAPL%d%06d", year, 1)
	}

	seq, err := strconv.Atoi(lastDigits(last.WaplID, 6))
	if err != nil {
		log.Printf("Error parsing last WAPL ID %q: %v", last.WaplID, err)
		return fmt.Sprintf("WAPL%d%06d", year, randomInt(1, 999999))
	}

	return fmt.Sprintf("WAPL%d%06d", year, seq+1)
}

// CreateStudentWithWaplID inserts a student, minting a WAPL ID and retrying
// with a fresh one on a uniqueness conflict (up to 5 attempts).
func CreateStudentWithWaplID(db *gorm.DB, student *models.Student) error {
	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		student.WaplID = GenerateWaplID(db)
		lastErr = db.Create(student).Error
		if lastErr == nil {
			return nil
		}
		if !IsUniqueViolation(lastErr) {
			return lastErr
		}
		log.Printf("WAPL ID %s already taken, retrying (%d/5)", student.WaplID, attempt+1)
	}
	return lastErr
}

// GenerateOTP generates a 6-digit OTP
func GenerateOTP() string {
	var sb strings.Builder
	for i := 0; i < 6; i++ {
		sb.WriteString(strconv.Itoa(randomInt(0, 9)))
	}
	return sb.String()
}

// IsUniqueViolation reports whether err is a unique constraint error from
// Postgres or SQLite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

func randomInt(min, max int) int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max-min+1)))
	if err != nil {
		return min
	}
	return min + int(n.Int64())
}

// lastDigits returns the trailing n characters of s, or s itself when shorter
func lastDigits(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
