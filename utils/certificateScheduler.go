package utils

import (
	"log"
	"time"

	"wapl/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InitializeCertificateScheduler sets up the daily certificate expiry check
func InitializeCertificateScheduler(db *gorm.DB) *cron.Cron {
	log.Println("[CERT-SCHEDULER] Initializing certificate scheduler...")

	c := cron.New()

	// Run daily at 9 AM to remind students about expiring certificates
	c.AddFunc("0 9 * * *", func() {
		log.Println("[CERT-SCHEDULER] Running daily certificate expiry check...")
		ProcessExpiringCertificates(db)
	})

	c.Start()
	log.Println("[CERT-SCHEDULER] Certificate scheduler started - runs daily at 9 AM")
	return c
}

// ProcessExpiringCertificates sends reminder emails for active certificates
// expiring within the next 14 days. Expiry itself is never written to the
// certificate row; verification computes it from expiry_date at read time.
func ProcessExpiringCertificates(db *gorm.DB) {
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, 14)

	var expiring []models.Certificate
	if err := db.
		Where("is_active = ? AND expiry_date BETWEEN ? AND ?", true, now, cutoff).
		Find(&expiring).Error; err != nil {
		log.Printf("[CERT-SCHEDULER] Error fetching expiring certificates: %v", err)
		return
	}

	log.Printf("[CERT-SCHEDULER] Found %d certificates expiring soon", len(expiring))

	for _, cert := range expiring {
		var student models.Student
		if err := db.First(&student, cert.StudentID).Error; err != nil {
			log.Printf("[CERT-SCHEDULER] Error fetching student %d: %v", cert.StudentID, err)
			continue
		}

		var user models.User
		if err := db.First(&user, student.UserID).Error; err != nil {
			log.Printf("[CERT-SCHEDULER] Error fetching user %d: %v", student.UserID, err)
			continue
		}

		SendCertificateExpiryReminder(
			user.Email,
			student.FullName,
			cert.CertificateUniqueID,
			cert.ExpiryDate.Format("02 January 2006"),
		)
	}
}
