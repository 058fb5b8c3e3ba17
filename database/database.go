package database

import (
	"fmt"
	"log"
	"os"

	"wapl/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	if err := RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// RunMigrations performs database migrations. It is exported so tests can
// migrate an in-memory database with the same schema and indexes.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.OTP{},
		&models.Domain{},
		&models.StudentDomain{},
		&models.HR{},
		&models.Student{},
		&models.Certificate{},
		&models.CertificateAudit{},
	)
	if err != nil {
		return err
	}

	// At most one active certificate per student. The issue endpoint also
	// checks before inserting, but only this index closes the race between
	// concurrent requests. Partial index syntax works on Postgres and SQLite.
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_certificates_active_student ON certificates(student_id) WHERE is_active",
	).Error; err != nil {
		return err
	}

	if err := seedDomains(db); err != nil {
		return err
	}

	log.Println("Migrations completed successfully.")
	return nil
}

// seedDomains pre-populates the default domain tags on an empty table
func seedDomains(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Domain{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []string{"AI", "ML", "DevOps", "Web Development", "Data Science"}
	for _, name := range defaults {
		if err := db.Create(&models.Domain{DomainName: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
