package models

import "time"

// Certificate is one issued credential. A student accumulates rows over time
// but at most one may be active; a partial unique index on
// (student_id) WHERE is_active enforces that at the database level.
type Certificate struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	StudentID           uint      `json:"student_id" gorm:"index;not null"`
	CertificateUniqueID string    `json:"certificate_unique_id" gorm:"unique;not null"`
	IssueDate           time.Time `json:"issue_date" gorm:"not null"`
	ExpiryDate          time.Time `json:"expiry_date" gorm:"not null"`
	QRCode              string    `json:"qr_code" gorm:"not null"`
	PDFPath             string    `json:"pdf_path" gorm:"not null"`
	IsActive            bool      `json:"is_active" gorm:"default:true"`
	IssuedByHRID        *uint     `json:"issued_by_hr_id"`
	// DisplayName snapshots the student's name at issuance so later renames
	// do not rewrite history.
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CertificateAudit is an append-only log of certificate state changes.
// Rows are never updated or deleted.
type CertificateAudit struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	CertificateID    uint      `json:"certificate_id" gorm:"index;not null"`
	Action           string    `json:"action" gorm:"not null"`
	Reason           string    `json:"reason"`
	ChangedByAdminID *uint     `json:"changed_by_admin_id"`
	CreatedAt        time.Time `json:"created_at"`
}
