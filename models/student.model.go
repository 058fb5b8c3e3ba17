package models

import "time"

// Student account lifecycle states
const (
	StudentPending  = "pending"
	StudentActive   = "active"
	StudentInactive = "inactive"
)

// Student holds the registration record. CertificateIssuedDate and
// CertificateExpiryDate mirror the active certificate row and are written
// only by the certificate controller when issuing or regenerating.
type Student struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	UserID           uint       `json:"user_id" gorm:"index;not null"`
	WaplID           string     `json:"wapl_id" gorm:"unique;not null"`
	FullName         string     `json:"full_name" gorm:"not null"`
	Phone            string     `json:"phone"`
	Address          string     `json:"address"`
	AccountStatus    string     `json:"account_status" gorm:"default:'pending'"`
	RegistrationDate time.Time  `json:"registration_date"`
	AssignedHRID     *uint      `json:"assigned_hr_id"`

	CertificateIssuedDate *time.Time `json:"certificate_issued_date"`
	CertificateExpiryDate *time.Time `json:"certificate_expiry_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
