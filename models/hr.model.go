package models

import "time"

// HR is a recruiter profile. The certificate table references it through
// issued_by_hr_id for attribution; recruiter workflows live elsewhere.
type HR struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	FullName    string    `json:"full_name" gorm:"not null"`
	CompanyName string    `json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
