package models

import "time"

// Role values stored on User
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
	RoleHR      = "hr"
)

// User is the login identity behind students, HRs and admins
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Email      string    `json:"email" gorm:"unique;not null"`
	Password   string    `json:"-" gorm:"not null"`
	Role       string    `json:"role" gorm:"not null;default:'student'"`
	IsVerified bool      `json:"is_verified" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
