package models

// Domain is a training area tag (AI, ML, DevOps, ...)
type Domain struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	DomainName string `json:"domain_name" gorm:"unique;not null"`
}

// StudentDomain links students to their domain tags
type StudentDomain struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"student_id" gorm:"index;not null"`
	DomainID  uint `json:"domain_id" gorm:"index;not null"`
}
