package models

import "time"

type User struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:120;not null"`
	Email string `json:"email" gorm:"uniqueIndex;size:120;not null"`
	// เก็บ bcrypt hash
	Password string `json:"-" gorm:"not null"`
	// "student" | "faculty"
	Role string `json:"role" gorm:"size:20;not null"`
	// Class สำหรับ student, Department สำหรับ faculty
	Class      string    `json:"class,omitempty" gorm:"size:60"`
	Department string    `json:"department,omitempty" gorm:"size:60"`
	IsActive   bool      `json:"isActive" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
)
