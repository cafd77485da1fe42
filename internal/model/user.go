package model

import "time"

// User represents an account that can log in and submit tow requests.
// The password hash never leaves the server.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	TenantID     uint      `json:"tenant_id" gorm:"index;not null"`
	FullName     string    `json:"full_name" gorm:"type:varchar(100)"`
	Email        string    `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Phone        string    `json:"phone" gorm:"type:varchar(30)"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;type:varchar(255)"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
