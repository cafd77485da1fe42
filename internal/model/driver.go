package model

import "time"

// Driver represents a tow-truck operator employed by a tenant
type Driver struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	TenantID      uint      `json:"tenant_id" gorm:"index;not null"`
	FullName      string    `json:"full_name" gorm:"type:varchar(100)"`
	Phone         string    `json:"phone" gorm:"type:varchar(30)"`
	LicenseNumber string    `json:"license_number" gorm:"type:varchar(50)"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
