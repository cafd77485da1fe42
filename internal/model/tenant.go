package model

import "time"

// Tenant represents a towing company. It is the unit of data isolation:
// every user, driver, service and tow request hangs off exactly one tenant.
// Deactivating a tenant soft-disables all scoped access without touching
// the rows underneath.
type Tenant struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	ContactEmail string    `json:"contact_email" gorm:"type:varchar(100)"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
