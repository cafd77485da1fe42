package model

import "time"

// Vehicle represents a tow truck owned by a driver. One driver may own
// several vehicles.
type Vehicle struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	DriverID    uint      `json:"driver_id" gorm:"index;not null"`
	PlateNumber string    `json:"plate_number" gorm:"type:varchar(20)"`
	VehicleType string    `json:"vehicle_type" gorm:"type:varchar(50)"`
	Brand       string    `json:"brand" gorm:"type:varchar(50)"`
	Model       string    `json:"model" gorm:"type:varchar(50)"`
	Year        int       `json:"year"`
	Color       string    `json:"color" gorm:"type:varchar(30)"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
