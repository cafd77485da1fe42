package model

import "time"

// Tow request statuses. A request starts as pending; assignment, start and
// completion are applied through the lifecycle manager, which owns the
// timestamp side effects.
const (
	StatusPending    = "pending"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// ValidStatus reports whether s is one of the recognized request statuses
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ActiveStatuses are the statuses counted as in-flight by the dashboard
var ActiveStatuses = []string{StatusPending, StatusAssigned, StatusInProgress}

// TowRequest represents a tow job from submission to completion.
// DriverID stays null until the request is assigned; StartedAt and
// CompletedAt are stamped by the lifecycle manager exactly once.
type TowRequest struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	TenantID           uint       `json:"tenant_id" gorm:"index;not null"`
	UserID             uint       `json:"user_id" gorm:"index;not null"`
	DriverID           *uint      `json:"driver_id" gorm:"index"`
	ServiceID          uint       `json:"service_id" gorm:"not null"`
	OriginAddress      string     `json:"origin_address" gorm:"type:text"`
	OriginLat          *float64   `json:"origin_lat"`
	OriginLng          *float64   `json:"origin_lng"`
	DestinationAddress string     `json:"destination_address" gorm:"type:text"`
	DestinationLat     *float64   `json:"destination_lat"`
	DestinationLng     *float64   `json:"destination_lng"`
	DistanceKm         *float64   `json:"distance_km"`
	TotalPrice         float64    `json:"total_price"`
	Status             string     `json:"status" gorm:"type:varchar(20);index;default:'pending'"`
	RequestedAt        time.Time  `json:"requested_at" gorm:"autoCreateTime"`
	StartedAt          *time.Time `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at"`
}
