package model

import "time"

// Rating is a customer score left on a completed tow request
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RequestID uint      `json:"request_id" gorm:"index;not null"`
	Score     int       `json:"score" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
