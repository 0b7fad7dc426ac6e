package models

import "time"

// ShiftType is the kind of work period being offered.
type ShiftType string

const (
	// ShiftTypeDay is the 06:00-18:00 shift.
	ShiftTypeDay ShiftType = "day"
	// ShiftTypeNight is the 18:00-06:00 shift.
	ShiftTypeNight ShiftType = "night"
	// ShiftTypeHours is a free-form window described by StartTime and EndTime.
	ShiftTypeHours ShiftType = "hours"
)

// ShiftTypes lists every accepted shift type.
var ShiftTypes = []ShiftType{ShiftTypeDay, ShiftTypeNight, ShiftTypeHours}

// Valid reports whether t is one of the known shift types.
func (t ShiftType) Valid() bool {
	for _, known := range ShiftTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Shift is a work period offered for exchange by its owner.
// Dates and times are stored as the caller sent them (YYYY-MM-DD, HH:MM).
type Shift struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	CreatorTelegramID string    `gorm:"size:64;not null;index" json:"creator_telegram_id"`
	ShiftDate         string    `gorm:"size:10;not null;index:idx_shifts_date_created,priority:1" json:"shift_date"`
	ShiftType         ShiftType `gorm:"type:varchar(20);not null" json:"shift_type"`
	StartTime         *string   `gorm:"size:5" json:"start_time"`
	EndTime           *string   `gorm:"size:5" json:"end_time"`
	IsActive          bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt         time.Time `gorm:"index:idx_shifts_date_created,priority:2" json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Shift) TableName() string {
	return "shifts"
}
