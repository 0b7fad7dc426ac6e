package models

import "time"

// HistoryAction names a lifecycle event recorded in the shift history.
type HistoryAction string

const (
	HistoryActionCreated  HistoryAction = "created"
	HistoryActionApproved HistoryAction = "approved"
	HistoryActionRejected HistoryAction = "rejected"
)

// HistoryEntry is an immutable audit record. Shift date and type are copied so
// the record stays readable even if the shift changes later.
type HistoryEntry struct {
	ID                  uint          `gorm:"primaryKey" json:"id"`
	ShiftID             uint          `gorm:"not null;index" json:"shift_id"`
	CreatorTelegramID   string        `gorm:"size:64;not null;index" json:"creator_telegram_id"`
	RequesterTelegramID *string       `gorm:"size:64;index" json:"requester_telegram_id,omitempty"`
	Action              HistoryAction `gorm:"type:varchar(20);not null" json:"action"`
	ShiftDate           string        `gorm:"size:10;not null" json:"shift_date"`
	ShiftType           ShiftType     `gorm:"type:varchar(20);not null" json:"shift_type"`
	CreatedAt           time.Time     `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for GORM
func (HistoryEntry) TableName() string {
	return "shift_history"
}
