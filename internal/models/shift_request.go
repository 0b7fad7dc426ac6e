package models

import "time"

// ShiftRequestStatus defines lifecycle states for shift requests.
type ShiftRequestStatus string

const (
	// ShiftRequestStatusPending indicates the request is awaiting the owner's decision.
	ShiftRequestStatusPending ShiftRequestStatus = "pending"
	// ShiftRequestStatusApproved indicates the request won the shift.
	ShiftRequestStatusApproved ShiftRequestStatus = "approved"
	// ShiftRequestStatusRejected indicates the request was declined.
	ShiftRequestStatusRejected ShiftRequestStatus = "rejected"
)

// Terminal reports whether no further transitions are allowed from s.
func (s ShiftRequestStatus) Terminal() bool {
	return s == ShiftRequestStatusApproved || s == ShiftRequestStatusRejected
}

// ShiftRequest is a claim by another worker to take over a shift.
// A requester holds at most one request per shift.
type ShiftRequest struct {
	ID                  uint               `gorm:"primaryKey" json:"id"`
	ShiftID             uint               `gorm:"not null;index;uniqueIndex:idx_shift_requests_shift_requester,priority:1" json:"shift_id"`
	RequesterTelegramID string             `gorm:"size:64;not null;index;uniqueIndex:idx_shift_requests_shift_requester,priority:2" json:"requester_telegram_id"`
	CreatorTelegramID   string             `gorm:"size:64;not null;index" json:"creator_telegram_id"`
	Status              ShiftRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ShiftRequest) TableName() string {
	return "shift_requests"
}
