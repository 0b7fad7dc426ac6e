package models

// UnknownName is shown when a referenced user has never authenticated.
const UnknownName = "Unknown"

// ShiftView is a shift as listed on the available-shifts board.
type ShiftView struct {
	ID            uint      `json:"id"`
	CreatorLDAP   string    `json:"creator_ldap"`
	CreatorName   string    `json:"creator_name"`
	ShiftDate     string    `json:"shift_date"`
	ShiftType     ShiftType `json:"shift_type"`
	StartTime     *string   `json:"start_time"`
	EndTime       *string   `json:"end_time"`
	IsActive      bool      `json:"is_active"`
	IsTaken       bool      `json:"is_taken"`
	RequesterLDAP *string   `json:"requester_ldap"`
	CreatedAt     string    `json:"created_at"`
}

// RequestView is a shift request resolved with its shift and requester.
type RequestView struct {
	ID            uint               `json:"id"`
	ShiftID       uint               `json:"shift_id"`
	ShiftDate     *string            `json:"shift_date"`
	ShiftType     *ShiftType         `json:"shift_type"`
	RequesterLDAP string             `json:"requester_ldap"`
	RequesterName string             `json:"requester_name"`
	Status        ShiftRequestStatus `json:"status"`
	CreatedAt     string             `json:"created_at"`
}

// HistoryView is a history entry resolved with participant display names.
type HistoryView struct {
	ID            uint          `json:"id"`
	ShiftID       uint          `json:"shift_id"`
	CreatorLDAP   string        `json:"creator_ldap"`
	RequesterLDAP *string       `json:"requester_ldap"`
	Action        HistoryAction `json:"action"`
	ShiftDate     string        `json:"shift_date"`
	ShiftType     ShiftType     `json:"shift_type"`
	CreatedAt     string        `json:"created_at"`
}
