// Package models contains data structures for the application's domain models.
package models

import "time"

// User maps an external Telegram identity to the worker's LDAP account.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TelegramID string    `gorm:"size:64;not null;uniqueIndex" json:"telegram_id"`
	LDAP       string    `gorm:"column:ldap;size:120;not null;uniqueIndex" json:"ldap"`
	FirstName  string    `gorm:"size:120" json:"first_name"`
	Username   *string   `gorm:"size:120" json:"username,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
