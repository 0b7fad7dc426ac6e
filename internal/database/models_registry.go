package database

import "shiftswap/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Shift{},
		&models.ShiftRequest{},
		&models.HistoryEntry{},
	}
}
