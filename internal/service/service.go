// Package service implements the shift-swap business logic: the user
// directory, shift registry, request ledger, approval engine and history log.
package service

import (
	"context"
	"time"

	"shiftswap/internal/cache"
	"shiftswap/internal/models"
)

// Invalidator drops cached read models after a committed mutation.
type Invalidator func(ctx context.Context)

// CacheInvalidator clears the Redis-backed available-shifts board.
func CacheInvalidator(ctx context.Context) {
	cache.InvalidateAvailableShifts(ctx)
}

func noopInvalidator(context.Context) {}

func orNoop(fn Invalidator) Invalidator {
	if fn == nil {
		return noopInvalidator
	}
	return fn
}

// formatTimestamp renders stored timestamps in views.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func ldapOrUnknown(users map[string]models.User, telegramID string) string {
	if u, ok := users[telegramID]; ok {
		return u.LDAP
	}
	return models.UnknownName
}

func nameOrUnknown(users map[string]models.User, telegramID string) string {
	if u, ok := users[telegramID]; ok && u.FirstName != "" {
		return u.FirstName
	}
	return models.UnknownName
}

func newHistoryEntry(shift *models.Shift, requesterID *string, action models.HistoryAction) *models.HistoryEntry {
	return &models.HistoryEntry{
		ShiftID:             shift.ID,
		CreatorTelegramID:   shift.CreatorTelegramID,
		RequesterTelegramID: requesterID,
		Action:              action,
		ShiftDate:           shift.ShiftDate,
		ShiftType:           shift.ShiftType,
	}
}
