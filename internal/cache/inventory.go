package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	AvailableShiftsKeyPrefix = "shifts:available:%t"
	// AvailableShiftsGenKey is bumped on every board invalidation.
	AvailableShiftsGenKey = "shifts:available:gen"
	UserKeyPrefix            = "user:%s"
)

const (
	DefaultAvailableShiftsTTL = 30 * time.Second
	UserTTL                   = 5 * time.Minute
)

// AvailableShiftsKey is the cache key of the available-shifts board.
func AvailableShiftsKey(includeTaken bool) string {
	return fmt.Sprintf(AvailableShiftsKeyPrefix, includeTaken)
}

// UserKey is the cache key of a user's display identity.
func UserKey(telegramID string) string {
	return fmt.Sprintf(UserKeyPrefix, telegramID)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateAvailableShifts bumps the board generation and drops both variants
// of the available-shifts board. Readers that started before the bump will not
// write their result back.
func InvalidateAvailableShifts(ctx context.Context) {
	if client == nil {
		return
	}
	client.Incr(ctx, AvailableShiftsGenKey)
	Invalidate(ctx, AvailableShiftsKey(true), AvailableShiftsKey(false))
}

func InvalidateUser(ctx context.Context, telegramID string) {
	Invalidate(ctx, UserKey(telegramID))
}
