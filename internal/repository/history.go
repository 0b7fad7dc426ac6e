package repository

import (
	"context"

	"shiftswap/internal/models"
	"shiftswap/internal/observability"

	"gorm.io/gorm"
)

// MaxHistoryEntries caps every history query.
const MaxHistoryEntries = 100

// HistoryRepository defines persistence operations for the append-only shift history.
type HistoryRepository interface {
	Create(ctx context.Context, entry *models.HistoryEntry) error
	ListForParticipant(ctx context.Context, telegramID string, limit int) ([]models.HistoryEntry, error)
	ListForShift(ctx context.Context, shiftID uint) ([]models.HistoryEntry, error)
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository returns a new HistoryRepository implementation.
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Create(ctx context.Context, entry *models.HistoryEntry) error {
	defer observability.TrackQuery("insert", "shift_history")()
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListForParticipant returns entries where telegramID is the creator or the requester, newest first.
func (r *historyRepository) ListForParticipant(ctx context.Context, telegramID string, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 || limit > MaxHistoryEntries {
		limit = MaxHistoryEntries
	}

	var entries []models.HistoryEntry
	defer observability.TrackQuery("select", "shift_history")()
	if err := r.db.WithContext(ctx).
		Where("creator_telegram_id = ? OR requester_telegram_id = ?", telegramID, telegramID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

func (r *historyRepository) ListForShift(ctx context.Context, shiftID uint) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	if err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}
