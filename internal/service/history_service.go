package service

import (
	"context"

	"shiftswap/internal/models"
	"shiftswap/internal/observability"
	"shiftswap/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// HistoryService appends to and reads the shift audit trail.
type HistoryService struct {
	db    *gorm.DB
	users *UserService
}

// NewHistoryService returns a new HistoryService.
func NewHistoryService(db *gorm.DB, users *UserService) *HistoryService {
	return &HistoryService{db: db, users: users}
}

// Record appends entry using tx, so the entry commits or rolls back with the
// change it describes. A nil tx writes outside any transaction.
func (s *HistoryService) Record(ctx context.Context, tx *gorm.DB, entry *models.HistoryEntry) error {
	if tx == nil {
		tx = s.db
	}
	return repository.NewHistoryRepository(tx).Create(ctx, entry)
}

// QueryHistory returns the newest entries where participantID is the creator
// or the requester, at most repository.MaxHistoryEntries of them.
func (s *HistoryService) QueryHistory(ctx context.Context, participantID string) (views []models.HistoryView, err error) {
	span, ctx := observability.StartServiceSpan(ctx, "HistoryService", "QueryHistory",
		attribute.String("telegram_id", participantID))
	defer span.Finish(&err)

	if participantID == "" {
		return nil, models.NewValidationError("telegram_id is required")
	}

	entries, err := repository.NewHistoryRepository(s.db).ListForParticipant(ctx, participantID, repository.MaxHistoryEntries)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(entries)*2)
	for _, e := range entries {
		ids = append(ids, e.CreatorTelegramID)
		if e.RequesterTelegramID != nil {
			ids = append(ids, *e.RequesterTelegramID)
		}
	}
	users, err := s.users.DisplayNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	views = make([]models.HistoryView, 0, len(entries))
	for _, e := range entries {
		view := models.HistoryView{
			ID:          e.ID,
			ShiftID:     e.ShiftID,
			CreatorLDAP: ldapOrUnknown(users, e.CreatorTelegramID),
			Action:      e.Action,
			ShiftDate:   e.ShiftDate,
			ShiftType:   e.ShiftType,
			CreatedAt:   formatTimestamp(e.CreatedAt),
		}
		// Unresolved requesters stay null; only the creator falls back to Unknown.
		if e.RequesterTelegramID != nil {
			if u, ok := users[*e.RequesterTelegramID]; ok {
				ldap := u.LDAP
				view.RequesterLDAP = &ldap
			}
		}
		views = append(views, view)
	}
	return views, nil
}
