package repository

import (
	"context"
	"errors"

	"shiftswap/internal/models"
	"shiftswap/internal/observability"

	"gorm.io/gorm"
)

// ShiftRequestRepository defines persistence operations for shift requests.
type ShiftRequestRepository interface {
	Create(ctx context.Context, request *models.ShiftRequest) error
	GetByID(ctx context.Context, id uint) (*models.ShiftRequest, error)
	FindByShiftAndRequester(ctx context.Context, shiftID uint, requesterTelegramID string) (*models.ShiftRequest, error)
	FindApprovedForShift(ctx context.Context, shiftID uint) (*models.ShiftRequest, error)
	ListApprovedForShifts(ctx context.Context, shiftIDs []uint) ([]models.ShiftRequest, error)
	ListByShift(ctx context.Context, shiftID uint) ([]models.ShiftRequest, error)
	ListByCreator(ctx context.Context, creatorTelegramID string) ([]models.ShiftRequest, error)
	ListByRequester(ctx context.Context, requesterTelegramID string) ([]models.ShiftRequest, error)
	UpdateStatus(ctx context.Context, id uint, status models.ShiftRequestStatus) error
	RejectPendingSiblings(ctx context.Context, shiftID, exceptID uint) (int64, error)
}

type shiftRequestRepository struct {
	db *gorm.DB
}

// NewShiftRequestRepository returns a new ShiftRequestRepository implementation.
func NewShiftRequestRepository(db *gorm.DB) ShiftRequestRepository {
	return &shiftRequestRepository{db: db}
}

func (r *shiftRequestRepository) Create(ctx context.Context, request *models.ShiftRequest) error {
	defer observability.TrackQuery("insert", "shift_requests")()
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		if IsUniqueViolation(err) {
			return models.NewConflictError("Request already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *shiftRequestRepository) GetByID(ctx context.Context, id uint) (*models.ShiftRequest, error) {
	var request models.ShiftRequest
	if err := r.db.WithContext(ctx).First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

// FindByShiftAndRequester returns the requester's request for the shift in any status, or nil.
func (r *shiftRequestRepository) FindByShiftAndRequester(ctx context.Context, shiftID uint, requesterTelegramID string) (*models.ShiftRequest, error) {
	var request models.ShiftRequest
	if err := r.db.WithContext(ctx).
		Where("shift_id = ? AND requester_telegram_id = ?", shiftID, requesterTelegramID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

// FindApprovedForShift returns the winning request of the shift, or nil when none is approved.
func (r *shiftRequestRepository) FindApprovedForShift(ctx context.Context, shiftID uint) (*models.ShiftRequest, error) {
	var request models.ShiftRequest
	if err := r.db.WithContext(ctx).
		Where("shift_id = ? AND status = ?", shiftID, models.ShiftRequestStatusApproved).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *shiftRequestRepository) ListApprovedForShifts(ctx context.Context, shiftIDs []uint) ([]models.ShiftRequest, error) {
	var requests []models.ShiftRequest
	if len(shiftIDs) == 0 {
		return requests, nil
	}
	if err := r.db.WithContext(ctx).
		Where("shift_id IN ? AND status = ?", shiftIDs, models.ShiftRequestStatusApproved).
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *shiftRequestRepository) ListByShift(ctx context.Context, shiftID uint) ([]models.ShiftRequest, error) {
	var requests []models.ShiftRequest
	if err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("created_at ASC, id ASC").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *shiftRequestRepository) ListByCreator(ctx context.Context, creatorTelegramID string) ([]models.ShiftRequest, error) {
	return r.listWhere(ctx, "creator_telegram_id = ?", creatorTelegramID)
}

func (r *shiftRequestRepository) ListByRequester(ctx context.Context, requesterTelegramID string) ([]models.ShiftRequest, error) {
	return r.listWhere(ctx, "requester_telegram_id = ?", requesterTelegramID)
}

func (r *shiftRequestRepository) listWhere(ctx context.Context, cond string, arg string) ([]models.ShiftRequest, error) {
	var requests []models.ShiftRequest
	defer observability.TrackQuery("select", "shift_requests")()
	if err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC, id DESC").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *shiftRequestRepository) UpdateStatus(ctx context.Context, id uint, status models.ShiftRequestStatus) error {
	result := r.db.WithContext(ctx).Model(&models.ShiftRequest{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return models.NewConflictError("Shift already has an approved request")
		}
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Request", id)
	}
	return nil
}

// RejectPendingSiblings rejects every pending request on the shift except exceptID
// and returns how many were rejected.
func (r *shiftRequestRepository) RejectPendingSiblings(ctx context.Context, shiftID, exceptID uint) (int64, error) {
	defer observability.TrackQuery("update", "shift_requests")()
	result := r.db.WithContext(ctx).Model(&models.ShiftRequest{}).
		Where("shift_id = ? AND id <> ? AND status = ?", shiftID, exceptID, models.ShiftRequestStatusPending).
		Update("status", models.ShiftRequestStatusRejected)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}
