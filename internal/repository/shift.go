package repository

import (
	"context"
	"errors"

	"shiftswap/internal/models"
	"shiftswap/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShiftRepository defines persistence operations for shift postings.
type ShiftRepository interface {
	Create(ctx context.Context, shift *models.Shift) error
	GetByID(ctx context.Context, id uint) (*models.Shift, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Shift, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Shift, error)
	ListAvailable(ctx context.Context, includeTaken bool) ([]models.Shift, error)
	ListByCreator(ctx context.Context, creatorTelegramID string) ([]models.Shift, error)
	Deactivate(ctx context.Context, id uint) error
}

type shiftRepository struct {
	db *gorm.DB
}

// NewShiftRepository returns a new ShiftRepository implementation.
func NewShiftRepository(db *gorm.DB) ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) Create(ctx context.Context, shift *models.Shift) error {
	defer observability.TrackQuery("insert", "shifts")()
	if err := r.db.WithContext(ctx).Create(shift).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *shiftRepository) GetByID(ctx context.Context, id uint) (*models.Shift, error) {
	var shift models.Shift
	if err := r.db.WithContext(ctx).First(&shift, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Shift", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &shift, nil
}

// GetByIDForUpdate loads the shift with a row lock held until the surrounding
// transaction ends. Every read-modify-write on a shift's requests goes through it.
func (r *shiftRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Shift, error) {
	var shift models.Shift
	defer observability.TrackQuery("select_for_update", "shifts")()
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&shift, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Shift", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &shift, nil
}

func (r *shiftRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Shift, error) {
	var shifts []models.Shift
	if len(ids) == 0 {
		return shifts, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&shifts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return shifts, nil
}

// ListAvailable returns active shifts and, when includeTaken is set, shifts that
// already have an approved request. Ordered by date, then creation.
func (r *shiftRepository) ListAvailable(ctx context.Context, includeTaken bool) ([]models.Shift, error) {
	var shifts []models.Shift
	defer observability.TrackQuery("select", "shifts")()

	query := r.db.WithContext(ctx).Model(&models.Shift{})
	if includeTaken {
		query = query.Where("is_active = ? OR EXISTS (?)", true,
			r.db.Model(&models.ShiftRequest{}).
				Select("1").
				Where("shift_requests.shift_id = shifts.id AND shift_requests.status = ?", models.ShiftRequestStatusApproved),
		)
	} else {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Order("shift_date ASC, created_at ASC, id ASC").Find(&shifts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return shifts, nil
}

func (r *shiftRepository) ListByCreator(ctx context.Context, creatorTelegramID string) ([]models.Shift, error) {
	var shifts []models.Shift
	if err := r.db.WithContext(ctx).
		Where("creator_telegram_id = ?", creatorTelegramID).
		Order("shift_date ASC, created_at ASC, id ASC").
		Find(&shifts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return shifts, nil
}

func (r *shiftRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Shift{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Shift", id)
	}
	return nil
}
