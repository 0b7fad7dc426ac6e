package repository

import (
	"context"
	"errors"

	"shiftswap/internal/cache"
	"shiftswap/internal/models"
	"shiftswap/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByTelegramID(ctx context.Context, telegramID string) (*models.User, error)
	GetByLDAP(ctx context.Context, ldap string) (*models.User, error)
	GetByTelegramIDs(ctx context.Context, telegramIDs []string) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID string) (*models.User, error) {
	var user models.User

	err := cache.CacheAside(ctx, cache.UserKey(telegramID), &user, cache.UserTTL, func() error {
		defer observability.TrackQuery("select", "users")()
		if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", telegramID)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByLDAP(ctx context.Context, ldap string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("ldap = ?", ldap).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", ldap)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByTelegramIDs returns the users that exist among telegramIDs, in no particular order.
func (r *userRepository) GetByTelegramIDs(ctx context.Context, telegramIDs []string) ([]models.User, error) {
	var users []models.User
	if len(telegramIDs) == 0 {
		return users, nil
	}
	defer observability.TrackQuery("select", "users")()
	if err := r.db.WithContext(ctx).Where("telegram_id IN ?", telegramIDs).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if IsUniqueViolation(err) {
			return models.NewConflictError("User with this telegram_id or ldap already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.TelegramID)
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if IsUniqueViolation(err) {
			return models.NewConflictError("ldap is already linked to another account")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.TelegramID)
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if err := r.db.WithContext(ctx).Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
