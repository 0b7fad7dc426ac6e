package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"shiftswap/internal/cache"
	"shiftswap/internal/middleware"
	"shiftswap/internal/models"
	"shiftswap/internal/observability"
	"shiftswap/internal/repository"
	"shiftswap/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// ShiftOptions tunes the shift registry.
type ShiftOptions struct {
	// ForwardDays is how far ahead a shift may be posted. Zero disables the limit.
	ForwardDays int
	// CacheTTL is the lifetime of the cached available-shifts board.
	CacheTTL time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// ShiftService stores shift postings and builds the available-shifts board.
type ShiftService struct {
	db         *gorm.DB
	users      *UserService
	history    *HistoryService
	opts       ShiftOptions
	invalidate Invalidator
}

// NewShiftService returns a new ShiftService.
func NewShiftService(db *gorm.DB, users *UserService, history *HistoryService, opts ShiftOptions, invalidate Invalidator) *ShiftService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = cache.DefaultAvailableShiftsTTL
	}
	return &ShiftService{
		db:         db,
		users:      users,
		history:    history,
		opts:       opts,
		invalidate: orNoop(invalidate),
	}
}

// CreateShiftInput describes a new shift posting.
type CreateShiftInput struct {
	OwnerID   string           `json:"telegram_id" validate:"required,max=64"`
	Date      string           `json:"shift_date" validate:"required,shift_date"`
	Type      models.ShiftType `json:"shift_type" validate:"required,shift_type"`
	StartTime *string          `json:"start_time" validate:"omitempty,clock"`
	EndTime   *string          `json:"end_time" validate:"omitempty,clock"`
}

// CreateShift posts a shift and records its "created" history entry in the same transaction.
func (s *ShiftService) CreateShift(ctx context.Context, in CreateShiftInput) (shift *models.Shift, err error) {
	in.OwnerID = strings.TrimSpace(in.OwnerID)
	in.Date = strings.TrimSpace(in.Date)
	in.StartTime = trimOptional(in.StartTime)
	in.EndTime = trimOptional(in.EndTime)

	span, ctx := observability.StartServiceSpan(ctx, "ShiftService", "CreateShift",
		attribute.String("telegram_id", in.OwnerID),
		attribute.String("shift_date", in.Date),
		attribute.String("shift_type", string(in.Type)),
	)
	defer span.Finish(&err)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Type == models.ShiftTypeHours && (in.StartTime == nil || in.EndTime == nil) {
		return nil, models.NewValidationError("start_time and end_time are required for hours shifts")
	}
	if err := validation.ValidateHorizon(in.Date, s.opts.Now(), s.opts.ForwardDays); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	shift = &models.Shift{
		CreatorTelegramID: in.OwnerID,
		ShiftDate:         in.Date,
		ShiftType:         in.Type,
		StartTime:         in.StartTime,
		EndTime:           in.EndTime,
		IsActive:          true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewShiftRepository(tx).Create(ctx, shift); err != nil {
			return err
		}
		return s.history.Record(ctx, tx, newHistoryEntry(shift, nil, models.HistoryActionCreated))
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	observability.RecordLifecycle("created")
	middleware.Logger.InfoContext(ctx, "shift created",
		slog.Uint64("shift_id", uint64(shift.ID)),
		slog.String("shift_date", shift.ShiftDate),
		slog.String("shift_type", string(shift.ShiftType)),
	)
	return shift, nil
}

// GetShift returns a shift by id.
func (s *ShiftService) GetShift(ctx context.Context, id uint) (*models.Shift, error) {
	return repository.NewShiftRepository(s.db).GetByID(ctx, id)
}

// ListShiftsByOwner returns every shift posted by ownerID, active or not.
func (s *ShiftService) ListShiftsByOwner(ctx context.Context, ownerID string) ([]models.Shift, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, models.NewValidationError("telegram_id is required")
	}
	return repository.NewShiftRepository(s.db).ListByCreator(ctx, ownerID)
}

// ListAvailableShifts returns open shifts and, when includeTaken is set, shifts
// already won by an approved request (IsTaken with the winner's ldap).
// Ordered by shift date, then creation time.
func (s *ShiftService) ListAvailableShifts(ctx context.Context, includeTaken bool) (views []models.ShiftView, err error) {
	span, ctx := observability.StartServiceSpan(ctx, "ShiftService", "ListAvailableShifts",
		attribute.Bool("include_taken", includeTaken))
	defer span.Finish(&err)

	views = []models.ShiftView{}
	err = cache.CacheAsideGuarded(ctx, cache.AvailableShiftsKey(includeTaken), cache.AvailableShiftsGenKey, &views, s.opts.CacheTTL, func() error {
		built, err := s.buildShiftViews(ctx, includeTaken)
		if err != nil {
			return err
		}
		views = built
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (s *ShiftService) buildShiftViews(ctx context.Context, includeTaken bool) ([]models.ShiftView, error) {
	shifts, err := repository.NewShiftRepository(s.db).ListAvailable(ctx, includeTaken)
	if err != nil {
		return nil, err
	}

	shiftIDs := make([]uint, 0, len(shifts))
	for _, sh := range shifts {
		shiftIDs = append(shiftIDs, sh.ID)
	}
	approved, err := repository.NewShiftRequestRepository(s.db).ListApprovedForShifts(ctx, shiftIDs)
	if err != nil {
		return nil, err
	}
	winners := make(map[uint]models.ShiftRequest, len(approved))
	for _, r := range approved {
		winners[r.ShiftID] = r
	}

	ids := make([]string, 0, len(shifts)+len(approved))
	for _, sh := range shifts {
		ids = append(ids, sh.CreatorTelegramID)
	}
	for _, r := range approved {
		ids = append(ids, r.RequesterTelegramID)
	}
	users, err := s.users.DisplayNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.ShiftView, 0, len(shifts))
	for _, sh := range shifts {
		view := models.ShiftView{
			ID:          sh.ID,
			CreatorLDAP: ldapOrUnknown(users, sh.CreatorTelegramID),
			CreatorName: nameOrUnknown(users, sh.CreatorTelegramID),
			ShiftDate:   sh.ShiftDate,
			ShiftType:   sh.ShiftType,
			StartTime:   sh.StartTime,
			EndTime:     sh.EndTime,
			IsActive:    sh.IsActive,
			CreatedAt:   formatTimestamp(sh.CreatedAt),
		}
		if winner, ok := winners[sh.ID]; ok {
			view.IsTaken = true
			ldap := ldapOrUnknown(users, winner.RequesterTelegramID)
			view.RequesterLDAP = &ldap
		}
		views = append(views, view)
	}
	return views, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
