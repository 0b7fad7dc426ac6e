package service

import (
	"context"
	"log/slog"
	"strings"

	"shiftswap/internal/middleware"
	"shiftswap/internal/models"
	"shiftswap/internal/observability"
	"shiftswap/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// RequestService records claims on shifts and lists them for owners and requesters.
type RequestService struct {
	db         *gorm.DB
	users      *UserService
	invalidate Invalidator
}

// NewRequestService returns a new RequestService.
func NewRequestService(db *gorm.DB, users *UserService, invalidate Invalidator) *RequestService {
	return &RequestService{db: db, users: users, invalidate: orNoop(invalidate)}
}

// SubmitRequest files a pending request by requesterID for the shift. The shift
// row stays locked for the duration so a concurrent duplicate or approval
// cannot slip past the checks. A requester holds at most one request per
// shift whatever its status, so a rejected requester cannot ask again.
func (s *RequestService) SubmitRequest(ctx context.Context, shiftID uint, requesterID string) (request *models.ShiftRequest, err error) {
	requesterID = strings.TrimSpace(requesterID)

	span, ctx := observability.StartServiceSpan(ctx, "RequestService", "SubmitRequest",
		attribute.Int64("shift_id", int64(shiftID)),
		attribute.String("telegram_id", requesterID),
	)
	defer span.Finish(&err)

	if shiftID == 0 {
		return nil, models.NewValidationError("shift_id is required")
	}
	if requesterID == "" {
		return nil, models.NewValidationError("telegram_id is required")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shift, err := repository.NewShiftRepository(tx).GetByIDForUpdate(ctx, shiftID)
		if err != nil {
			return err
		}
		if shift.CreatorTelegramID == requesterID {
			return models.NewValidationError("You cannot request your own shift")
		}
		if !shift.IsActive {
			return models.NewConflictError("Shift is no longer available")
		}

		requests := repository.NewShiftRequestRepository(tx)
		existing, err := requests.FindByShiftAndRequester(ctx, shiftID, requesterID)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.NewConflictError("Already requested")
		}

		request = &models.ShiftRequest{
			ShiftID:             shift.ID,
			RequesterTelegramID: requesterID,
			CreatorTelegramID:   shift.CreatorTelegramID,
			Status:              models.ShiftRequestStatusPending,
		}
		return requests.Create(ctx, request)
	})
	if err != nil {
		if models.HasCode(err, models.CodeConflict) {
			observability.RecordConflict("submit")
		}
		return nil, err
	}

	s.invalidate(ctx)
	observability.RecordLifecycle("requested")
	middleware.Logger.InfoContext(ctx, "shift requested",
		slog.Uint64("shift_id", uint64(shiftID)),
		slog.Uint64("request_id", uint64(request.ID)),
		slog.String("requester", requesterID),
	)
	return request, nil
}

// ListRequestsForOwner returns every request, in any status, on shifts owned by ownerID. Newest first.
func (s *RequestService) ListRequestsForOwner(ctx context.Context, ownerID string) (views []models.RequestView, err error) {
	span, ctx := observability.StartServiceSpan(ctx, "RequestService", "ListRequestsForOwner",
		attribute.String("telegram_id", ownerID))
	defer span.Finish(&err)

	if ownerID == "" {
		return nil, models.NewValidationError("telegram_id is required")
	}
	requests, err := repository.NewShiftRequestRepository(s.db).ListByCreator(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.buildRequestViews(ctx, requests)
}

// ListRequestsByRequester returns the requests submitted by requesterID. Newest first.
func (s *RequestService) ListRequestsByRequester(ctx context.Context, requesterID string) (views []models.RequestView, err error) {
	span, ctx := observability.StartServiceSpan(ctx, "RequestService", "ListRequestsByRequester",
		attribute.String("telegram_id", requesterID))
	defer span.Finish(&err)

	if requesterID == "" {
		return nil, models.NewValidationError("telegram_id is required")
	}
	requests, err := repository.NewShiftRequestRepository(s.db).ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return s.buildRequestViews(ctx, requests)
}

// ListRequestsForShift returns the requests filed against one shift, oldest first.
func (s *RequestService) ListRequestsForShift(ctx context.Context, shiftID uint) ([]models.RequestView, error) {
	if _, err := repository.NewShiftRepository(s.db).GetByID(ctx, shiftID); err != nil {
		return nil, err
	}
	requests, err := repository.NewShiftRequestRepository(s.db).ListByShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	return s.buildRequestViews(ctx, requests)
}

func (s *RequestService) buildRequestViews(ctx context.Context, requests []models.ShiftRequest) ([]models.RequestView, error) {
	shiftIDs := make([]uint, 0, len(requests))
	requesterIDs := make([]string, 0, len(requests))
	for _, r := range requests {
		shiftIDs = append(shiftIDs, r.ShiftID)
		requesterIDs = append(requesterIDs, r.RequesterTelegramID)
	}

	shifts, err := repository.NewShiftRepository(s.db).GetByIDs(ctx, shiftIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Shift, len(shifts))
	for _, sh := range shifts {
		byID[sh.ID] = sh
	}

	users, err := s.users.DisplayNames(ctx, requesterIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.RequestView, 0, len(requests))
	for _, r := range requests {
		view := models.RequestView{
			ID:            r.ID,
			ShiftID:       r.ShiftID,
			RequesterLDAP: ldapOrUnknown(users, r.RequesterTelegramID),
			RequesterName: nameOrUnknown(users, r.RequesterTelegramID),
			Status:        r.Status,
			CreatedAt:     formatTimestamp(r.CreatedAt),
		}
		if sh, ok := byID[r.ShiftID]; ok {
			date, typ := sh.ShiftDate, sh.ShiftType
			view.ShiftDate = &date
			view.ShiftType = &typ
		}
		views = append(views, view)
	}
	return views, nil
}
