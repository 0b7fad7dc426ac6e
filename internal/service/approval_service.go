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

// ApprovalService is the request state machine. Requests move
// pending -> approved or pending -> rejected and never leave a terminal
// state; a shift goes inactive exactly once, on its first approval.
type ApprovalService struct {
	db         *gorm.DB
	history    *HistoryService
	invalidate Invalidator
}

// NewApprovalService returns a new ApprovalService.
func NewApprovalService(db *gorm.DB, history *HistoryService, invalidate Invalidator) *ApprovalService {
	return &ApprovalService{db: db, history: history, invalidate: orNoop(invalidate)}
}

// Decision is the outcome of an approve or reject call.
type Decision struct {
	Request *models.ShiftRequest
	// Changed is false when the call was a repeat of an earlier identical decision.
	Changed bool
	// AutoRejected counts competing requests rejected by an approval.
	AutoRejected int
}

// Approve makes requestID the winner of its shift. In one transaction with the
// shift row locked it rejects every other pending request, approves the
// target, deactivates the shift and records the approval in history.
// actorID, when known, must be the shift owner.
func (s *ApprovalService) Approve(ctx context.Context, requestID uint, actorID string) (decision *Decision, err error) {
	actorID = strings.TrimSpace(actorID)

	span, ctx := observability.StartServiceSpan(ctx, "ApprovalService", "Approve",
		attribute.Int64("request_id", int64(requestID)),
		attribute.String("actor", actorID),
	)
	defer span.Finish(&err)

	if requestID == 0 {
		return nil, models.NewValidationError("request_id is required")
	}

	decision = &Decision{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requests := repository.NewShiftRequestRepository(tx)
		shifts := repository.NewShiftRepository(tx)

		request, shift, err := lockRequest(ctx, requests, shifts, requestID)
		if err != nil {
			return err
		}
		if actorID != "" && actorID != shift.CreatorTelegramID {
			return models.NewForbiddenError("Only the shift owner can approve requests")
		}

		if request.Status.Terminal() {
			if request.Status != models.ShiftRequestStatusApproved {
				return models.NewConflictError("Request has already been rejected")
			}
			decision.Request = request
			return nil
		}

		winner, err := requests.FindApprovedForShift(ctx, shift.ID)
		if err != nil {
			return err
		}
		if winner != nil {
			return models.NewConflictError("Shift already has an approved request")
		}

		siblings, err := requests.ListByShift(ctx, shift.ID)
		if err != nil {
			return err
		}
		rejected, err := requests.RejectPendingSiblings(ctx, shift.ID, request.ID)
		if err != nil {
			return err
		}
		if err := requests.UpdateStatus(ctx, request.ID, models.ShiftRequestStatusApproved); err != nil {
			return err
		}
		if err := shifts.Deactivate(ctx, shift.ID); err != nil {
			return err
		}

		requester := request.RequesterTelegramID
		if err := s.history.Record(ctx, tx, newHistoryEntry(shift, &requester, models.HistoryActionApproved)); err != nil {
			return err
		}
		for _, sib := range siblings {
			if sib.ID == request.ID || sib.Status != models.ShiftRequestStatusPending {
				continue
			}
			loser := sib.RequesterTelegramID
			if err := s.history.Record(ctx, tx, newHistoryEntry(shift, &loser, models.HistoryActionRejected)); err != nil {
				return err
			}
		}

		request.Status = models.ShiftRequestStatusApproved
		decision.Request = request
		decision.Changed = true
		decision.AutoRejected = int(rejected)
		return nil
	})
	if err != nil {
		if models.HasCode(err, models.CodeConflict) {
			observability.RecordConflict("approve")
		}
		return nil, err
	}

	if decision.Changed {
		s.invalidate(ctx)
		observability.RecordLifecycle("approved")
		observability.AutoRejectedRequests.Add(float64(decision.AutoRejected))
		middleware.Logger.InfoContext(ctx, "shift request approved",
			slog.Uint64("request_id", uint64(requestID)),
			slog.Uint64("shift_id", uint64(decision.Request.ShiftID)),
			slog.Int("auto_rejected", decision.AutoRejected),
		)
	}
	return decision, nil
}

// Reject declines a pending request. Rejecting an already rejected request is
// a no-op; an approved request is final and cannot be rejected.
func (s *ApprovalService) Reject(ctx context.Context, requestID uint, actorID string) (decision *Decision, err error) {
	actorID = strings.TrimSpace(actorID)

	span, ctx := observability.StartServiceSpan(ctx, "ApprovalService", "Reject",
		attribute.Int64("request_id", int64(requestID)),
		attribute.String("actor", actorID),
	)
	defer span.Finish(&err)

	if requestID == 0 {
		return nil, models.NewValidationError("request_id is required")
	}

	decision = &Decision{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requests := repository.NewShiftRequestRepository(tx)
		shifts := repository.NewShiftRepository(tx)

		request, shift, err := lockRequest(ctx, requests, shifts, requestID)
		if err != nil {
			return err
		}
		if actorID != "" && actorID != shift.CreatorTelegramID {
			return models.NewForbiddenError("Only the shift owner can reject requests")
		}

		if request.Status.Terminal() {
			if request.Status != models.ShiftRequestStatusRejected {
				return models.NewConflictError("Request has already been approved")
			}
			decision.Request = request
			return nil
		}

		if err := requests.UpdateStatus(ctx, request.ID, models.ShiftRequestStatusRejected); err != nil {
			return err
		}
		requester := request.RequesterTelegramID
		if err := s.history.Record(ctx, tx, newHistoryEntry(shift, &requester, models.HistoryActionRejected)); err != nil {
			return err
		}

		request.Status = models.ShiftRequestStatusRejected
		decision.Request = request
		decision.Changed = true
		return nil
	})
	if err != nil {
		if models.HasCode(err, models.CodeConflict) {
			observability.RecordConflict("reject")
		}
		return nil, err
	}

	if decision.Changed {
		s.invalidate(ctx)
		observability.RecordLifecycle("rejected")
		middleware.Logger.InfoContext(ctx, "shift request rejected",
			slog.Uint64("request_id", uint64(requestID)),
			slog.Uint64("shift_id", uint64(decision.Request.ShiftID)),
		)
	}
	return decision, nil
}

// lockRequest loads the request, locks its shift row and re-reads the request
// so its status cannot change underneath the caller.
func lockRequest(ctx context.Context, requests repository.ShiftRequestRepository, shifts repository.ShiftRepository, requestID uint) (*models.ShiftRequest, *models.Shift, error) {
	request, err := requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	shift, err := shifts.GetByIDForUpdate(ctx, request.ShiftID)
	if err != nil {
		return nil, nil, err
	}
	request, err = requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	return request, shift, nil
}
