// Package seed populates a database with demo users, shifts and requests.
// Everything goes through the lifecycle services, so seeded data carries the
// same history entries and status invariants as real traffic. It is meant for
// development and testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"shiftswap/internal/models"
	"shiftswap/internal/repository"
	"shiftswap/internal/service"

	"gorm.io/gorm"
)

// Options controls how much demo data is generated.
type Options struct {
	Users int
	// Shifts is the total number of shifts posted across all users.
	Shifts int
	// MaxRequestsPerShift caps how many colleagues ask for each shift.
	MaxRequestsPerShift int
	// ApproveRatio is the share of requested shifts whose owner picks a winner.
	ApproveRatio float64
	// Days spreads shift dates over [Start, Start+Days).
	Days  int
	Start time.Time
	// RandSeed makes the generated data reproducible. Zero picks a random seed.
	RandSeed int64
}

// DefaultOptions is a small board suitable for local development.
func DefaultOptions() Options {
	return Options{
		Users:               12,
		Shifts:              30,
		MaxRequestsPerShift: 3,
		ApproveRatio:        0.3,
		Days:                30,
		Start:               time.Now(),
	}
}

// Summary reports what a run created.
type Summary struct {
	Users     int
	Shifts    int
	Requests  int
	Approved  int
	Rejected  int
	Conflicts int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d users, %d shifts, %d requests (%d approved, %d rejected, %d skipped)",
		s.Users, s.Shifts, s.Requests, s.Approved, s.Rejected, s.Conflicts)
}

// Seeder drives the lifecycle services with generated data.
type Seeder struct {
	db        *gorm.DB
	factory   *Factory
	users     *service.UserService
	shifts    *service.ShiftService
	requests  *service.RequestService
	approvals *service.ApprovalService
}

// NewSeeder builds a Seeder bound to db. Every mutation clears the cached
// board, so seeding next to a running API is safe.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	users := service.NewUserService(repository.NewUserRepository(db), service.CacheInvalidator)
	history := service.NewHistoryService(db, users)
	return &Seeder{
		db:        db,
		factory:   NewFactory(opts),
		users:     users,
		shifts:    service.NewShiftService(db, users, history, service.ShiftOptions{}, service.CacheInvalidator),
		requests:  service.NewRequestService(db, users, service.CacheInvalidator),
		approvals: service.NewApprovalService(db, history, service.CacheInvalidator),
	}
}

// ClearAll removes every lifecycle row, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	log.Println("🧹 Cleaning database...")
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.HistoryEntry{}, &models.ShiftRequest{}, &models.Shift{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

// Run registers users, posts shifts, files requests and approves or rejects a
// share of them.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	opts := s.factory.opts

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		in := s.factory.AuthInput()
		u, err := s.users.Authenticate(ctx, in)
		if err != nil {
			if models.HasCode(err, models.CodeConflict) {
				sum.Conflicts++
				continue
			}
			return sum, fmt.Errorf("register user: %w", err)
		}
		users = append(users, u)
	}
	sum.Users = len(users)
	if len(users) < 2 {
		return sum, nil
	}

	for i := 0; i < opts.Shifts; i++ {
		owner := users[s.factory.Intn(len(users))]
		shift, err := s.shifts.CreateShift(ctx, s.factory.ShiftInput(owner.TelegramID))
		if err != nil {
			return sum, fmt.Errorf("create shift: %w", err)
		}
		sum.Shifts++

		var pending []*models.ShiftRequest
		for _, requester := range s.factory.PickRequesters(users, owner.TelegramID) {
			req, err := s.requests.SubmitRequest(ctx, shift.ID, requester.TelegramID)
			if err != nil {
				if models.HasCode(err, models.CodeConflict) {
					sum.Conflicts++
					continue
				}
				return sum, fmt.Errorf("submit request: %w", err)
			}
			sum.Requests++
			pending = append(pending, req)
		}
		if len(pending) == 0 {
			continue
		}

		switch {
		case s.factory.Chance(opts.ApproveRatio):
			winner := pending[s.factory.Intn(len(pending))]
			decision, err := s.approvals.Approve(ctx, winner.ID, owner.TelegramID)
			if err != nil {
				return sum, fmt.Errorf("approve request %d: %w", winner.ID, err)
			}
			sum.Approved++
			sum.Rejected += decision.AutoRejected
		case s.factory.Chance(0.25):
			loser := pending[0]
			if _, err := s.approvals.Reject(ctx, loser.ID, owner.TelegramID); err != nil {
				return sum, fmt.Errorf("reject request %d: %w", loser.ID, err)
			}
			sum.Rejected++
		}
	}

	return sum, nil
}
