package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"shiftswap/internal/config"
	"shiftswap/internal/database"
	"shiftswap/internal/models"
	"shiftswap/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServices struct {
	db           *gorm.DB
	users        *UserService
	history      *HistoryService
	shifts       *ShiftService
	requests     *RequestService
	approvals    *ApprovalService
	invalidation *atomic.Int32
}

var fixedNow = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.ApplySchema(context.Background(), db, &config.Config{DBDriver: database.DriverSQLite}))
	return db
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := newTestDB(t)

	counter := &atomic.Int32{}
	invalidate := func(context.Context) { counter.Add(1) }

	users := NewUserService(repository.NewUserRepository(db), nil)
	history := NewHistoryService(db, users)
	return &testServices{
		db:      db,
		users:   users,
		history: history,
		shifts: NewShiftService(db, users, history, ShiftOptions{
			ForwardDays: 30,
			Now:         func() time.Time { return fixedNow },
		}, invalidate),
		requests:     NewRequestService(db, users, invalidate),
		approvals:    NewApprovalService(db, history, invalidate),
		invalidation: counter,
	}
}

func (s *testServices) register(t *testing.T, telegramID, ldap, name string) *models.User {
	t.Helper()
	user, err := s.users.Authenticate(context.Background(), AuthInput{TelegramID: telegramID, LDAP: ldap, FirstName: name})
	require.NoError(t, err)
	return user
}

func (s *testServices) createShift(t *testing.T, owner, date string) *models.Shift {
	t.Helper()
	shift, err := s.shifts.CreateShift(context.Background(), CreateShiftInput{
		OwnerID: owner,
		Date:    date,
		Type:    models.ShiftTypeDay,
	})
	require.NoError(t, err)
	return shift
}

func (s *testServices) submit(t *testing.T, shiftID uint, requester string) *models.ShiftRequest {
	t.Helper()
	req, err := s.requests.SubmitRequest(context.Background(), shiftID, requester)
	require.NoError(t, err)
	return req
}

func (s *testServices) requestStatus(t *testing.T, id uint) models.ShiftRequestStatus {
	t.Helper()
	req, err := repository.NewShiftRequestRepository(s.db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return req.Status
}

func (s *testServices) shiftActive(t *testing.T, id uint) bool {
	t.Helper()
	shift, err := repository.NewShiftRepository(s.db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return shift.IsActive
}

func strPtr(s string) *string { return &s }
