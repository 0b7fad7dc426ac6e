package repository

import (
	"context"
	"testing"

	"shiftswap/internal/config"
	"shiftswap/internal/database"
	"shiftswap/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

func seedShift(t *testing.T, db *gorm.DB, owner, date string) *models.Shift {
	t.Helper()
	shift := &models.Shift{
		CreatorTelegramID: owner,
		ShiftDate:         date,
		ShiftType:         models.ShiftTypeDay,
		IsActive:          true,
	}
	require.NoError(t, NewShiftRepository(db).Create(context.Background(), shift))
	return shift
}

func seedRequest(t *testing.T, db *gorm.DB, shift *models.Shift, requester string) *models.ShiftRequest {
	t.Helper()
	req := &models.ShiftRequest{
		ShiftID:             shift.ID,
		RequesterTelegramID: requester,
		CreatorTelegramID:   shift.CreatorTelegramID,
		Status:              models.ShiftRequestStatusPending,
	}
	require.NoError(t, NewShiftRequestRepository(db).Create(context.Background(), req))
	return req
}
