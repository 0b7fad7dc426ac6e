package admin

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"testing"

	"shiftswap/internal/config"
	"shiftswap/internal/database"
	"shiftswap/internal/models"
	"shiftswap/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

type fixture struct {
	db      *gorm.DB
	shiftID uint
	bobReq  uint
	carolRq uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	rt := &Runtime{DB: db}
	svc := newServices(rt)
	ctx := context.Background()

	users := service.NewUserService(svc.users, nil)
	for _, u := range []service.AuthInput{
		{TelegramID: "1", LDAP: "alice", FirstName: "Alice"},
		{TelegramID: "2", LDAP: "bob", FirstName: "Bob"},
		{TelegramID: "3", LDAP: "carol", FirstName: "Carol"},
	} {
		_, err := users.Authenticate(ctx, u)
		require.NoError(t, err)
	}

	shift, err := svc.shifts.CreateShift(ctx, service.CreateShiftInput{OwnerID: "1", Date: "2024-06-01", Type: models.ShiftTypeNight})
	require.NoError(t, err)
	bob, err := svc.requests.SubmitRequest(ctx, shift.ID, "2")
	require.NoError(t, err)
	carol, err := svc.requests.SubmitRequest(ctx, shift.ID, "3")
	require.NoError(t, err)

	return &fixture{db: db, shiftID: shift.ID, bobReq: bob.ID, carolRq: carol.ID}
}

func run(t *testing.T, db *gorm.DB, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(func() (*Runtime, error) { return &Runtime{DB: db}, nil })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestShiftsCommand(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, f.db, "shifts")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-06-01")
	assert.Contains(t, out, "night")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "open")
}

func TestShiftsCommand_ByOwner(t *testing.T) {
	f := newFixture(t)
	_, err := run(t, f.db, "approve", itoa(f.bobReq))
	require.NoError(t, err)

	out, err := run(t, f.db, "shifts", "--owner", "1")
	require.NoError(t, err)
	assert.Contains(t, out, itoa(f.shiftID))
	assert.Contains(t, out, "closed")

	out, err = run(t, f.db, "shifts", "--owner", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "No shifts.")
}

func TestApproveCommand_ResolvesShift(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, f.db, "approve", "--as", "1", itoa(f.bobReq))
	require.NoError(t, err)
	assert.Contains(t, out, "1 competing request(s) rejected")

	out, err = run(t, f.db, "approve", itoa(f.bobReq))
	require.NoError(t, err)
	assert.Contains(t, out, "already approved")

	out, err = run(t, f.db, "shifts")
	require.NoError(t, err)
	assert.Contains(t, out, "taken by bob")

	out, err = run(t, f.db, "shifts", "--active")
	require.NoError(t, err)
	assert.Contains(t, out, "No shifts.")

	out, err = run(t, f.db, "requests", itoa(f.shiftID))
	require.NoError(t, err)
	assert.Contains(t, out, "posted by 1")
	assert.Contains(t, out, "approved")
	assert.Contains(t, out, "rejected")
}

func TestApproveCommand_WrongOwner(t *testing.T) {
	f := newFixture(t)

	_, err := run(t, f.db, "approve", "--as", "3", itoa(f.bobReq))
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeForbidden))
}

func TestRejectCommand(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, f.db, "reject", itoa(f.carolRq))
	require.NoError(t, err)
	assert.Contains(t, out, "Rejected request")

	out, err = run(t, f.db, "reject", itoa(f.carolRq))
	require.NoError(t, err)
	assert.Contains(t, out, "already rejected")
}

func TestHistoryCommand(t *testing.T) {
	f := newFixture(t)
	_, err := run(t, f.db, "approve", itoa(f.bobReq))
	require.NoError(t, err)

	out, err := run(t, f.db, "history", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "approved")
	assert.Contains(t, out, "bob")

	out, err = run(t, f.db, "history", "99")
	require.NoError(t, err)
	assert.Contains(t, out, "No history.")
}

func TestUsersCommand(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, f.db, "users", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "TELEGRAM_ID")
	assert.Contains(t, out, "alice")
	assert.NotContains(t, out, "carol")
}

func TestCommands_ArgumentErrors(t *testing.T) {
	db := newTestDB(t)

	_, err := run(t, db, "approve", "abc")
	assert.Error(t, err)

	_, err = run(t, db, "requests")
	assert.Error(t, err)

	_, err = run(t, db, "requests", "404")
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestLoaderFailure(t *testing.T) {
	boom := errors.New("no database")
	cmd := NewRootCmd(func() (*Runtime, error) { return nil, boom })
	cmd.SetArgs([]string{"shifts"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.ErrorIs(t, cmd.Execute(), boom)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
