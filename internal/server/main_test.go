package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"shiftswap/internal/cache"
	"shiftswap/internal/config"
	"shiftswap/internal/database"

	"github.com/gofiber/fiber/v2"
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

// newTestApp builds a full app on an in-memory database. The horizon check is
// disabled so fixed dates stay valid.
func newTestApp(t *testing.T, mutate ...func(*config.Config)) (*Server, *fiber.App) {
	t.Helper()
	cfg := &config.Config{
		Port:     "0",
		DBDriver: database.DriverSQLite,
		AuthMode: config.AuthModeTrust,
	}
	for _, m := range mutate {
		m(cfg)
	}

	s, err := NewServerWithDeps(cfg, newTestDB(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { cache.SetClient(nil) })
	return s, s.NewApp()
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any, headers ...string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func authenticate(t *testing.T, app *fiber.App, telegramID any, ldap, name string) map[string]any {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/auth", map[string]any{
		"telegram_id": telegramID,
		"ldap":        ldap,
		"first_name":  name,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func createShift(t *testing.T, app *fiber.App, owner, date string) uint {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/shift/create", map[string]any{
		"telegram_id": owner,
		"shift_date":  date,
		"shift_type":  "day",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out struct {
		Success bool `json:"success"`
		ShiftID uint `json:"shift_id"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.True(t, out.Success)
	return out.ShiftID
}

func requestShift(t *testing.T, app *fiber.App, shiftID uint, requester string) uint {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/shift/request", map[string]any{
		"shift_id":    shiftID,
		"telegram_id": requester,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out struct {
		Success   bool `json:"success"`
		RequestID uint `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.True(t, out.Success)
	return out.RequestID
}
