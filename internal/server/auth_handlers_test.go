package server

import (
	"net/http"
	"testing"

	"shiftswap/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate_TrustMode(t *testing.T) {
	_, app := newTestApp(t)

	out := authenticate(t, app, 123456789, "alice", "Alice")
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "123456789", out["user_id"])
	assert.NotContains(t, out, "token")

	// Logging in again refreshes the profile.
	out = authenticate(t, app, "123456789", "alice", "Alice B.")
	assert.Equal(t, "123456789", out["user_id"])
}

func TestAuthenticate_Validation(t *testing.T) {
	_, app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth", map[string]any{"telegram_id": "1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth", map[string]any{"ldap": "alice"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth", "not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthenticate_LDAPTakenByAnotherAccount(t *testing.T) {
	_, app := newTestApp(t)
	authenticate(t, app, "1", "alice", "Alice")

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth", map[string]any{
		"telegram_id": "2",
		"ldap":        "alice",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
}

func TestJWTMode_TokenFlow(t *testing.T) {
	_, app := newTestApp(t, func(cfg *config.Config) {
		cfg.AuthMode = config.AuthModeJWT
		cfg.JWTSecret = "test-secret-key-12345678901234567890123456789012"
	})

	alice := authenticate(t, app, "1", "alice", "Alice")
	token, ok := alice["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	bob := authenticate(t, app, "2", "bob", "Bob")
	bobToken := bob["token"].(string)

	createBody := map[string]any{"telegram_id": "1", "shift_date": "2024-06-01", "shift_type": "day"}

	resp, _ := doJSON(t, app, http.MethodPost, "/api/shift/create", createBody)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/shift/create", createBody, "Authorization", "Bearer "+bobToken)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/shift/create", createBody, "Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/shift/create", createBody, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	// The token alone identifies the caller.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/shift/history", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewServerWithDeps_AuthModes(t *testing.T) {
	db := newTestDB(t)

	_, err := NewServerWithDeps(&config.Config{AuthMode: config.AuthModeJWT}, db, nil)
	assert.Error(t, err)

	_, err = NewServerWithDeps(&config.Config{AuthMode: "oauth"}, db, nil)
	assert.Error(t, err)

	s, err := NewServerWithDeps(&config.Config{AuthMode: config.AuthModeTrust}, db, nil)
	require.NoError(t, err)
	assert.NotNil(t, s.auth)
}
