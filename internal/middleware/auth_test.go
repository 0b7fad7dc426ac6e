package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shiftswap/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func TestTrustAuthenticator(t *testing.T) {
	id, err := TrustAuthenticator{}.Verify(context.Background(), Credentials{ClaimedTelegramID: " 42 "})
	require.NoError(t, err)
	assert.Equal(t, "42", id.TelegramID)

	id, err = TrustAuthenticator{}.Verify(context.Background(), Credentials{})
	require.NoError(t, err)
	assert.Empty(t, id.TelegramID)
}

func TestJWTAuthenticator_IssueAndVerify(t *testing.T) {
	auth := NewJWTAuthenticator(testSecret)

	token, err := auth.IssueToken("42")
	require.NoError(t, err)

	id, err := auth.Verify(context.Background(), Credentials{BearerToken: token})
	require.NoError(t, err)
	assert.Equal(t, "42", id.TelegramID)

	id, err = auth.Verify(context.Background(), Credentials{ClaimedTelegramID: "42", BearerToken: token})
	require.NoError(t, err)
	assert.Equal(t, "42", id.TelegramID)
}

func TestJWTAuthenticator_Rejects(t *testing.T) {
	auth := NewJWTAuthenticator(testSecret)
	valid, err := auth.IssueToken("42")
	require.NoError(t, err)

	sign := func(claims jwt.MapClaims, method jwt.SigningMethod, key any) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	base := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub": "42",
			"iss": tokenIssuer,
			"aud": tokenAudience,
			"exp": time.Now().Add(time.Hour).Unix(),
		}
	}

	expired := base()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()
	wrongIssuer := base()
	wrongIssuer["iss"] = "someone-else"
	wrongAudience := base()
	wrongAudience["aud"] = "someone-else"
	noSubject := base()
	delete(noSubject, "sub")

	tests := []struct {
		name  string
		creds Credentials
	}{
		{name: "missing token", creds: Credentials{ClaimedTelegramID: "42"}},
		{name: "garbage token", creds: Credentials{BearerToken: "not-a-jwt"}},
		{name: "wrong secret", creds: Credentials{BearerToken: sign(base(), jwt.SigningMethodHS256, []byte("other-secret"))}},
		{name: "expired", creds: Credentials{BearerToken: sign(expired, jwt.SigningMethodHS256, []byte(testSecret))}},
		{name: "wrong issuer", creds: Credentials{BearerToken: sign(wrongIssuer, jwt.SigningMethodHS256, []byte(testSecret))}},
		{name: "wrong audience", creds: Credentials{BearerToken: sign(wrongAudience, jwt.SigningMethodHS256, []byte(testSecret))}},
		{name: "no subject", creds: Credentials{BearerToken: sign(noSubject, jwt.SigningMethodHS256, []byte(testSecret))}},
		{name: "none algorithm", creds: Credentials{BearerToken: sign(base(), jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType)}},
		{name: "identity mismatch", creds: Credentials{ClaimedTelegramID: "7", BearerToken: valid}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Verify(context.Background(), tt.creds)
			require.Error(t, err)
			assert.True(t, models.HasCode(err, models.CodeUnauthorized), err.Error())
		})
	}
}

func TestJWTAuthenticator_EmptySecret(t *testing.T) {
	_, err := NewJWTAuthenticator("").IssueToken("42")
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "Bearer abc.def", want: "abc.def"},
		{header: "bearer abc.def", want: "abc.def"},
		{header: "Basic dXNlcjpwYXNz", want: ""},
		{header: "Bearer", want: ""},
		{header: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			app := fiber.New()
			var got string
			app.Get("/", func(c *fiber.Ctx) error {
				got = BearerToken(c)
				return c.SendStatus(fiber.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, tt.want, got)
		})
	}
}
