package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shiftswap/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LocalTelegramID is the Fiber locals key holding the verified caller identity.
const LocalTelegramID = "telegramID"

const (
	tokenIssuer   = "shiftswap-api"
	tokenAudience = "shiftswap-client"
	tokenTTL      = 7 * 24 * time.Hour
)

// Credentials is what a caller presents to prove who they are.
type Credentials struct {
	// ClaimedTelegramID is the identity named in the request body or query.
	ClaimedTelegramID string
	// BearerToken is the raw token from the Authorization header, if any.
	BearerToken string
}

// Identity is a verified caller. An empty TelegramID means anonymous.
type Identity struct {
	TelegramID string
}

// Authenticator verifies caller credentials before any mutating operation.
// Handlers depend only on this interface so verification can be hardened
// without touching the lifecycle services.
type Authenticator interface {
	Verify(ctx context.Context, creds Credentials) (Identity, error)
}

// TokenIssuer is implemented by authenticators that hand out session tokens on /auth.
type TokenIssuer interface {
	IssueToken(telegramID string) (string, error)
}

// TrustAuthenticator accepts whatever identity the caller claims.
// It performs no verification at all and exists so the API can run without
// a signing secret; production deployments should use JWTAuthenticator.
type TrustAuthenticator struct{}

// Verify returns the claimed identity unchanged.
func (TrustAuthenticator) Verify(_ context.Context, creds Credentials) (Identity, error) {
	return Identity{TelegramID: strings.TrimSpace(creds.ClaimedTelegramID)}, nil
}

// JWTAuthenticator verifies HS256 bearer tokens issued by /auth.
type JWTAuthenticator struct {
	secret []byte
	now    func() time.Time
}

// NewJWTAuthenticator returns an authenticator signing and verifying with secret.
func NewJWTAuthenticator(secret string) *JWTAuthenticator {
	return &JWTAuthenticator{secret: []byte(secret), now: time.Now}
}

// IssueToken creates a signed token whose subject is the telegram id.
func (a *JWTAuthenticator) IssueToken(telegramID string) (string, error) {
	if len(a.secret) == 0 {
		return "", errors.New("JWT secret not configured")
	}

	now := a.now()
	claims := jwt.MapClaims{
		"sub": telegramID,
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": now.Add(tokenTTL).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Verify parses the bearer token and checks that it belongs to the claimed identity.
func (a *JWTAuthenticator) Verify(_ context.Context, creds Credentials) (Identity, error) {
	if creds.BearerToken == "" {
		return Identity{}, models.NewUnauthorizedError("Authorization required")
	}

	token, err := jwt.Parse(creds.BearerToken, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return Identity{}, models.NewUnauthorizedError("Invalid or expired token")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, models.NewUnauthorizedError("Invalid subject claim")
	}

	claimed := strings.TrimSpace(creds.ClaimedTelegramID)
	if claimed != "" && claimed != sub {
		return Identity{}, models.NewUnauthorizedError("Token does not belong to telegram_id")
	}

	return Identity{TelegramID: sub}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) string {
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
