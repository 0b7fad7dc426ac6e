package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shiftswap/internal/middleware"
	"shiftswap/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// flexibleID accepts an identifier sent either as a JSON string or a JSON number.
// Telegram clients send numeric ids; the API stores them as strings.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or a number")
	}
	*f = flexibleID(n.String())
	return nil
}

func (f flexibleID) String() string {
	return string(f)
}

// Uint parses the identifier as a positive integer.
func (f flexibleID) Uint() (uint, bool) {
	n, err := strconv.ParseUint(string(f), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// respondError writes err with the status its code maps to.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}

// parseBody decodes the JSON body into dst. On failure it writes a 400 JSON
// response and returns errResponseWritten.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// parseRequiredID reads a positive id from a decoded body field. On failure it
// writes a 400 JSON response and returns errResponseWritten.
func parseRequiredID(c *fiber.Ctx, value flexibleID, field string) (uint, error) {
	if value == "" {
		_ = respondError(c, models.NewValidationError(field+" is required"))
		return 0, errResponseWritten
	}
	id, ok := value.Uint()
	if !ok {
		_ = respondError(c, models.NewValidationError("Invalid "+field))
		return 0, errResponseWritten
	}
	return id, nil
}

// verifyIdentity runs the configured authenticator against the claimed
// telegram id and the Authorization header. The verified id is stored in
// locals and in the request context for logging. On failure it writes the
// error response and returns errResponseWritten.
func (s *Server) verifyIdentity(c *fiber.Ctx, claimed string) (string, error) {
	identity, err := s.auth.Verify(c.UserContext(), middleware.Credentials{
		ClaimedTelegramID: claimed,
		BearerToken:       middleware.BearerToken(c),
	})
	if err != nil {
		_ = respondError(c, err)
		return "", errResponseWritten
	}

	if identity.TelegramID != "" {
		c.Locals(middleware.LocalTelegramID, identity.TelegramID)
		c.SetUserContext(middleware.WithTelegramID(c.UserContext(), identity.TelegramID))
	}
	return identity.TelegramID, nil
}

// requireIdentity is verifyIdentity for endpoints that must know the caller.
func (s *Server) requireIdentity(c *fiber.Ctx, claimed string) (string, error) {
	id, err := s.verifyIdentity(c, claimed)
	if err != nil {
		return "", err
	}
	if id == "" {
		_ = respondError(c, models.NewValidationError("telegram_id is required"))
		return "", errResponseWritten
	}
	return id, nil
}
