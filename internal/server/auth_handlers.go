package server

import (
	"shiftswap/internal/middleware"
	"shiftswap/internal/models"
	"shiftswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

type authRequest struct {
	TelegramID flexibleID `json:"telegram_id"`
	LDAP       string     `json:"ldap"`
	FirstName  string     `json:"first_name"`
	Username   *string    `json:"username"`
}

// Authenticate godoc
// @Summary Register or refresh a user
// @Description Links a Telegram account to an LDAP login. Issues a bearer token when AUTH_MODE=jwt.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body authRequest true "Identity"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Router /auth [post]
func (s *Server) Authenticate(c *fiber.Ctx) error {
	var req authRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.Authenticate(c.UserContext(), service.AuthInput{
		TelegramID: req.TelegramID.String(),
		LDAP:       req.LDAP,
		FirstName:  req.FirstName,
		Username:   req.Username,
	})
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{
		"success": true,
		"user_id": user.TelegramID,
	}

	if issuer, ok := s.auth.(middleware.TokenIssuer); ok {
		token, err := issuer.IssueToken(user.TelegramID)
		if err != nil {
			return respondError(c, models.NewInternalError(err))
		}
		resp["token"] = token
	}

	return c.JSON(resp)
}
