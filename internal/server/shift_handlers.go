package server

import (
	"strconv"

	"shiftswap/internal/models"
	"shiftswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createShiftRequest struct {
	TelegramID flexibleID       `json:"telegram_id"`
	ShiftDate  string           `json:"shift_date"`
	ShiftType  models.ShiftType `json:"shift_type"`
	StartTime  *string          `json:"start_time"`
	EndTime    *string          `json:"end_time"`
}

// GetAvailableShifts godoc
// @Summary List open shifts
// @Description Active shifts plus, unless include_taken=false, shifts already won by an approved request.
// @Tags shifts
// @Produce json
// @Param include_taken query bool false "Include taken shifts (default true)"
// @Success 200 {array} models.ShiftView
// @Router /available-shifts [get]
func (s *Server) GetAvailableShifts(c *fiber.Ctx) error {
	includeTaken := true
	if raw := c.Query("include_taken"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return respondError(c, models.NewValidationError("include_taken must be a boolean"))
		}
		includeTaken = v
	}

	views, err := s.shiftService.ListAvailableShifts(c.UserContext(), includeTaken)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(views)
}

// CreateShift godoc
// @Summary Post a shift for exchange
// @Tags shifts
// @Accept json
// @Produce json
// @Param request body createShiftRequest true "Shift"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Router /shift/create [post]
func (s *Server) CreateShift(c *fiber.Ctx) error {
	var req createShiftRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	owner, err := s.requireIdentity(c, req.TelegramID.String())
	if err != nil {
		return nil
	}

	shift, err := s.shiftService.CreateShift(c.UserContext(), service.CreateShiftInput{
		OwnerID:   owner,
		Date:      req.ShiftDate,
		Type:      req.ShiftType,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"shift_id": shift.ID,
	})
}
