package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetShiftHistory godoc
// @Summary Audit trail for a participant
// @Description Entries where the caller created the shift or requested it, newest first, at most 100.
// @Tags history
// @Produce json
// @Param telegram_id query string true "Participant"
// @Success 200 {array} models.HistoryView
// @Router /shift/history [get]
func (s *Server) GetShiftHistory(c *fiber.Ctx) error {
	participant, err := s.requireIdentity(c, c.Query("telegram_id"))
	if err != nil {
		return nil
	}

	views, err := s.historyService.QueryHistory(c.UserContext(), participant)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(views)
}
