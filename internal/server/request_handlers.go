package server

import (
	"github.com/gofiber/fiber/v2"
)

type shiftRequestRequest struct {
	ShiftID    flexibleID `json:"shift_id"`
	TelegramID flexibleID `json:"telegram_id"`
}

type decisionRequest struct {
	RequestID  flexibleID `json:"request_id"`
	TelegramID flexibleID `json:"telegram_id"`
}

// RequestShift godoc
// @Summary Request to take over a shift
// @Tags requests
// @Accept json
// @Produce json
// @Param request body shiftRequestRequest true "Request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /shift/request [post]
func (s *Server) RequestShift(c *fiber.Ctx) error {
	var req shiftRequestRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	shiftID, err := parseRequiredID(c, req.ShiftID, "shift_id")
	if err != nil {
		return nil
	}
	requester, err := s.requireIdentity(c, req.TelegramID.String())
	if err != nil {
		return nil
	}

	created, err := s.requestService.SubmitRequest(c.UserContext(), shiftID, requester)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"request_id": created.ID,
	})
}

// GetShiftRequests godoc
// @Summary List requests on the caller's shifts
// @Tags requests
// @Produce json
// @Param telegram_id query string true "Shift owner"
// @Success 200 {array} models.RequestView
// @Router /shift/requests [get]
func (s *Server) GetShiftRequests(c *fiber.Ctx) error {
	owner, err := s.requireIdentity(c, c.Query("telegram_id"))
	if err != nil {
		return nil
	}

	views, err := s.requestService.ListRequestsForOwner(c.UserContext(), owner)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(views)
}

// GetMyRequests godoc
// @Summary List requests submitted by the caller
// @Tags requests
// @Produce json
// @Param telegram_id query string true "Requester"
// @Success 200 {array} models.RequestView
// @Router /shift/my-requests [get]
func (s *Server) GetMyRequests(c *fiber.Ctx) error {
	requester, err := s.requireIdentity(c, c.Query("telegram_id"))
	if err != nil {
		return nil
	}

	views, err := s.requestService.ListRequestsByRequester(c.UserContext(), requester)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(views)
}

// ApproveRequest godoc
// @Summary Approve a request
// @Description Rejects competing pending requests and closes the shift in one transaction.
// @Tags requests
// @Accept json
// @Produce json
// @Param request body decisionRequest true "Decision"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /shift/approve [post]
func (s *Server) ApproveRequest(c *fiber.Ctx) error {
	var req decisionRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	requestID, err := parseRequiredID(c, req.RequestID, "request_id")
	if err != nil {
		return nil
	}
	actor, err := s.verifyIdentity(c, req.TelegramID.String())
	if err != nil {
		return nil
	}

	if _, err := s.approvalService.Approve(c.UserContext(), requestID, actor); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// RejectRequest godoc
// @Summary Reject a request
// @Tags requests
// @Accept json
// @Produce json
// @Param request body decisionRequest true "Decision"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /shift/reject [post]
func (s *Server) RejectRequest(c *fiber.Ctx) error {
	var req decisionRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	requestID, err := parseRequiredID(c, req.RequestID, "request_id")
	if err != nil {
		return nil
	}
	actor, err := s.verifyIdentity(c, req.TelegramID.String())
	if err != nil {
		return nil
	}

	if _, err := s.approvalService.Reject(c.UserContext(), requestID, actor); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
