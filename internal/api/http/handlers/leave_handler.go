package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/maxelo/hr-portal/internal/api/dto"
	"github.com/maxelo/hr-portal/internal/auth"
	"github.com/maxelo/hr-portal/internal/domain"
	"github.com/maxelo/hr-portal/internal/service"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

// LeaveHandler exposes leave requests for both roles.
type LeaveHandler struct {
	leaves *service.LeaveService
}

// NewLeaveHandler constructs handler.
func NewLeaveHandler(leaves *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaves: leaves}
}

// Submit handles POST /employee/leave.
func (h *LeaveHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitLeaveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	start, err := dto.ParseDate("start_date", req.StartDate)
	if err != nil {
		return err
	}
	end, err := dto.ParseDate("end_date", req.EndDate)
	if err != nil {
		return err
	}

	principal, _ := auth.PrincipalFromContext(c)
	leave, err := h.leaves.Submit(c.UserContext(), principal.ID(), service.SubmitLeaveInput{
		Type:      domain.LeaveType(req.Type),
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": leave})
}

// ListOwn handles GET /employee/leave.
func (h *LeaveHandler) ListOwn(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	leaves, err := h.leaves.ListOwn(c.UserContext(), principal.ID())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": leaves})
}

// ListAll handles GET /admin/leave-requests.
func (h *LeaveHandler) ListAll(c *fiber.Ctx) error {
	leaves, err := h.leaves.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": leaves})
}

// Decide handles PUT /admin/leave-requests/:id.
func (h *LeaveHandler) Decide(c *fiber.Ctx) error {
	var req dto.DecideLeaveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	principal, _ := auth.PrincipalFromContext(c)
	leave, err := h.leaves.Decide(c.UserContext(), principal.ID(), c.Params("id"), domain.LeaveStatus(req.Status), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": leave})
}
