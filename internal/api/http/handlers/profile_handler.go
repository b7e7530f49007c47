package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maxelo/hr-portal/internal/api/dto"
	"github.com/maxelo/hr-portal/internal/auth"
	"github.com/maxelo/hr-portal/internal/domain"
	"github.com/maxelo/hr-portal/internal/service"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

// ProfileHandler exposes the logged-in principal's own account.
type ProfileHandler struct {
	authSvc *service.AuthService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(authSvc *service.AuthService) *ProfileHandler {
	return &ProfileHandler{authSvc: authSvc}
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	data := fiber.Map{
		"id":    principal.ID(),
		"name":  principal.DisplayName(),
		"email": principal.Email(),
		"role":  principal.Role,
	}
	if principal.Role == domain.RoleEmployee {
		employee := principal.Employee
		data["phone"] = employee.Phone
		data["department"] = employee.Department
		data["position"] = employee.Position
		data["hire_date"] = employee.HireDate
		data["last_login"] = employee.LastLogin
	}
	return c.JSON(fiber.Map{"data": data})
}

// Update handles PUT /profile.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	principal, _ := auth.PrincipalFromContext(c)
	err := h.authSvc.UpdateProfile(c.UserContext(), principal, service.ProfileUpdate{
		Name:            req.Name,
		Phone:           req.Phone,
		Department:      req.Department,
		Position:        req.Position,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "profile updated"}})
}

// ChangePassword handles POST /profile/password.
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	principal, _ := auth.PrincipalFromContext(c)
	if err := h.authSvc.ChangePassword(c.UserContext(), principal, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "password updated"}})
}
