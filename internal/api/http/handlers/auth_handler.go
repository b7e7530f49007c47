package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/maxelo/hr-portal/internal/api/dto"
	"github.com/maxelo/hr-portal/internal/auth"
	"github.com/maxelo/hr-portal/internal/domain"
	"github.com/maxelo/hr-portal/internal/observability"
	"github.com/maxelo/hr-portal/internal/service"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

// recoveryAccepted is the fixed answer for both outcomes of the forgot
// endpoint, so responses cannot reveal whether an account exists.
const recoveryAccepted = "If the account exists, reset instructions have been sent"

// AuthHandler exposes login, logout and password recovery.
type AuthHandler struct {
	sessions   *auth.SessionManager
	authSvc    *service.AuthService
	middleware *auth.SessionMiddleware
}

// NewAuthHandler constructs handler.
func NewAuthHandler(sessions *auth.SessionManager, authSvc *service.AuthService, middleware *auth.SessionMiddleware) *AuthHandler {
	return &AuthHandler{sessions: sessions, authSvc: authSvc, middleware: middleware}
}

// EmployeeLogin handles POST /auth/employee/login.
func (h *AuthHandler) EmployeeLogin(c *fiber.Ctx) error {
	return h.login(c, domain.RoleEmployee)
}

// AdminLogin handles POST /auth/admin/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	return h.login(c, domain.RoleAdmin)
}

func (h *AuthHandler) login(c *fiber.Ctx, role domain.Role) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	principal, session, err := h.sessions.Login(c.UserContext(), req.Email, req.Password, role, req.Remember, h.middleware.SessionID(c))
	if err != nil {
		observability.LoginsTotal.WithLabelValues(string(role), "failure").Inc()
		return err
	}
	observability.LoginsTotal.WithLabelValues(string(role), "success").Inc()

	h.middleware.SetCookie(c, session)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"principal": fiber.Map{
				"id":    principal.ID(),
				"name":  principal.DisplayName(),
				"email": principal.Email(),
				"role":  principal.Role,
			},
			"session": fiber.Map{
				"permanent":  session.Permanent,
				"expires_at": session.ExpiresAt,
			},
		},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if session, ok := auth.SessionFromContext(c); ok {
		if err := h.sessions.Destroy(c.UserContext(), session.ID); err != nil {
			return err
		}
	}
	h.middleware.ClearCookie(c)
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "logged out"}})
}

// ForgotPassword handles POST /auth/password/forgot.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.authSvc.IssueResetToken(c.UserContext(), req.Email, req.EmployeeID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": recoveryAccepted}})
}

// ResetPassword handles POST /auth/password/reset.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.authSvc.RedeemResetToken(c.UserContext(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"data": fiber.Map{"message": "password updated, please log in"}})
}
