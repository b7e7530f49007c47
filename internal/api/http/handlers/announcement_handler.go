package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/maxelo/hr-portal/internal/api/dto"
	"github.com/maxelo/hr-portal/internal/auth"
	"github.com/maxelo/hr-portal/internal/service"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

// AnnouncementHandler exposes admin management of company notices.
type AnnouncementHandler struct {
	announcements *service.AnnouncementService
}

// NewAnnouncementHandler constructs handler.
func NewAnnouncementHandler(announcements *service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements}
}

// Create handles POST /admin/announcements.
func (h *AnnouncementHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	principal, _ := auth.PrincipalFromContext(c)
	announcement, err := h.announcements.Create(c.UserContext(), principal.ID(), req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": announcement})
}

// SetActive handles PUT /admin/announcements/:id/active.
func (h *AnnouncementHandler) SetActive(c *fiber.Ctx) error {
	var req dto.SetAnnouncementActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.announcements.SetActive(c.UserContext(), c.Params("id"), req.Active); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "announcement updated"}})
}

// ListAll handles GET /admin/announcements.
func (h *AnnouncementHandler) ListAll(c *fiber.Ctx) error {
	announcements, err := h.announcements.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": announcements})
}
