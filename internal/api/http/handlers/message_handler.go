package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/maxelo/hr-portal/internal/api/dto"
	"github.com/maxelo/hr-portal/internal/auth"
	"github.com/maxelo/hr-portal/internal/service"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

// MessageHandler exposes the messaging surfaces for both roles.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler constructs handler.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Inbox handles GET /employee/messages. Listing the inbox marks it read.
func (h *MessageHandler) Inbox(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	messages, err := h.messages.Inbox(c.UserContext(), principal.ID())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": messages})
}

// Send handles POST /employee/messages.
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	principal, _ := auth.PrincipalFromContext(c)
	message, err := h.messages.SendToEmployee(c.UserContext(), principal.Employee, service.SendInput{
		ReceiverID: req.ReceiverID,
		Subject:    req.Subject,
		Content:    req.Content,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": message})
}

// ContactAdmin handles POST /employee/admin-messages.
func (h *MessageHandler) ContactAdmin(c *fiber.Ctx) error {
	var req dto.AdminContactRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	principal, _ := auth.PrincipalFromContext(c)
	message, err := h.messages.SendToAdminTeam(c.UserContext(), principal.Employee, req.Subject, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": message})
}

// SentToAdmin handles GET /employee/admin-messages.
func (h *MessageHandler) SentToAdmin(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	messages, err := h.messages.SentToAdminTeam(c.UserContext(), principal.ID())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": messages})
}

// AdminQueue handles GET /admin/messages.
func (h *MessageHandler) AdminQueue(c *fiber.Ctx) error {
	messages, err := h.messages.AdminQueue(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": messages})
}

// Respond handles POST /admin/messages/:id/respond.
func (h *MessageHandler) Respond(c *fiber.Ctx) error {
	var req dto.RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	message, err := h.messages.Respond(c.UserContext(), c.Params("id"), req.Response)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": message})
}

// MarkRead handles POST /admin/messages/:id/read.
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.messages.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "marked read"}})
}

// Broadcast handles POST /admin/messages/broadcast.
func (h *MessageHandler) Broadcast(c *fiber.Ctx) error {
	var req dto.BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	principal, _ := auth.PrincipalFromContext(c)
	sent, err := h.messages.Broadcast(c.UserContext(), principal.Admin, req.ReceiverIDs, req.Subject, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"sent": sent}})
}
