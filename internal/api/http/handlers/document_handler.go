package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/maxelo/hr-portal/internal/auth"
	"github.com/maxelo/hr-portal/internal/service"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

// DocumentHandler exposes the document registry. The registry tracks
// metadata only; uploads arrive as multipart forms but their bytes are not
// persisted here.
type DocumentHandler struct {
	documents *service.DocumentService
}

// NewDocumentHandler constructs handler.
func NewDocumentHandler(documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// List handles GET /employee/documents.
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	documents, err := h.documents.ListOwn(c.UserContext(), principal.ID())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": documents})
}

// Register handles POST /employee/documents.
func (h *DocumentHandler) Register(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	return h.register(c, principal.ID(), nil)
}

// RegisterForEmployee handles POST /admin/employees/:id/documents.
func (h *DocumentHandler) RegisterForEmployee(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	adminID := principal.ID()
	return h.register(c, c.Params("id"), &adminID)
}

func (h *DocumentHandler) register(c *fiber.Ctx, employeeID string, adminID *string) error {
	file, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file is required", nil)
	}

	input := service.RegisterInput{
		OriginalFilename: file.Filename,
		FileSize:         file.Size,
		Description:      c.FormValue("description"),
	}

	if adminID != nil {
		document, err := h.documents.RegisterForEmployee(c.UserContext(), *adminID, employeeID, input)
		if err != nil {
			return err
		}
		return c.Status(http.StatusCreated).JSON(fiber.Map{"data": document})
	}

	document, err := h.documents.Register(c.UserContext(), employeeID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": document})
}

// Delete handles DELETE /employee/documents/:id.
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.documents.Delete(c.UserContext(), principal.ID(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "document deleted"}})
}

// ListAll handles GET /admin/documents.
func (h *DocumentHandler) ListAll(c *fiber.Ctx) error {
	documents, err := h.documents.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": documents})
}
