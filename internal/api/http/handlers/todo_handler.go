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

// TodoHandler exposes personal task lists and admin assignment.
type TodoHandler struct {
	todos *service.TodoService
}

// NewTodoHandler constructs handler.
func NewTodoHandler(todos *service.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// List handles GET /employee/todos.
func (h *TodoHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	todos, err := h.todos.ListOwn(c.UserContext(), principal.ID())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": todos})
}

// Add handles POST /employee/todos.
func (h *TodoHandler) Add(c *fiber.Ctx) error {
	var req dto.AddTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	due, err := dto.ParseOptionalDate("due_date", req.DueDate)
	if err != nil {
		return err
	}

	principal, _ := auth.PrincipalFromContext(c)
	todo, err := h.todos.Add(c.UserContext(), principal.ID(), service.AddTodoInput{
		Content:  req.Content,
		Priority: domain.TodoPriority(req.Priority),
		DueDate:  due,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": todo})
}

// Toggle handles POST /employee/todos/:id/toggle.
func (h *TodoHandler) Toggle(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	todo, err := h.todos.Toggle(c.UserContext(), principal.ID(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": todo})
}

// Delete handles DELETE /employee/todos/:id.
func (h *TodoHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.todos.Delete(c.UserContext(), principal.ID(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "todo deleted"}})
}

// Assign handles POST /admin/todos.
func (h *TodoHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	due, err := dto.ParseOptionalDate("due_date", req.DueDate)
	if err != nil {
		return err
	}

	principal, _ := auth.PrincipalFromContext(c)
	assignment, err := h.todos.Assign(c.UserContext(), principal.ID(), req.EmployeeID, service.AddTodoInput{
		Content:  req.Content,
		Priority: domain.TodoPriority(req.Priority),
		DueDate:  due,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": assignment})
}

// ListAssignments handles GET /admin/todos.
func (h *TodoHandler) ListAssignments(c *fiber.Ctx) error {
	assignments, err := h.todos.ListAssignments(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assignments})
}
