package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/maxelo/hr-portal/internal/api/dto"
	"github.com/maxelo/hr-portal/internal/service"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

// EmployeeHandler exposes admin-side roster management.
type EmployeeHandler struct {
	employees *service.EmployeeService
}

// NewEmployeeHandler constructs handler.
func NewEmployeeHandler(employees *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// List handles GET /admin/employees.
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	employees, err := h.employees.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employees})
}

// Get handles GET /admin/employees/:id.
func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	employee, err := h.employees.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employee})
}

// Create handles POST /admin/employees.
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	hireDate, err := dto.ParseOptionalDate("hire_date", req.HireDate)
	if err != nil {
		return err
	}

	employee, err := h.employees.Create(c.UserContext(), service.CreateEmployeeInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Department: req.Department,
		Position:   req.Position,
		HireDate:   hireDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": employee})
}

// Update handles PUT /admin/employees/:id.
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	hireDate, err := dto.ParseOptionalDate("hire_date", req.HireDate)
	if err != nil {
		return err
	}

	employee, err := h.employees.Update(c.UserContext(), c.Params("id"), service.UpdateEmployeeInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Department: req.Department,
		Position:   req.Position,
		HireDate:   hireDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employee})
}

// ToggleActive handles POST /admin/employees/:id/toggle-active.
func (h *EmployeeHandler) ToggleActive(c *fiber.Ctx) error {
	employee, err := h.employees.ToggleActive(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employee})
}

// Delete handles DELETE /admin/employees/:id.
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	if err := h.employees.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "employee deleted"}})
}
