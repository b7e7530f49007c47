package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maxelo/hr-portal/internal/domain"
	"github.com/maxelo/hr-portal/internal/repository"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

var todoPriorities = map[domain.TodoPriority]struct{}{
	domain.TodoPriorityLow:    {},
	domain.TodoPriorityMedium: {},
	domain.TodoPriorityHigh:   {},
}

// TodoService handles personal task lists and admin task assignment.
type TodoService struct {
	todos      repository.TodoRepository
	adminTodos repository.AdminTodoRepository
	employees  repository.EmployeeRepository
	now        func() time.Time
}

// NewTodoService builds the service.
func NewTodoService(todos repository.TodoRepository, adminTodos repository.AdminTodoRepository, employees repository.EmployeeRepository) *TodoService {
	return &TodoService{todos: todos, adminTodos: adminTodos, employees: employees, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (s *TodoService) WithClock(now func() time.Time) *TodoService {
	s.now = now
	return s
}

// AddTodoInput carries a new personal task.
type AddTodoInput struct {
	Content  string
	Priority domain.TodoPriority
	DueDate  *time.Time
}

// Add creates a task on the employee's own list.
func (s *TodoService) Add(ctx context.Context, employeeID string, input AddTodoInput) (*domain.Todo, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.NewValidationError("todo content is required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TodoPriorityMedium
	}
	if _, ok := todoPriorities[priority]; !ok {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": string(priority)})
	}
	if input.DueDate != nil && startOfDay(*input.DueDate).Before(startOfDay(s.now())) {
		return nil, apperrors.NewValidationError("due date must not be in the past", nil)
	}

	todo := &domain.Todo{
		EmployeeID: employeeID,
		Content:    input.Content,
		Priority:   priority,
		DueDate:    input.DueDate,
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return todo, nil
}

// ListOwn returns the employee's tasks, pending first.
func (s *TodoService) ListOwn(ctx context.Context, employeeID string) ([]domain.Todo, error) {
	todos, err := s.todos.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return todos, nil
}

// Toggle flips a task's completed flag. Only the owner can toggle.
func (s *TodoService) Toggle(ctx context.Context, employeeID, todoID string) (*domain.Todo, error) {
	todo, err := s.todos.GetByIDForEmployee(ctx, todoID, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("todo", map[string]any{"id": todoID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	todo.Completed = !todo.Completed
	if err := s.todos.SetCompleted(ctx, todoID, todo.Completed); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return todo, nil
}

// Delete removes a task from the employee's own list.
func (s *TodoService) Delete(ctx context.Context, employeeID, todoID string) error {
	if _, err := s.todos.GetByIDForEmployee(ctx, todoID, employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("todo", map[string]any{"id": todoID})
		}
		return apperrors.NewInternalError(err)
	}
	if err := s.todos.Delete(ctx, todoID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// Assign hands a task from an admin to an employee. The task lands on the
// employee's list with a marker prefix, and the assignment itself is kept
// for the admin's audit view.
func (s *TodoService) Assign(ctx context.Context, adminID, employeeID string, input AddTodoInput) (*domain.AdminAssignedTodo, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.NewValidationError("todo content is required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TodoPriorityMedium
	}
	if _, ok := todoPriorities[priority]; !ok {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": string(priority)})
	}

	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"id": employeeID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	if !employee.Active {
		return nil, apperrors.NewValidationError("employee is deactivated", nil)
	}

	assignment := &domain.AdminAssignedTodo{
		AdminID:    adminID,
		EmployeeID: employee.ID,
		Content:    input.Content,
		Priority:   priority,
		DueDate:    input.DueDate,
	}
	if err := s.adminTodos.Create(ctx, assignment); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	todo := &domain.Todo{
		EmployeeID: employee.ID,
		Content:    "[From Admin] " + input.Content,
		Priority:   priority,
		DueDate:    input.DueDate,
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return assignment, nil
}

// ListAssignments returns every admin-assigned task, newest first.
func (s *TodoService) ListAssignments(ctx context.Context) ([]domain.AdminAssignedTodo, error) {
	assignments, err := s.adminTodos.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return assignments, nil
}
