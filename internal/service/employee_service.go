package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/maxelo/hr-portal/internal/auth"
	"github.com/maxelo/hr-portal/internal/config"
	"github.com/maxelo/hr-portal/internal/domain"
	"github.com/maxelo/hr-portal/internal/events"
	"github.com/maxelo/hr-portal/internal/repository"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

// EmployeeService is the admin-side employee roster management.
type EmployeeService struct {
	employees  repository.EmployeeRepository
	dispatcher events.Dispatcher
	bcryptCost int
	minPwLen   int
	now        func() time.Time
}

// NewEmployeeService builds the service.
func NewEmployeeService(cfg config.AuthConfig, employees repository.EmployeeRepository, dispatcher events.Dispatcher) *EmployeeService {
	return &EmployeeService{
		employees:  employees,
		dispatcher: dispatcher,
		bcryptCost: cfg.BcryptCost,
		minPwLen:   cfg.PasswordMinLength,
		now:        time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *EmployeeService) WithClock(now func() time.Time) *EmployeeService {
	s.now = now
	return s
}

// List returns the full roster.
func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return employees, nil
}

// Get returns one employee.
func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return employee, nil
}

// CreateEmployeeInput carries a new roster entry.
type CreateEmployeeInput struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	Department string
	Position   string
	HireDate   *time.Time
}

// Create adds an employee to the roster.
func (s *EmployeeService) Create(ctx context.Context, input CreateEmployeeInput) (*domain.Employee, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name and email are required", nil)
	}
	if len(input.Password) < s.minLen() {
		return nil, apperrors.NewPasswordPolicyViolation()
	}

	if _, err := s.employees.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	employee := &domain.Employee{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Department:   input.Department,
		Position:     input.Position,
		HireDate:     input.HireDate,
		Active:       true,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		// The lookup above races concurrent creates; the unique constraint
		// is the authority.
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
		return nil, apperrors.NewInternalError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventEmployeeCreated,
			Actor:     events.Actor{Role: domain.RoleAdmin},
			Timestamp: s.now(),
			Payload:   events.EmployeeCreatedPayload{EmployeeID: employee.ID, Email: email},
		})
	}
	return employee, nil
}

// UpdateEmployeeInput carries roster edits; empty fields keep their value.
type UpdateEmployeeInput struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	Department string
	Position   string
	HireDate   *time.Time
}

// Update edits an existing employee.
func (s *EmployeeService) Update(ctx context.Context, id string, input UpdateEmployeeInput) (*domain.Employee, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		employee.Name = input.Name
	}
	if input.Email != "" {
		email := strings.ToLower(strings.TrimSpace(input.Email))
		if email != employee.Email {
			if _, err := s.employees.GetByEmail(ctx, email); err == nil {
				return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
			} else if !errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewInternalError(err)
			}
			employee.Email = email
		}
	}
	if input.Password != "" {
		if len(input.Password) < s.minLen() {
			return nil, apperrors.NewPasswordPolicyViolation()
		}
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		employee.PasswordHash = hash
	}
	if input.Phone != "" {
		employee.Phone = input.Phone
	}
	if input.Department != "" {
		employee.Department = input.Department
	}
	if input.Position != "" {
		employee.Position = input.Position
	}
	if input.HireDate != nil {
		employee.HireDate = input.HireDate
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": employee.Email})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return employee, nil
}

// isUniqueViolation reports whether err is a postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ToggleActive flips an employee's active flag. A live session of a
// deactivated employee is rejected and cleared on its next request.
func (s *EmployeeService) ToggleActive(ctx context.Context, id string) (*domain.Employee, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	employee.Active = !employee.Active
	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return employee, nil
}

// Delete removes an employee from the roster.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *EmployeeService) minLen() int {
	if s.minPwLen <= 0 {
		return 6
	}
	return s.minPwLen
}
