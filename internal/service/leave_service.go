package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/maxelo/hr-portal/internal/domain"
	"github.com/maxelo/hr-portal/internal/events"
	"github.com/maxelo/hr-portal/internal/repository"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

var leaveTypes = map[domain.LeaveType]struct{}{
	domain.LeaveTypeAnnual:    {},
	domain.LeaveTypeSick:      {},
	domain.LeaveTypeUnpaid:    {},
	domain.LeaveTypeMaternity: {},
	domain.LeaveTypeFamily:    {},
}

// LeaveService handles leave request submission and admin decisions.
type LeaveService struct {
	leaves     repository.LeaveRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewLeaveService builds the service.
func NewLeaveService(leaves repository.LeaveRepository, dispatcher events.Dispatcher) *LeaveService {
	return &LeaveService{leaves: leaves, dispatcher: dispatcher, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (s *LeaveService) WithClock(now func() time.Time) *LeaveService {
	s.now = now
	return s
}

// SubmitLeaveInput carries a new leave request.
type SubmitLeaveInput struct {
	Type      domain.LeaveType
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// Submit records a new pending leave request for the employee.
func (s *LeaveService) Submit(ctx context.Context, employeeID string, input SubmitLeaveInput) (*domain.LeaveRequest, error) {
	if _, ok := leaveTypes[input.Type]; !ok {
		return nil, apperrors.NewValidationError("unknown leave type", map[string]any{"type": string(input.Type)})
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, apperrors.NewValidationError("end date must not be before start date", nil)
	}
	if startOfDay(input.StartDate).Before(startOfDay(s.now())) {
		return nil, apperrors.NewValidationError("start date must not be in the past", nil)
	}

	leave := &domain.LeaveRequest{
		EmployeeID: employeeID,
		Type:       input.Type,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Reason:     input.Reason,
		Status:     domain.LeaveStatusPending,
	}
	if err := s.leaves.Create(ctx, leave); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventLeaveSubmitted,
		Actor:     events.Actor{Role: domain.RoleEmployee, ID: employeeID},
		Timestamp: s.now(),
		Payload: events.LeaveSubmittedPayload{
			LeaveID:    leave.ID,
			EmployeeID: employeeID,
			Type:       leave.Type,
		},
	})
	return leave, nil
}

// ListOwn returns the employee's leave history, newest first.
func (s *LeaveService) ListOwn(ctx context.Context, employeeID string) ([]domain.LeaveRequest, error) {
	leaves, err := s.leaves.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return leaves, nil
}

// ListAll returns every leave request for admin review.
func (s *LeaveService) ListAll(ctx context.Context) ([]domain.LeaveRequest, error) {
	leaves, err := s.leaves.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return leaves, nil
}

// Decide resolves a pending leave request. Requests already decided stay as
// they are.
func (s *LeaveService) Decide(ctx context.Context, adminID, leaveID string, status domain.LeaveStatus, notes string) (*domain.LeaveRequest, error) {
	if !status.Terminal() {
		return nil, apperrors.NewValidationError("decision must be approved or rejected", map[string]any{"status": string(status)})
	}

	leave, err := s.leaves.GetByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("leave request", map[string]any{"id": leaveID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	if leave.Status.Terminal() {
		return nil, apperrors.NewConflict("leave request already decided", map[string]any{"status": string(leave.Status)})
	}

	decidedAt := s.now()
	if err := s.leaves.UpdateDecision(ctx, leaveID, status, notes, decidedAt); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	leave.Status = status
	leave.AdminNotes = notes
	leave.UpdatedAt = decidedAt

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventLeaveDecided,
		Actor:     events.Actor{Role: domain.RoleAdmin, ID: adminID},
		Timestamp: decidedAt,
		Payload: events.LeaveDecidedPayload{
			LeaveID:    leave.ID,
			EmployeeID: leave.EmployeeID,
			Status:     status,
		},
	})
	return leave, nil
}

func (s *LeaveService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, event)
	}
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
