package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/maxelo/hr-portal/internal/domain"
	"github.com/maxelo/hr-portal/internal/events"
	"github.com/maxelo/hr-portal/internal/repository"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

// MessageService handles employee inboxes, peer messaging, broadcasts and
// the employee-to-admin channel.
type MessageService struct {
	messages      repository.MessageRepository
	adminMessages repository.AdminMessageRepository
	employees     repository.EmployeeRepository
	dispatcher    events.Dispatcher
	now           func() time.Time
}

// MessageDependencies lists the message service collaborators.
type MessageDependencies struct {
	MessageRepo      repository.MessageRepository
	AdminMessageRepo repository.AdminMessageRepository
	EmployeeRepo     repository.EmployeeRepository
	Dispatcher       events.Dispatcher
}

// NewMessageService builds the service.
func NewMessageService(deps MessageDependencies) *MessageService {
	return &MessageService{
		messages:      deps.MessageRepo,
		adminMessages: deps.AdminMessageRepo,
		employees:     deps.EmployeeRepo,
		dispatcher:    deps.Dispatcher,
		now:           time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *MessageService) WithClock(now func() time.Time) *MessageService {
	s.now = now
	return s
}

// Inbox returns the employee's messages newest first and marks them read.
// The unread state has already served its purpose (badges and the
// notification feed) once the inbox is opened.
func (s *MessageService) Inbox(ctx context.Context, employeeID string) ([]domain.Message, error) {
	messages, err := s.messages.ListByReceiver(ctx, employeeID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.messages.MarkAllRead(ctx, employeeID); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return messages, nil
}

// SendInput carries a new message.
type SendInput struct {
	ReceiverID string
	Subject    string
	Content    string
}

// SendToEmployee delivers a message from one employee to another.
func (s *MessageService) SendToEmployee(ctx context.Context, sender *domain.Employee, input SendInput) (*domain.Message, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.NewValidationError("message content is required", nil)
	}
	if input.ReceiverID == sender.ID {
		return nil, apperrors.NewValidationError("cannot message yourself", nil)
	}

	receiver, err := s.employees.GetByID(ctx, input.ReceiverID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"id": input.ReceiverID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	if !receiver.Active {
		return nil, apperrors.NewValidationError("receiver is deactivated", nil)
	}

	message := &domain.Message{
		SenderID:   sender.ID,
		SenderName: sender.Name,
		ReceiverID: receiver.ID,
		Subject:    input.Subject,
		Content:    input.Content,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publishSent(ctx, events.Actor{Role: domain.RoleEmployee, ID: sender.ID}, message.ID, receiver.ID, input.Subject, false)
	return message, nil
}

// Broadcast sends an admin message to the given employees, or to every
// active employee when no recipients are named. It returns how many copies
// were delivered.
func (s *MessageService) Broadcast(ctx context.Context, admin *domain.Admin, receiverIDs []string, subject, content string) (int, error) {
	if strings.TrimSpace(content) == "" {
		return 0, apperrors.NewValidationError("message content is required", nil)
	}

	var receivers []domain.Employee
	if len(receiverIDs) == 0 {
		all, err := s.employees.ListActive(ctx)
		if err != nil {
			return 0, apperrors.NewInternalError(err)
		}
		receivers = all
	} else {
		for _, id := range receiverIDs {
			employee, err := s.employees.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					continue
				}
				return 0, apperrors.NewInternalError(err)
			}
			if employee.Active {
				receivers = append(receivers, *employee)
			}
		}
	}

	sent := 0
	for _, receiver := range receivers {
		message := &domain.Message{
			SenderID:   admin.ID,
			SenderName: admin.Name,
			ReceiverID: receiver.ID,
			Subject:    subject,
			Content:    content,
		}
		if err := s.messages.Create(ctx, message); err != nil {
			return sent, apperrors.NewInternalError(err)
		}
		s.publishSent(ctx, events.Actor{Role: domain.RoleAdmin, ID: admin.ID}, message.ID, receiver.ID, subject, false)
		sent++
	}
	return sent, nil
}

// SendToAdminTeam files a message from an employee to the admin queue.
func (s *MessageService) SendToAdminTeam(ctx context.Context, sender *domain.Employee, subject, content string) (*domain.AdminMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("message content is required", nil)
	}

	message := &domain.AdminMessage{
		SenderID:   sender.ID,
		SenderName: sender.Name,
		Subject:    subject,
		Content:    content,
	}
	if err := s.adminMessages.Create(ctx, message); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publishSent(ctx, events.Actor{Role: domain.RoleEmployee, ID: sender.ID}, message.ID, "", subject, true)
	return message, nil
}

// SentToAdminTeam returns the employee's own admin-queue messages, with any
// responses, newest first.
func (s *MessageService) SentToAdminTeam(ctx context.Context, employeeID string) ([]domain.AdminMessage, error) {
	messages, err := s.adminMessages.ListBySender(ctx, employeeID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return messages, nil
}

// AdminQueue returns every employee-to-admin message, newest first.
func (s *MessageService) AdminQueue(ctx context.Context) ([]domain.AdminMessage, error) {
	messages, err := s.adminMessages.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return messages, nil
}

// Respond records an admin's answer on a queue message and marks it read.
func (s *MessageService) Respond(ctx context.Context, messageID, response string) (*domain.AdminMessage, error) {
	if strings.TrimSpace(response) == "" {
		return nil, apperrors.NewValidationError("response is required", nil)
	}

	message, err := s.adminMessages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("message", map[string]any{"id": messageID})
		}
		return nil, apperrors.NewInternalError(err)
	}

	respondedAt := s.now()
	if err := s.adminMessages.Respond(ctx, messageID, response, respondedAt); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	message.AdminResponse = response
	message.Read = true
	message.UpdatedAt = respondedAt
	return message, nil
}

// MarkRead flags a queue message as read without answering it.
func (s *MessageService) MarkRead(ctx context.Context, messageID string) error {
	if _, err := s.adminMessages.GetByID(ctx, messageID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("message", map[string]any{"id": messageID})
		}
		return apperrors.NewInternalError(err)
	}
	if err := s.adminMessages.MarkRead(ctx, messageID, s.now()); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *MessageService) publishSent(ctx context.Context, actor events.Actor, messageID, receiverID, subject string, toAdminTeam bool) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventMessageSent,
		Actor:     actor,
		Timestamp: s.now(),
		Payload: events.MessageSentPayload{
			MessageID:   messageID,
			ReceiverID:  receiverID,
			Subject:     subject,
			ToAdminTeam: toAdminTeam,
		},
	})
}
