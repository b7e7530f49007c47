package events

import (
	"time"

	"github.com/maxelo/hr-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeaveSubmitted         EventType = "leave_submitted"
	EventLeaveDecided           EventType = "leave_decided"
	EventMessageSent            EventType = "message_sent"
	EventEmployeeCreated        EventType = "employee_created"
	EventPasswordResetRequested EventType = "password_reset_requested"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role domain.Role `json:"role"`
	ID   string      `json:"id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LeaveSubmittedPayload payload.
type LeaveSubmittedPayload struct {
	LeaveID    string           `json:"leave_id"`
	EmployeeID string           `json:"employee_id"`
	Type       domain.LeaveType `json:"type"`
}

// LeaveDecidedPayload payload.
type LeaveDecidedPayload struct {
	LeaveID    string             `json:"leave_id"`
	EmployeeID string             `json:"employee_id"`
	Status     domain.LeaveStatus `json:"status"`
}

// MessageSentPayload payload.
type MessageSentPayload struct {
	MessageID   string `json:"message_id"`
	ReceiverID  string `json:"receiver_id"`
	Subject     string `json:"subject"`
	ToAdminTeam bool   `json:"to_admin_team"`
}

// EmployeeCreatedPayload payload.
type EmployeeCreatedPayload struct {
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
}

// PasswordResetRequestedPayload payload. The token is carried so the mail
// stub can log the simulated reset link; it never reaches a real outbox.
type PasswordResetRequestedPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	Token string      `json:"-"`
}
