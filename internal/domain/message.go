package domain

import "time"

// Message is an internal message delivered to an employee inbox. The sender
// may be another employee or an admin broadcasting to staff.
type Message struct {
	ID         string
	SenderID   string
	SenderName string
	ReceiverID string
	Subject    string
	Content    string
	Read       bool
	CreatedAt  time.Time
}

// AdminMessage is a message an employee sends to the admin team, optionally
// answered in place.
type AdminMessage struct {
	ID            string
	SenderID      string
	SenderName    string
	Subject       string
	Content       string
	AdminResponse string
	Read          bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
