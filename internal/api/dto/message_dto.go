package dto

// SendMessageRequest payload for employee-to-employee messages.
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Subject    string `json:"subject" validate:"required,max=200"`
	Content    string `json:"content" validate:"required,max=5000"`
}

// AdminContactRequest payload an employee files to the admin team.
type AdminContactRequest struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=5000"`
}

// BroadcastRequest payload for admin messages to staff. An empty receiver
// list addresses every active employee.
type BroadcastRequest struct {
	ReceiverIDs []string `json:"receiver_ids"`
	Subject     string   `json:"subject" validate:"required,max=200"`
	Content     string   `json:"content" validate:"required,max=5000"`
}

// RespondRequest payload an admin attaches to a queue message.
type RespondRequest struct {
	Response string `json:"response" validate:"required,max=5000"`
}
