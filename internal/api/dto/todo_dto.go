package dto

// AddTodoRequest payload for a new personal task.
type AddTodoRequest struct {
	Content  string `json:"content" validate:"required,max=500"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate  string `json:"due_date"`
}

// AssignTodoRequest payload for an admin task assignment.
type AssignTodoRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Content    string `json:"content" validate:"required,max=500"`
	Priority   string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate    string `json:"due_date"`
}
