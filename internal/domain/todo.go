package domain

import "time"

// TodoPriority orders tasks within a day.
type TodoPriority string

const (
	TodoPriorityLow    TodoPriority = "low"
	TodoPriorityMedium TodoPriority = "medium"
	TodoPriorityHigh   TodoPriority = "high"
)

// Todo is a task on an employee's personal list.
type Todo struct {
	ID         string
	EmployeeID string
	Content    string
	Priority   TodoPriority
	DueDate    *time.Time
	Completed  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AdminAssignedTodo records a task an admin handed to an employee. Assigning
// one also creates a regular Todo on the employee's list.
type AdminAssignedTodo struct {
	ID         string
	AdminID    string
	EmployeeID string
	Content    string
	Priority   TodoPriority
	DueDate    *time.Time
	CreatedAt  time.Time
}
