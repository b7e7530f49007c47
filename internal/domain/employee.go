package domain

import "time"

// Employee models a staff member managed through the portal.
type Employee struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Department   string
	Position     string
	HireDate     *time.Time
	Active       bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
