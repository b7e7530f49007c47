package domain

import "time"

// Admin models a portal administrator. Admins have no active flag: they are
// always enactable as long as the record exists.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
