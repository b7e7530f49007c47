package domain

import "time"

// Announcement is a company-wide notice shown on employee dashboards while
// active.
type Announcement struct {
	ID        string
	AdminID   string
	Title     string
	Content   string
	Active    bool
	CreatedAt time.Time
}
