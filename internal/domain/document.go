package domain

import "time"

// Document is metadata about an uploaded file. Actual file storage lives
// behind a separate collaborator; the portal only tracks the registry.
type Document struct {
	ID               string
	EmployeeID       string
	Filename         string
	OriginalFilename string
	FilePath         string
	FileSize         int64
	Description      string
	UploadedByAdmin  bool
	AdminID          *string
	CreatedAt        time.Time
}
