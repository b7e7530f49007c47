package dto

// CreateAnnouncementRequest payload for a new notice.
type CreateAnnouncementRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=5000"`
}

// SetAnnouncementActiveRequest shows or hides a notice.
type SetAnnouncementActiveRequest struct {
	Active bool `json:"active"`
}
