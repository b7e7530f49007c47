package domain

import "time"

// NotificationKind tags the source category of a feed item.
type NotificationKind string

const (
	NotificationKindMessage  NotificationKind = "message"
	NotificationKindLeave    NotificationKind = "leave"
	NotificationKindActivity NotificationKind = "activity"
)

// NotificationItem is a derived dashboard feed entry. Items are built
// per-request from live records and never persisted.
type NotificationItem struct {
	Kind    NotificationKind `json:"kind"`
	Content string           `json:"content"`
	Time    time.Time        `json:"time"`
	Link    string           `json:"link"`
}
