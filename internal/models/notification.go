package models

// NotificationType mirrors the feed item discriminant on realtime pushes.
type NotificationType string

const (
	NotificationAnnouncement NotificationType = "announcement"
	NotificationEvent        NotificationType = "event"
	NotificationNotice       NotificationType = "notice"
)

// Notification is the payload pushed to connected sockets. Delivery is
// best-effort and at-most-once: nothing is queued or persisted.
type Notification struct {
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
}
