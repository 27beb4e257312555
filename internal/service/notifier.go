package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/campus360/portal-api/internal/models"
	"github.com/campus360/portal-api/internal/realtime"
)

// Notifier owns the trigger rules for realtime notifications. Write
// handlers call it synchronously after a successful insert; delivery
// itself is best-effort and never reported back to the writer.
type Notifier struct {
	broadcaster realtime.Broadcaster
	logger      *zap.Logger
}

// NewNotifier constructs a notifier over the given broadcaster.
func NewNotifier(broadcaster realtime.Broadcaster, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{broadcaster: broadcaster, logger: logger}
}

// AnnouncementCreated notifies the owning club's room.
func (n *Notifier) AnnouncementCreated(clubID, clubName, title string) {
	if n.broadcaster == nil {
		return
	}
	n.broadcaster.EmitToRoom(clubID, models.Notification{
		Title:   fmt.Sprintf("New Announcement: %s", title),
		Message: fmt.Sprintf("%s posted a new Announcement!", clubName),
		Type:    models.NotificationAnnouncement,
	})
}

// EventCreated notifies the owning club's room.
func (n *Notifier) EventCreated(clubID, clubName, title string) {
	if n.broadcaster == nil {
		return
	}
	n.broadcaster.EmitToRoom(clubID, models.Notification{
		Title:   fmt.Sprintf("New Event: %s", title),
		Message: fmt.Sprintf("%s posted a new event!", clubName),
		Type:    models.NotificationEvent,
	})
}

// NoticeCreated notifies everyone when the notice is urgent or authored
// by faculty. Anything else stays quiet and surfaces on the next feed
// poll instead.
func (n *Notifier) NoticeCreated(category models.NoticeCategory, authorRole models.UserRole, title string) {
	if n.broadcaster == nil {
		return
	}
	if category != models.NoticeCategoryUrgent && authorRole != models.RoleFaculty {
		return
	}
	n.broadcaster.EmitToAll(models.Notification{
		Title:   fmt.Sprintf("New Notice: %s", title),
		Message: "An important notice has been posted!",
		Type:    models.NotificationNotice,
	})
}
