package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus360/portal-api/internal/models"
)

type recordingBroadcaster struct {
	roomEmits []struct {
		room string
		n    models.Notification
	}
	allEmits []models.Notification
}

func (r *recordingBroadcaster) EmitToRoom(roomID string, n models.Notification) {
	r.roomEmits = append(r.roomEmits, struct {
		room string
		n    models.Notification
	}{roomID, n})
}

func (r *recordingBroadcaster) EmitToAll(n models.Notification) {
	r.allEmits = append(r.allEmits, n)
}

func TestNotifierAnnouncementTargetsClubRoom(t *testing.T) {
	b := &recordingBroadcaster{}
	n := NewNotifier(b, nil)

	n.AnnouncementCreated("club-1", "Chess Club", "Weekly meetup")

	require.Len(t, b.roomEmits, 1)
	assert.Empty(t, b.allEmits)
	assert.Equal(t, "club-1", b.roomEmits[0].room)
	assert.Equal(t, "New Announcement: Weekly meetup", b.roomEmits[0].n.Title)
	assert.Equal(t, "Chess Club posted a new Announcement!", b.roomEmits[0].n.Message)
	assert.Equal(t, models.NotificationAnnouncement, b.roomEmits[0].n.Type)
}

func TestNotifierEventTargetsClubRoom(t *testing.T) {
	b := &recordingBroadcaster{}
	n := NewNotifier(b, nil)

	n.EventCreated("club-2", "Drama Society", "Spring play")

	require.Len(t, b.roomEmits, 1)
	assert.Equal(t, "club-2", b.roomEmits[0].room)
	assert.Equal(t, "New Event: Spring play", b.roomEmits[0].n.Title)
	assert.Equal(t, "Drama Society posted a new event!", b.roomEmits[0].n.Message)
	assert.Equal(t, models.NotificationEvent, b.roomEmits[0].n.Type)
}

func TestNotifierUrgentNoticeBroadcastsToAll(t *testing.T) {
	b := &recordingBroadcaster{}
	n := NewNotifier(b, nil)

	n.NoticeCreated(models.NoticeCategoryUrgent, models.RoleClub, "Campus closed")

	require.Len(t, b.allEmits, 1)
	assert.Empty(t, b.roomEmits)
	assert.Equal(t, "New Notice: Campus closed", b.allEmits[0].Title)
	assert.Equal(t, "An important notice has been posted!", b.allEmits[0].Message)
	assert.Equal(t, models.NotificationNotice, b.allEmits[0].Type)
}

func TestNotifierFacultyNoticeBroadcastsToAll(t *testing.T) {
	b := &recordingBroadcaster{}
	n := NewNotifier(b, nil)

	n.NoticeCreated(models.NoticeCategoryGeneral, models.RoleFaculty, "Grading update")

	assert.Len(t, b.allEmits, 1)
}

func TestNotifierOrdinaryNoticeStaysQuiet(t *testing.T) {
	b := &recordingBroadcaster{}
	n := NewNotifier(b, nil)

	n.NoticeCreated(models.NoticeCategoryGeneral, models.RoleClub, "Bake sale")
	n.NoticeCreated(models.NoticeCategorySports, models.RoleAdmin, "Tryouts")

	assert.Empty(t, b.allEmits)
	assert.Empty(t, b.roomEmits)
}
