package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus360/portal-api/internal/models"
	appErrors "github.com/campus360/portal-api/pkg/errors"
)

type fakeFeedNotices struct {
	notices []models.Notice
	err     error
	gotNow  time.Time
}

func (f *fakeFeedNotices) ListActive(_ context.Context, now time.Time) ([]models.Notice, error) {
	f.gotNow = now
	return f.notices, f.err
}

type fakeFeedAnnouncements struct {
	announcements []models.Announcement
	err           error
}

func (f *fakeFeedAnnouncements) ListAll(context.Context) ([]models.Announcement, error) {
	return f.announcements, f.err
}

type fakeFeedEvents struct {
	events []models.Event
	err    error
	gotNow time.Time
}

func (f *fakeFeedEvents) ListUpcoming(_ context.Context, now time.Time) ([]models.Event, error) {
	f.gotNow = now
	return f.events, f.err
}

type fakeMembership struct {
	ids []string
	err error
}

func (f *fakeMembership) RelevantClubs(context.Context, string, models.UserRole) ([]string, error) {
	return f.ids, f.err
}

func feedServiceForTest(n *fakeFeedNotices, a *fakeFeedAnnouncements, e *fakeFeedEvents, m *fakeMembership, now time.Time) *FeedService {
	svc := NewFeedService(n, a, e, m, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func TestFeedServiceMergesAndSortsNewestFirst(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return now.AddDate(0, 0, d) }

	notices := &fakeFeedNotices{notices: []models.Notice{
		{ID: "n1", Title: "Exam schedule", CreatedAt: day(-1)},
		{ID: "n2", Title: "Library hours", CreatedAt: day(-5)},
	}}
	announcements := &fakeFeedAnnouncements{announcements: []models.Announcement{
		{ID: "a1", Title: "Auditions", CreatedAt: day(-2)},
	}}
	events := &fakeFeedEvents{events: []models.Event{
		{ID: "e1", Title: "Hackathon", Date: day(3), CreatedAt: day(-10)},
		{ID: "e2", Title: "Concert", Date: day(1)},
	}}
	membership := &fakeMembership{ids: []string{"club-1"}}

	svc := feedServiceForTest(notices, announcements, events, membership, now)

	res, err := svc.GetFeed(context.Background(), "user-1", models.RoleStudent)
	require.NoError(t, err)
	require.Len(t, res.Feed, 5)

	// Events sort by their date, everything else by creation time.
	gotIDs := make([]string, 0, len(res.Feed))
	for _, item := range res.Feed {
		switch item.Type {
		case models.FeedItemNotice:
			gotIDs = append(gotIDs, item.Notice.ID)
		case models.FeedItemAnnouncement:
			gotIDs = append(gotIDs, item.Announcement.ID)
		case models.FeedItemEvent:
			gotIDs = append(gotIDs, item.Event.ID)
		}
	}
	assert.Equal(t, []string{"e1", "e2", "n1", "a1", "n2"}, gotIDs)

	for i := 1; i < len(res.Feed); i++ {
		assert.False(t, res.Feed[i].SortDate.After(res.Feed[i-1].SortDate),
			"feed must be ordered newest first")
	}

	assert.Equal(t, []string{"club-1"}, res.RelevantClubIDs)
	assert.Equal(t, now, notices.gotNow)
	assert.Equal(t, now, events.gotNow)
}

func TestFeedServiceTaggedUnionShape(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := feedServiceForTest(
		&fakeFeedNotices{notices: []models.Notice{{ID: "n1", CreatedAt: now.Add(-time.Hour)}}},
		&fakeFeedAnnouncements{},
		&fakeFeedEvents{events: []models.Event{{ID: "e1", Date: now.Add(time.Hour)}}},
		&fakeMembership{ids: []string{}},
		now,
	)

	res, err := svc.GetFeed(context.Background(), "user-1", models.RoleStudent)
	require.NoError(t, err)
	require.Len(t, res.Feed, 2)

	event := res.Feed[0]
	assert.Equal(t, models.FeedItemEvent, event.Type)
	require.NotNil(t, event.Event)
	assert.Nil(t, event.Notice)
	assert.Nil(t, event.Announcement)
	assert.Equal(t, event.Event.Date, event.SortDate)

	notice := res.Feed[1]
	assert.Equal(t, models.FeedItemNotice, notice.Type)
	require.NotNil(t, notice.Notice)
	assert.Equal(t, notice.Notice.CreatedAt, notice.SortDate)
}

func TestFeedServiceEmptySourcesYieldEmptyFeed(t *testing.T) {
	svc := feedServiceForTest(
		&fakeFeedNotices{},
		&fakeFeedAnnouncements{},
		&fakeFeedEvents{},
		&fakeMembership{ids: []string{}},
		time.Now().UTC(),
	)

	res, err := svc.GetFeed(context.Background(), "user-1", models.RoleStudent)
	require.NoError(t, err)
	assert.NotNil(t, res.Feed)
	assert.Empty(t, res.Feed)
	assert.NotNil(t, res.RelevantClubIDs)
	assert.Empty(t, res.RelevantClubIDs)
}

func TestFeedServiceFailsWholeCallWhenAnySourceFails(t *testing.T) {
	now := time.Now().UTC()
	cases := map[string]struct {
		notices       *fakeFeedNotices
		announcements *fakeFeedAnnouncements
		events        *fakeFeedEvents
		membership    *fakeMembership
	}{
		"notices": {
			notices:       &fakeFeedNotices{err: errors.New("boom")},
			announcements: &fakeFeedAnnouncements{announcements: []models.Announcement{{ID: "a1"}}},
			events:        &fakeFeedEvents{},
			membership:    &fakeMembership{ids: []string{}},
		},
		"events": {
			notices:       &fakeFeedNotices{},
			announcements: &fakeFeedAnnouncements{},
			events:        &fakeFeedEvents{err: errors.New("boom")},
			membership:    &fakeMembership{ids: []string{}},
		},
		"membership": {
			notices:       &fakeFeedNotices{},
			announcements: &fakeFeedAnnouncements{},
			events:        &fakeFeedEvents{},
			membership:    &fakeMembership{err: errors.New("boom")},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := feedServiceForTest(tc.notices, tc.announcements, tc.events, tc.membership, now)

			res, err := svc.GetFeed(context.Background(), "user-1", models.RoleStudent)
			require.Error(t, err)
			assert.Nil(t, res, "no partial feed on failure")

			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
		})
	}
}
