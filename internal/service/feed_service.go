package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/campus360/portal-api/internal/models"
	appErrors "github.com/campus360/portal-api/pkg/errors"
)

type feedNoticeRepository interface {
	ListActive(ctx context.Context, now time.Time) ([]models.Notice, error)
}

type feedAnnouncementRepository interface {
	ListAll(ctx context.Context) ([]models.Announcement, error)
}

type feedEventRepository interface {
	ListUpcoming(ctx context.Context, now time.Time) ([]models.Event, error)
}

type membershipResolver interface {
	RelevantClubs(ctx context.Context, userID string, role models.UserRole) ([]string, error)
}

// FeedService merges notices, announcements and events into one
// chronologically ordered feed. Every call recomputes from source: no
// pagination, no caching. At campus-portal scale that is fine; the first
// optimization at larger scale would be indexed, paginated per-type
// queries before the merge.
type FeedService struct {
	notices       feedNoticeRepository
	announcements feedAnnouncementRepository
	events        feedEventRepository
	membership    membershipResolver
	logger        *zap.Logger

	now func() time.Time
}

// NewFeedService constructs the service.
func NewFeedService(
	notices feedNoticeRepository,
	announcements feedAnnouncementRepository,
	events feedEventRepository,
	membership membershipResolver,
	logger *zap.Logger,
) *FeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedService{
		notices:       notices,
		announcements: announcements,
		events:        events,
		membership:    membership,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// GetFeed returns the merged feed plus the requesting user's relevant
// club ids. The three source fetches and the membership lookup run
// concurrently; if any of them fails the whole call fails, so callers
// never see a partial feed.
func (s *FeedService) GetFeed(ctx context.Context, userID string, role models.UserRole) (*models.FeedResponse, error) {
	now := s.now()

	var (
		notices       []models.Notice
		announcements []models.Announcement
		events        []models.Event
		relevantClubs []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		notices, err = s.notices.ListActive(gctx, now)
		return err
	})
	g.Go(func() error {
		var err error
		announcements, err = s.announcements.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.events.ListUpcoming(gctx, now)
		return err
	})
	g.Go(func() error {
		var err error
		relevantClubs, err = s.membership.RelevantClubs(gctx, userID, role)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feed")
	}

	feed := make([]models.FeedItem, 0, len(notices)+len(announcements)+len(events))
	for _, n := range notices {
		feed = append(feed, models.NoticeFeedItem(n))
	}
	for _, a := range announcements {
		feed = append(feed, models.AnnouncementFeedItem(a))
	}
	for _, e := range events {
		feed = append(feed, models.EventFeedItem(e))
	}

	// Newest first. The stable sort keeps concatenation order for equal
	// sort dates, which keeps test assertions deterministic.
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].SortDate.After(feed[j].SortDate)
	})

	return &models.FeedResponse{Feed: feed, RelevantClubIDs: relevantClubs}, nil
}
