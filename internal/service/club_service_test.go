package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus360/portal-api/internal/models"
	appErrors "github.com/campus360/portal-api/pkg/errors"
)

type fakeClubRepo struct {
	clubs       map[string]*models.Club
	byRep       map[string]*models.Club
	byName      map[string]*models.Club
	coordinated []models.Club
	listCalls   int
	created     *models.Club
	deleted     []string
}

func (f *fakeClubRepo) Create(_ context.Context, club *models.Club) error {
	club.ID = "club-new"
	f.created = club
	return nil
}

func (f *fakeClubRepo) List(context.Context) ([]models.Club, error) {
	f.listCalls++
	out := make([]models.Club, 0, len(f.clubs))
	for _, c := range f.clubs {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeClubRepo) GetByID(_ context.Context, id string) (*models.Club, error) {
	if c, ok := f.clubs[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeClubRepo) FindByName(_ context.Context, name string) (*models.Club, error) {
	if c, ok := f.byName[name]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeClubRepo) FindByRepresentative(_ context.Context, userID string) (*models.Club, error) {
	if c, ok := f.byRep[userID]; ok {
		return c, nil
	}
	return nil, nil
}

func (f *fakeClubRepo) ListByCoordinator(context.Context, string) ([]models.Club, error) {
	return f.coordinated, nil
}

func (f *fakeClubRepo) CoordinatedClubIDs(context.Context, string) ([]string, error) {
	ids := make([]string, 0, len(f.coordinated))
	for _, c := range f.coordinated {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (f *fakeClubRepo) Update(context.Context, *models.Club) error { return nil }

func (f *fakeClubRepo) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeClubUsers struct {
	followed  map[string][]string
	followers []models.UserSummary
	unfollows []string
}

func (f *fakeClubUsers) FollowClub(_ context.Context, userID, clubID string) error {
	f.followed[userID] = append(f.followed[userID], clubID)
	return nil
}

func (f *fakeClubUsers) UnfollowClub(_ context.Context, userID, clubID string) error {
	f.unfollows = append(f.unfollows, userID+":"+clubID)
	return nil
}

func (f *fakeClubUsers) FollowedClubIDs(_ context.Context, userID string) ([]string, error) {
	return f.followed[userID], nil
}

func (f *fakeClubUsers) ListFollowers(context.Context, string) ([]models.UserSummary, error) {
	return f.followers, nil
}

func (f *fakeClubUsers) CountFollowers(context.Context, string) (int, error) {
	return len(f.followers), nil
}

func (f *fakeClubUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	return &models.User{ID: id}, nil
}

type fakeClubAnnouncements struct {
	announcements []models.Announcement
}

func (f *fakeClubAnnouncements) ListByClub(context.Context, string) ([]models.Announcement, error) {
	return f.announcements, nil
}

func (f *fakeClubAnnouncements) ListByClubs(context.Context, []string) ([]models.Announcement, error) {
	return f.announcements, nil
}

type fakeClubEvents struct {
	events   []models.Event
	gotLimit int
}

func (f *fakeClubEvents) ListUpcomingByClub(_ context.Context, _ string, _ time.Time, limit int) ([]models.Event, error) {
	f.gotLimit = limit
	return f.events, nil
}

func (f *fakeClubEvents) ListByClubs(context.Context, []string) ([]models.Event, error) {
	return f.events, nil
}

type memoryCache struct {
	store   map[string][]byte
	deletes []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = raw
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.deletes = append(m.deletes, k)
		delete(m.store, k)
	}
	return nil
}

func newClubServiceForTest(repo *fakeClubRepo, users *fakeClubUsers, cache *memoryCache) (*ClubService, *fakeClubAnnouncements, *fakeClubEvents) {
	announcements := &fakeClubAnnouncements{}
	events := &fakeClubEvents{}
	var c clubCache
	if cache != nil {
		c = cache
	}
	svc := NewClubService(repo, users, announcements, events, c, 5*time.Minute, nil, nil)
	return svc, announcements, events
}

func TestClubCreateRequiresClubRole(t *testing.T) {
	svc, _, _ := newClubServiceForTest(&fakeClubRepo{byRep: map[string]*models.Club{}, byName: map[string]*models.Club{}}, &fakeClubUsers{followed: map[string][]string{}}, nil)

	_, err := svc.Create(context.Background(), &models.JWTClaims{UserID: "s1", Role: models.RoleStudent}, CreateClubRequest{
		Name: "Chess", Description: "d", MemberCount: 3, Team: []TeamMemberRequest{{Name: "A", Role: "President"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestClubCreateOneClubPerRepresentative(t *testing.T) {
	repo := &fakeClubRepo{
		byRep:  map[string]*models.Club{"rep-1": {ID: "existing"}},
		byName: map[string]*models.Club{},
	}
	svc, _, _ := newClubServiceForTest(repo, &fakeClubUsers{followed: map[string][]string{}}, nil)

	_, err := svc.Create(context.Background(), &models.JWTClaims{UserID: "rep-1", Role: models.RoleClub}, CreateClubRequest{
		Name: "Chess", Description: "d", MemberCount: 3, Team: []TeamMemberRequest{{Name: "A", Role: "President"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestClubCreateUniqueName(t *testing.T) {
	repo := &fakeClubRepo{
		byRep:  map[string]*models.Club{},
		byName: map[string]*models.Club{"Chess": {ID: "other"}},
	}
	svc, _, _ := newClubServiceForTest(repo, &fakeClubUsers{followed: map[string][]string{}}, nil)

	_, err := svc.Create(context.Background(), &models.JWTClaims{UserID: "rep-1", Role: models.RoleClub}, CreateClubRequest{
		Name: "Chess", Description: "d", MemberCount: 3, Team: []TeamMemberRequest{{Name: "A", Role: "President"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestClubCreateInvalidatesDirectoryCache(t *testing.T) {
	repo := &fakeClubRepo{byRep: map[string]*models.Club{}, byName: map[string]*models.Club{}}
	cache := newMemoryCache()
	cache.store[clubListCacheKey] = []byte(`[]`)
	svc, _, _ := newClubServiceForTest(repo, &fakeClubUsers{followed: map[string][]string{}}, cache)

	club, err := svc.Create(context.Background(), &models.JWTClaims{UserID: "rep-1", Role: models.RoleClub}, CreateClubRequest{
		Name: "Chess", Description: "d", MemberCount: 3, Team: []TeamMemberRequest{{Name: "A", Role: "President"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "rep-1", club.RepresentativeID)
	assert.Equal(t, models.ClubCategoryOther, club.Category)
	assert.Contains(t, cache.deletes, clubListCacheKey)
}

func TestClubListServesFromCacheWhenWarm(t *testing.T) {
	repo := &fakeClubRepo{
		clubs:  map[string]*models.Club{"c1": {ID: "c1", Name: "Chess"}},
		byRep:  map[string]*models.Club{},
		byName: map[string]*models.Club{},
	}
	cache := newMemoryCache()
	svc, _, _ := newClubServiceForTest(repo, &fakeClubUsers{followed: map[string][]string{}}, cache)

	first, cached, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, repo.listCalls)

	second, cached, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Len(t, second, 1)
	assert.Equal(t, 1, repo.listCalls, "warm cache must not hit the database")
}

func TestClubFollowReturnsUpdatedSet(t *testing.T) {
	repo := &fakeClubRepo{
		clubs:  map[string]*models.Club{"c1": {ID: "c1", Name: "Chess Club"}},
		byRep:  map[string]*models.Club{},
		byName: map[string]*models.Club{},
	}
	users := &fakeClubUsers{followed: map[string][]string{}}
	svc, _, _ := newClubServiceForTest(repo, users, nil)

	res, err := svc.Follow(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.Contains(t, res.Message, "Chess Club")
	assert.Equal(t, []string{"c1"}, res.FollowedClubs)
}

func TestClubFollowUnknownClub(t *testing.T) {
	svc, _, _ := newClubServiceForTest(&fakeClubRepo{clubs: map[string]*models.Club{}, byRep: map[string]*models.Club{}, byName: map[string]*models.Club{}}, &fakeClubUsers{followed: map[string][]string{}}, nil)

	_, err := svc.Follow(context.Background(), "u1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestMyClubDashboardComposesConcurrently(t *testing.T) {
	club := &models.Club{ID: "c1", Name: "Chess", RepresentativeID: "rep-1"}
	repo := &fakeClubRepo{
		clubs:  map[string]*models.Club{"c1": club},
		byRep:  map[string]*models.Club{"rep-1": club},
		byName: map[string]*models.Club{},
	}
	users := &fakeClubUsers{
		followed:  map[string][]string{},
		followers: []models.UserSummary{{ID: "u1", Name: "Sam"}},
	}
	svc, announcements, events := newClubServiceForTest(repo, users, nil)
	announcements.announcements = []models.Announcement{{ID: "a1"}}
	events.events = []models.Event{{ID: "e1"}}

	dash, err := svc.MyClub(context.Background(), &models.JWTClaims{UserID: "rep-1", Role: models.RoleClub})
	require.NoError(t, err)
	require.NotNil(t, dash)
	assert.Equal(t, "c1", dash.Club.ID)
	assert.Len(t, dash.RecentAnnouncements, 1)
	assert.Len(t, dash.UpcomingEvents, 1)
	assert.Len(t, dash.Followers, 1)
	assert.Equal(t, 5, events.gotLimit)
}

func TestMyClubWithoutClubIsNil(t *testing.T) {
	svc, _, _ := newClubServiceForTest(&fakeClubRepo{byRep: map[string]*models.Club{}, byName: map[string]*models.Club{}}, &fakeClubUsers{followed: map[string][]string{}}, nil)

	dash, err := svc.MyClub(context.Background(), &models.JWTClaims{UserID: "rep-1", Role: models.RoleClub})
	require.NoError(t, err)
	assert.Nil(t, dash)
}

func TestClubDeleteCascadesAndInvalidates(t *testing.T) {
	club := &models.Club{ID: "c1", RepresentativeID: "rep-1"}
	repo := &fakeClubRepo{
		clubs:  map[string]*models.Club{"c1": club},
		byRep:  map[string]*models.Club{"rep-1": club},
		byName: map[string]*models.Club{},
	}
	cache := newMemoryCache()
	svc, _, _ := newClubServiceForTest(repo, &fakeClubUsers{followed: map[string][]string{}}, cache)

	err := svc.Delete(context.Background(), &models.JWTClaims{UserID: "rep-1", Role: models.RoleClub})
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, repo.deleted)
	assert.Contains(t, cache.deletes, clubListCacheKey)
}

func TestCoordinatedViewsRequireFaculty(t *testing.T) {
	svc, _, _ := newClubServiceForTest(&fakeClubRepo{byRep: map[string]*models.Club{}, byName: map[string]*models.Club{}}, &fakeClubUsers{followed: map[string][]string{}}, nil)

	_, err := svc.CoordinatedClubs(context.Background(), &models.JWTClaims{UserID: "s1", Role: models.RoleStudent})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
