package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/campus360/portal-api/internal/models"
	appErrors "github.com/campus360/portal-api/pkg/errors"
)

const clubListCacheKey = "clubs:directory"

type clubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	List(ctx context.Context) ([]models.Club, error)
	GetByID(ctx context.Context, id string) (*models.Club, error)
	FindByName(ctx context.Context, name string) (*models.Club, error)
	FindByRepresentative(ctx context.Context, userID string) (*models.Club, error)
	ListByCoordinator(ctx context.Context, facultyID string) ([]models.Club, error)
	CoordinatedClubIDs(ctx context.Context, facultyID string) ([]string, error)
	Update(ctx context.Context, club *models.Club) error
	Delete(ctx context.Context, id string) error
}

type clubUserRepository interface {
	FollowClub(ctx context.Context, userID, clubID string) error
	UnfollowClub(ctx context.Context, userID, clubID string) error
	FollowedClubIDs(ctx context.Context, userID string) ([]string, error)
	ListFollowers(ctx context.Context, clubID string) ([]models.UserSummary, error)
	CountFollowers(ctx context.Context, clubID string) (int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type clubAnnouncementLister interface {
	ListByClub(ctx context.Context, clubID string) ([]models.Announcement, error)
	ListByClubs(ctx context.Context, clubIDs []string) ([]models.Announcement, error)
}

type clubEventLister interface {
	ListUpcomingByClub(ctx context.Context, clubID string, now time.Time, limit int) ([]models.Event, error)
	ListByClubs(ctx context.Context, clubIDs []string) ([]models.Event, error)
}

type clubCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ClubService handles the club directory, membership edges and the
// representative's dashboard.
type ClubService struct {
	clubs         clubRepository
	users         clubUserRepository
	announcements clubAnnouncementLister
	events        clubEventLister
	cache         clubCache
	cacheTTL      time.Duration
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewClubService constructs the service.
func NewClubService(
	clubs clubRepository,
	users clubUserRepository,
	announcements clubAnnouncementLister,
	events clubEventLister,
	cache clubCache,
	cacheTTL time.Duration,
	validate *validator.Validate,
	logger *zap.Logger,
) *ClubService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClubService{
		clubs:         clubs,
		users:         users,
		announcements: announcements,
		events:        events,
		cache:         cache,
		cacheTTL:      cacheTTL,
		validator:     validate,
		logger:        logger,
	}
}

// TeamMemberRequest is one named position in a club team payload.
type TeamMemberRequest struct {
	Name string `json:"name" validate:"required"`
	Role string `json:"role" validate:"required"`
}

// CreateClubRequest describes the club creation payload.
type CreateClubRequest struct {
	Name               string              `json:"name" validate:"required"`
	Description        string              `json:"description" validate:"required"`
	Category           string              `json:"category"`
	LogoURL            *string             `json:"logo_url"`
	MemberCount        int                 `json:"member_count" validate:"required,gt=0"`
	Team               []TeamMemberRequest `json:"team" validate:"required,min=1,dive"`
	FacultyCoordinator *string             `json:"faculty_coordinator"`
}

// UpdateClubRequest describes the club update payload.
type UpdateClubRequest struct {
	Name               string              `json:"name" validate:"required"`
	Description        string              `json:"description" validate:"required"`
	Category           string              `json:"category"`
	LogoURL            *string             `json:"logo_url"`
	MemberCount        int                 `json:"member_count" validate:"required,gt=0"`
	Team               []TeamMemberRequest `json:"team" validate:"dive"`
	FacultyCoordinator *string             `json:"faculty_coordinator"`
}

// FollowResponse returns the follower's updated club set.
type FollowResponse struct {
	Message       string   `json:"message"`
	FollowedClubs []string `json:"followed_clubs"`
}

// Create registers a new club managed by the calling representative.
func (s *ClubService) Create(ctx context.Context, claims *models.JWTClaims, req CreateClubRequest) (*models.Club, error) {
	if claims.Role != models.RoleClub {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only club representatives can create clubs")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	existing, err := s.clubs.FindByRepresentative(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check representation")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "you already represent a club")
	}

	if _, err := s.clubs.FindByName(ctx, req.Name); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a club with this name already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check club name")
	}

	category := models.ClubCategory(req.Category)
	if category == "" {
		category = models.ClubCategoryOther
	}
	if !models.ValidClubCategory(category) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown club category")
	}

	club := &models.Club{
		Name:                 req.Name,
		Description:          req.Description,
		Category:             category,
		LogoURL:              req.LogoURL,
		MemberCount:          req.MemberCount,
		RepresentativeID:     claims.UserID,
		FacultyCoordinatorID: req.FacultyCoordinator,
		Team:                 teamFromRequest(req.Team),
	}
	if err := s.clubs.Create(ctx, club); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create club")
	}

	s.invalidateDirectory(ctx)
	return club, nil
}

// List returns the club directory, served from cache when warm.
func (s *ClubService) List(ctx context.Context) ([]models.Club, bool, error) {
	if s.cache != nil {
		var cached []models.Club
		if err := s.cache.Get(ctx, clubListCacheKey, &cached); err == nil {
			return cached, true, nil
		}
	}

	clubs, err := s.clubs.List(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list clubs")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, clubListCacheKey, clubs, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache club directory", zap.Error(err))
		}
	}
	return clubs, false, nil
}

// Follow subscribes the user to a club.
func (s *ClubService) Follow(ctx context.Context, userID, clubID string) (*FollowResponse, error) {
	club, err := s.getClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := s.users.FollowClub(ctx, userID, clubID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to follow club")
	}
	followed, err := s.users.FollowedClubIDs(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list followed clubs")
	}
	return &FollowResponse{Message: "Successfully followed " + club.Name + ".", FollowedClubs: followed}, nil
}

// Unfollow removes the user's subscription to a club.
func (s *ClubService) Unfollow(ctx context.Context, userID, clubID string) (*FollowResponse, error) {
	club, err := s.getClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := s.users.UnfollowClub(ctx, userID, clubID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unfollow club")
	}
	followed, err := s.users.FollowedClubIDs(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list followed clubs")
	}
	return &FollowResponse{Message: "Successfully unfollowed " + club.Name + ".", FollowedClubs: followed}, nil
}

// FollowerCount returns how many users follow a club.
func (s *ClubService) FollowerCount(ctx context.Context, clubID string) (int, error) {
	if _, err := s.getClub(ctx, clubID); err != nil {
		return 0, err
	}
	count, err := s.users.CountFollowers(ctx, clubID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count followers")
	}
	return count, nil
}

// MyClub returns the representative's dashboard: club details plus
// recent announcements, the next five events and follower names, all
// fetched concurrently. A representative with no club gets nil.
func (s *ClubService) MyClub(ctx context.Context, claims *models.JWTClaims) (*models.ClubDashboard, error) {
	if claims.Role != models.RoleClub {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not a club representative")
	}
	club, err := s.clubs.FindByRepresentative(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load club")
	}
	if club == nil {
		return nil, nil
	}

	var (
		announcements []models.Announcement
		events        []models.Event
		followers     []models.UserSummary
	)
	now := time.Now().UTC()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		announcements, err = s.announcements.ListByClub(gctx, club.ID)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.events.ListUpcomingByClub(gctx, club.ID, now, 5)
		return err
	})
	g.Go(func() error {
		var err error
		followers, err = s.users.ListFollowers(gctx, club.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load club dashboard")
	}

	return &models.ClubDashboard{
		Club:                club,
		RecentAnnouncements: announcements,
		UpcomingEvents:      events,
		Followers:           followers,
	}, nil
}

// MyClubFollowers lists the full follower roster for the caller's club.
func (s *ClubService) MyClubFollowers(ctx context.Context, claims *models.JWTClaims) ([]models.UserSummary, error) {
	club, err := s.requireRepresentedClub(ctx, claims)
	if err != nil {
		return nil, err
	}
	followers, err := s.users.ListFollowers(ctx, club.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list followers")
	}
	return followers, nil
}

// RemoveFollower drops a specific user from the caller's club followers.
func (s *ClubService) RemoveFollower(ctx context.Context, claims *models.JWTClaims, userID string) error {
	club, err := s.requireRepresentedClub(ctx, claims)
	if err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "follower not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load follower")
	}
	if err := s.users.UnfollowClub(ctx, userID, club.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove follower")
	}
	return nil
}

// Update modifies the caller's club.
func (s *ClubService) Update(ctx context.Context, claims *models.JWTClaims, req UpdateClubRequest) (*models.Club, error) {
	club, err := s.requireRepresentedClub(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	if req.Name != club.Name {
		if _, err := s.clubs.FindByName(ctx, req.Name); err == nil {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a club with this name already exists")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check club name")
		}
	}

	category := models.ClubCategory(req.Category)
	if category == "" {
		category = club.Category
	}
	if !models.ValidClubCategory(category) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown club category")
	}

	club.Name = req.Name
	club.Description = req.Description
	club.Category = category
	club.LogoURL = req.LogoURL
	club.MemberCount = req.MemberCount
	club.FacultyCoordinatorID = req.FacultyCoordinator
	club.Team = teamFromRequest(req.Team)

	if err := s.clubs.Update(ctx, club); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update club")
	}

	s.invalidateDirectory(ctx)
	return club, nil
}

// Delete removes the caller's club with all announcements, events and
// follow edges.
func (s *ClubService) Delete(ctx context.Context, claims *models.JWTClaims) error {
	club, err := s.requireRepresentedClub(ctx, claims)
	if err != nil {
		return err
	}
	if err := s.clubs.Delete(ctx, club.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete club")
	}
	s.invalidateDirectory(ctx)
	return nil
}

// CoordinatedClubs lists the clubs the calling faculty member
// coordinates.
func (s *ClubService) CoordinatedClubs(ctx context.Context, claims *models.JWTClaims) ([]models.Club, error) {
	if claims.Role != models.RoleFaculty {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "faculty only")
	}
	clubs, err := s.clubs.ListByCoordinator(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list coordinated clubs")
	}
	return clubs, nil
}

// CoordinatedAnnouncements lists announcements across all coordinated
// clubs.
func (s *ClubService) CoordinatedAnnouncements(ctx context.Context, claims *models.JWTClaims) ([]models.Announcement, error) {
	ids, err := s.coordinatedIDs(ctx, claims)
	if err != nil {
		return nil, err
	}
	announcements, err := s.announcements.ListByClubs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list coordinated announcements")
	}
	return announcements, nil
}

// CoordinatedEvents lists events across all coordinated clubs.
func (s *ClubService) CoordinatedEvents(ctx context.Context, claims *models.JWTClaims) ([]models.Event, error) {
	ids, err := s.coordinatedIDs(ctx, claims)
	if err != nil {
		return nil, err
	}
	events, err := s.events.ListByClubs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list coordinated events")
	}
	return events, nil
}

func (s *ClubService) coordinatedIDs(ctx context.Context, claims *models.JWTClaims) ([]string, error) {
	if claims.Role != models.RoleFaculty {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "faculty only")
	}
	ids, err := s.clubs.CoordinatedClubIDs(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list coordinated club ids")
	}
	return ids, nil
}

func (s *ClubService) getClub(ctx context.Context, clubID string) (*models.Club, error) {
	club, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "club not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load club")
	}
	return club, nil
}

func (s *ClubService) requireRepresentedClub(ctx context.Context, claims *models.JWTClaims) (*models.Club, error) {
	club, err := s.clubs.FindByRepresentative(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load club")
	}
	if club == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no club found for this representative")
	}
	return club, nil
}

func (s *ClubService) invalidateDirectory(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, clubListCacheKey); err != nil {
		s.logger.Warn("failed to invalidate club directory cache", zap.Error(err))
	}
}

func teamFromRequest(team []TeamMemberRequest) []models.ClubTeamMember {
	out := make([]models.ClubTeamMember, 0, len(team))
	for _, m := range team {
		out = append(out, models.ClubTeamMember{Name: m.Name, Role: m.Role})
	}
	return out
}
