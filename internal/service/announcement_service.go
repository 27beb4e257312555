package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus360/portal-api/internal/models"
	appErrors "github.com/campus360/portal-api/pkg/errors"
)

type announcementRepository interface {
	ListByClub(ctx context.Context, clubID string) ([]models.Announcement, error)
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

type announcementClubRepository interface {
	GetByID(ctx context.Context, id string) (*models.Club, error)
}

type announcementNotifier interface {
	AnnouncementCreated(clubID, clubName, title string)
}

// AnnouncementService handles club announcement workflows.
type AnnouncementService struct {
	repo      announcementRepository
	clubs     announcementClubRepository
	notifier  announcementNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(
	repo announcementRepository,
	clubs announcementClubRepository,
	notifier announcementNotifier,
	validate *validator.Validate,
	logger *zap.Logger,
) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, clubs: clubs, notifier: notifier, validator: validate, logger: logger}
}

// CreateAnnouncementRequest describes the create payload.
type CreateAnnouncementRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// ListByClub returns a club's announcements, newest first.
func (s *AnnouncementService) ListByClub(ctx context.Context, clubID string) ([]models.Announcement, error) {
	announcements, err := s.repo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	return announcements, nil
}

// Create posts an announcement for a club. Only that club's
// representative may post; the club's room is notified afterwards.
func (s *AnnouncementService) Create(ctx context.Context, claims *models.JWTClaims, clubID string, req CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	club, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "club not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load club")
	}
	if club.RepresentativeID != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you do not manage this club")
	}

	announcement := &models.Announcement{
		ClubID:   clubID,
		AuthorID: claims.UserID,
		Title:    req.Title,
		Content:  req.Content,
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}

	if s.notifier != nil {
		s.notifier.AnnouncementCreated(club.ID, club.Name, announcement.Title)
	}

	created, err := s.repo.GetByID(ctx, announcement.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load created announcement")
	}
	return created, nil
}

// Delete removes an announcement. The author, faculty or admin may
// delete.
func (s *AnnouncementService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}
	privileged := claims.Role == models.RoleFaculty || claims.Role == models.RoleAdmin
	if announcement.AuthorID != claims.UserID && !privileged {
		return appErrors.Clone(appErrors.ErrForbidden, "not allowed to delete this announcement")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	return nil
}
