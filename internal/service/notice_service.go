package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus360/portal-api/internal/models"
	appErrors "github.com/campus360/portal-api/pkg/errors"
)

type noticeRepository interface {
	ListActive(ctx context.Context, now time.Time) ([]models.Notice, error)
	GetByID(ctx context.Context, id string) (*models.Notice, error)
	Create(ctx context.Context, notice *models.Notice) error
	Delete(ctx context.Context, id string) error
}

type noticeAnnouncementRepository interface {
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Delete(ctx context.Context, id string) error
}

type noticeNotifier interface {
	NoticeCreated(category models.NoticeCategory, authorRole models.UserRole, title string)
}

// NoticeService handles official notice workflows. Deletion also
// resolves announcements, mirroring the portal's combined delete route
// where a post id may point at either collection.
type NoticeService struct {
	notices       noticeRepository
	announcements noticeAnnouncementRepository
	notifier      noticeNotifier
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewNoticeService constructs the service.
func NewNoticeService(
	notices noticeRepository,
	announcements noticeAnnouncementRepository,
	notifier noticeNotifier,
	validate *validator.Validate,
	logger *zap.Logger,
) *NoticeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoticeService{
		notices:       notices,
		announcements: announcements,
		notifier:      notifier,
		validator:     validate,
		logger:        logger,
	}
}

// CreateNoticeRequest describes the create payload.
type CreateNoticeRequest struct {
	Title     string     `json:"title" validate:"required"`
	Content   string     `json:"content" validate:"required"`
	Category  string     `json:"category"`
	Audience  string     `json:"audience"`
	ExpiresAt *time.Time `json:"expires_at"`
	IsPinned  bool       `json:"is_pinned"`
}

// List returns all active notices, pinned first then newest.
func (s *NoticeService) List(ctx context.Context) ([]models.Notice, error) {
	notices, err := s.notices.ListActive(ctx, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notices")
	}
	return notices, nil
}

// Create registers a new notice. Only faculty, admin and club accounts
// may post; urgent or faculty-authored notices interrupt everyone
// currently connected.
func (s *NoticeService) Create(ctx context.Context, claims *models.JWTClaims, req CreateNoticeRequest) (*models.Notice, error) {
	switch claims.Role {
	case models.RoleFaculty, models.RoleAdmin, models.RoleClub:
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "insufficient role to post notices")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	category := models.NoticeCategory(req.Category)
	if category == "" {
		category = models.NoticeCategoryGeneral
	}
	if !models.ValidNoticeCategory(category) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown notice category")
	}
	audience := req.Audience
	if audience == "" {
		audience = "All"
	}

	notice := &models.Notice{
		Title:     req.Title,
		Content:   req.Content,
		AuthorID:  claims.UserID,
		Category:  category,
		Audience:  audience,
		ExpiresAt: req.ExpiresAt,
		IsPinned:  req.IsPinned,
	}
	if err := s.notices.Create(ctx, notice); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notice")
	}

	created, err := s.notices.GetByID(ctx, notice.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load created notice")
	}

	if s.notifier != nil {
		s.notifier.NoticeCreated(created.Category, claims.Role, created.Title)
	}
	return created, nil
}

// DeletePost removes a post by id, resolving it as an announcement
// first and falling back to a notice. Only the author, faculty or admin
// may delete.
func (s *NoticeService) DeletePost(ctx context.Context, claims *models.JWTClaims, id string) error {
	privileged := claims.Role == models.RoleFaculty || claims.Role == models.RoleAdmin

	announcement, err := s.announcements.GetByID(ctx, id)
	if err == nil {
		if announcement.AuthorID != claims.UserID && !privileged {
			return appErrors.Clone(appErrors.ErrForbidden, "not allowed to delete this post")
		}
		if err := s.announcements.Delete(ctx, id); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
		}
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load post")
	}

	notice, err := s.notices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "post not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load post")
	}
	if notice.AuthorID != claims.UserID && !privileged {
		return appErrors.Clone(appErrors.ErrForbidden, "not allowed to delete this post")
	}
	if err := s.notices.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete notice")
	}
	return nil
}
