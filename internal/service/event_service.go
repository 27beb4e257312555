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

type eventRepository interface {
	ListByClub(ctx context.Context, clubID string) ([]models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

type eventClubRepository interface {
	GetByID(ctx context.Context, id string) (*models.Club, error)
}

type eventNotifier interface {
	EventCreated(clubID, clubName, title string)
}

// EventService handles club event workflows.
type EventService struct {
	repo      eventRepository
	clubs     eventClubRepository
	notifier  eventNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService constructs the service.
func NewEventService(
	repo eventRepository,
	clubs eventClubRepository,
	notifier eventNotifier,
	validate *validator.Validate,
	logger *zap.Logger,
) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, clubs: clubs, notifier: notifier, validator: validate, logger: logger}
}

// CreateEventRequest describes the create payload.
type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	Location    string    `json:"location"`
}

// ListByClub returns every event for a club, soonest first. Unlike the
// general feed this listing is not filtered to future dates, so club
// pages also show past events.
func (s *EventService) ListByClub(ctx context.Context, clubID string) ([]models.Event, error) {
	events, err := s.repo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	return events, nil
}

// Create posts an event for a club. Only that club's representative may
// post; the club's room is notified afterwards.
func (s *EventService) Create(ctx context.Context, claims *models.JWTClaims, clubID string, req CreateEventRequest) (*models.Event, error) {
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

	event := &models.Event{
		ClubID:      clubID,
		AuthorID:    claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}

	if s.notifier != nil {
		s.notifier.EventCreated(club.ID, club.Name, event.Title)
	}

	created, err := s.repo.GetByID(ctx, event.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load created event")
	}
	return created, nil
}

// Delete removes an event belonging to the club. The representative,
// faculty or admin may delete.
func (s *EventService) Delete(ctx context.Context, claims *models.JWTClaims, clubID, eventID string) error {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	if event.ClubID != clubID {
		return appErrors.Clone(appErrors.ErrNotFound, "event does not belong to this club")
	}

	club, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load club")
	}
	privileged := claims.Role == models.RoleFaculty || claims.Role == models.RoleAdmin
	if club.RepresentativeID != claims.UserID && !privileged {
		return appErrors.Clone(appErrors.ErrForbidden, "not allowed to delete this event")
	}

	if err := s.repo.Delete(ctx, eventID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	return nil
}
