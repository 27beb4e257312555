package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campus360/portal-api/internal/models"
)

const eventColumns = `e.id, e.club_id, e.author_id, e.title, e.description, e.date, e.location, e.created_at,
u.name AS author_name, c.name AS club_name`

const eventJoins = `FROM events e
JOIN users u ON u.id = e.author_id
JOIN clubs c ON c.id = e.club_id`

// EventRepository provides persistence for club events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates the repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ListUpcoming returns events dated now or later, soonest first. This is
// the query the general feed merges; club pages use ListByClub instead.
func (r *EventRepository) ListUpcoming(ctx context.Context, now time.Time) ([]models.Event, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE e.date >= $1 ORDER BY e.date ASC", eventColumns, eventJoins)
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, now); err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return events, nil
}

// ListByClub returns every event for a club regardless of date, soonest
// first.
func (r *EventRepository) ListByClub(ctx context.Context, clubID string) ([]models.Event, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE e.club_id = $1 ORDER BY e.date ASC", eventColumns, eventJoins)
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, clubID); err != nil {
		return nil, fmt.Errorf("list club events: %w", err)
	}
	return events, nil
}

// ListUpcomingByClub returns a club's future events, soonest first,
// capped at limit when limit > 0.
func (r *EventRepository) ListUpcomingByClub(ctx context.Context, clubID string, now time.Time, limit int) ([]models.Event, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE e.club_id = $1 AND e.date >= $2 ORDER BY e.date ASC", eventColumns, eventJoins)
	if limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, limit)
	}
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, clubID, now); err != nil {
		return nil, fmt.Errorf("list upcoming club events: %w", err)
	}
	return events, nil
}

// ListByClubs returns events across the given clubs, soonest first.
func (r *EventRepository) ListByClubs(ctx context.Context, clubIDs []string) ([]models.Event, error) {
	if len(clubIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s %s WHERE e.club_id = ANY($1) ORDER BY e.date ASC", eventColumns, eventJoins)
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, pq.Array(clubIDs)); err != nil {
		return nil, fmt.Errorf("list events by clubs: %w", err)
	}
	return events, nil
}

// GetByID returns an event by identifier.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE e.id = $1", eventColumns, eventJoins)
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if event.Location == "" {
		event.Location = "Campus"
	}
	query := `INSERT INTO events (id, club_id, author_id, title, description, date, location, created_at)
VALUES (:id, :club_id, :author_id, :title, :description, :date, :location, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Delete removes an event.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
