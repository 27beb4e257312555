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

const announcementColumns = `a.id, a.club_id, a.author_id, a.title, a.content, a.created_at,
u.name AS author_name, c.name AS club_name`

const announcementJoins = `FROM announcements a
JOIN users u ON u.id = a.author_id
JOIN clubs c ON c.id = a.club_id`

// AnnouncementRepository provides persistence for club announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// ListAll returns every announcement with author and club resolved,
// newest first. The feed merges this unfiltered.
func (r *AnnouncementRepository) ListAll(ctx context.Context) ([]models.Announcement, error) {
	query := fmt.Sprintf("SELECT %s %s ORDER BY a.created_at DESC", announcementColumns, announcementJoins)
	var announcements []models.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, nil
}

// ListByClub returns a club's announcements, newest first.
func (r *AnnouncementRepository) ListByClub(ctx context.Context, clubID string) ([]models.Announcement, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE a.club_id = $1 ORDER BY a.created_at DESC", announcementColumns, announcementJoins)
	var announcements []models.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query, clubID); err != nil {
		return nil, fmt.Errorf("list club announcements: %w", err)
	}
	return announcements, nil
}

// ListByClubs returns announcements across the given clubs, newest first.
func (r *AnnouncementRepository) ListByClubs(ctx context.Context, clubIDs []string) ([]models.Announcement, error) {
	if len(clubIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s %s WHERE a.club_id = ANY($1) ORDER BY a.created_at DESC", announcementColumns, announcementJoins)
	var announcements []models.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query, pq.Array(clubIDs)); err != nil {
		return nil, fmt.Errorf("list announcements by clubs: %w", err)
	}
	return announcements, nil
}

// GetByID returns an announcement by identifier.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE a.id = $1", announcementColumns, announcementJoins)
	var announcement models.Announcement
	if err := r.db.GetContext(ctx, &announcement, query, id); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// Create inserts a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO announcements (id, club_id, author_id, title, content, created_at)
VALUES (:id, :club_id, :author_id, :title, :content, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Delete removes an announcement.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}
