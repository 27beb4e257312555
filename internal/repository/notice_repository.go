package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus360/portal-api/internal/models"
)

const noticeColumns = `n.id, n.title, n.content, n.author_id, n.category, n.audience,
n.expires_at, n.is_pinned, n.created_at,
u.name AS author_name, u.role AS author_role`

const noticeJoins = "FROM notices n JOIN users u ON u.id = n.author_id"

// NoticeRepository provides persistence for official notices.
type NoticeRepository struct {
	db *sqlx.DB
}

// NewNoticeRepository creates the repository.
func NewNoticeRepository(db *sqlx.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

// ListActive returns all non-expired notices, pinned first, newest first.
// Expired notices are filtered out, never deleted.
func (r *NoticeRepository) ListActive(ctx context.Context, now time.Time) ([]models.Notice, error) {
	query := fmt.Sprintf(`SELECT %s %s
WHERE n.expires_at IS NULL OR n.expires_at > $1
ORDER BY n.is_pinned DESC, n.created_at DESC`, noticeColumns, noticeJoins)
	var notices []models.Notice
	if err := r.db.SelectContext(ctx, &notices, query, now); err != nil {
		return nil, fmt.Errorf("list active notices: %w", err)
	}
	return notices, nil
}

// GetByID returns a notice by identifier with its author resolved.
func (r *NoticeRepository) GetByID(ctx context.Context, id string) (*models.Notice, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE n.id = $1", noticeColumns, noticeJoins)
	var notice models.Notice
	if err := r.db.GetContext(ctx, &notice, query, id); err != nil {
		return nil, err
	}
	return &notice, nil
}

// Create inserts a new notice.
func (r *NoticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	if notice.ID == "" {
		notice.ID = uuid.NewString()
	}
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO notices (id, title, content, author_id, category, audience, expires_at, is_pinned, created_at)
VALUES (:id, :title, :content, :author_id, :category, :audience, :expires_at, :is_pinned, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notice); err != nil {
		return fmt.Errorf("create notice: %w", err)
	}
	return nil
}

// Delete removes a notice.
func (r *NoticeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM notices WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	return nil
}
