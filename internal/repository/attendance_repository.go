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

// AttendanceRepository provides persistence for subjects and attendance
// records. Both are scoped to a single user.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// CreateSubject inserts a subject.
func (r *AttendanceRepository) CreateSubject(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO subjects (id, user_id, name, days, created_at)
VALUES (:id, :user_id, :name, :days, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// ListSubjects returns a user's subjects.
func (r *AttendanceRepository) ListSubjects(ctx context.Context, userID string) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects,
		"SELECT id, user_id, name, days, created_at FROM subjects WHERE user_id = $1 ORDER BY created_at ASC", userID); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// GetSubject returns a user's subject by id.
func (r *AttendanceRepository) GetSubject(ctx context.Context, userID, subjectID string) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject,
		"SELECT id, user_id, name, days, created_at FROM subjects WHERE id = $1 AND user_id = $2", subjectID, userID); err != nil {
		return nil, err
	}
	return &subject, nil
}

// DeleteSubjects removes the given subjects owned by the user along with
// their attendance records, returning how many subjects were deleted.
func (r *AttendanceRepository) DeleteSubjects(ctx context.Context, userID string, subjectIDs []string) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin delete subjects: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM attendance_records WHERE user_id = $1 AND subject_id = ANY($2)",
		userID, pq.Array(subjectIDs)); err != nil {
		return 0, fmt.Errorf("delete attendance records: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		"DELETE FROM subjects WHERE user_id = $1 AND id = ANY($2)", userID, pq.Array(subjectIDs))
	if err != nil {
		return 0, fmt.Errorf("delete subjects: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted subjects: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete subjects: %w", err)
	}
	return int(deleted), nil
}

// UpsertRecords saves attendance marks, updating the status when a row
// for the same user, subject, date and extra-class flag already exists.
func (r *AttendanceRepository) UpsertRecords(ctx context.Context, records []models.AttendanceRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert attendance: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := `INSERT INTO attendance_records (id, user_id, subject_id, date, status, is_extra_class)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, subject_id, date, is_extra_class) DO UPDATE SET status = EXCLUDED.status`
	for _, record := range records {
		id := record.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, query,
			id, record.UserID, record.SubjectID, record.Date, record.Status, record.IsExtraClass); err != nil {
			return fmt.Errorf("upsert attendance record: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert attendance: %w", err)
	}
	return nil
}

// ListRecords returns all of a user's attendance records with subject
// names resolved.
func (r *AttendanceRepository) ListRecords(ctx context.Context, userID string) ([]models.AttendanceRecord, error) {
	query := `SELECT a.id, a.user_id, a.subject_id, a.date, a.status, a.is_extra_class, s.name AS subject_name
FROM attendance_records a
JOIN subjects s ON s.id = a.subject_id
WHERE a.user_id = $1 ORDER BY a.date ASC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	return records, nil
}

// ListRecordsBySubject returns a user's records for one subject, oldest
// first.
func (r *AttendanceRepository) ListRecordsBySubject(ctx context.Context, userID, subjectID string) ([]models.AttendanceRecord, error) {
	query := `SELECT a.id, a.user_id, a.subject_id, a.date, a.status, a.is_extra_class, s.name AS subject_name
FROM attendance_records a
JOIN subjects s ON s.id = a.subject_id
WHERE a.user_id = $1 AND a.subject_id = $2 ORDER BY a.date ASC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, userID, subjectID); err != nil {
		return nil, fmt.Errorf("list subject attendance records: %w", err)
	}
	return records, nil
}
