package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/campus360/portal-api/internal/models"
	appErrors "github.com/campus360/portal-api/pkg/errors"
)

type attendanceRepository interface {
	CreateSubject(ctx context.Context, subject *models.Subject) error
	ListSubjects(ctx context.Context, userID string) ([]models.Subject, error)
	GetSubject(ctx context.Context, userID, subjectID string) (*models.Subject, error)
	DeleteSubjects(ctx context.Context, userID string, subjectIDs []string) (int, error)
	UpsertRecords(ctx context.Context, records []models.AttendanceRecord) error
	ListRecords(ctx context.Context, userID string) ([]models.AttendanceRecord, error)
	ListRecordsBySubject(ctx context.Context, userID, subjectID string) ([]models.AttendanceRecord, error)
}

// AttendanceService manages personal subjects and attendance records.
type AttendanceService struct {
	repo      attendanceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService instance.
func NewAttendanceService(repo attendanceRepository, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, validator: validate, logger: logger}
}

// AddSubjectRequest creates a tracked subject.
type AddSubjectRequest struct {
	Name string  `json:"name" validate:"required"`
	Days []int64 `json:"days" validate:"required,min=1,dive,gte=0,lte=6"`
}

// MarkAttendanceRequest records one class outcome.
type MarkAttendanceRequest struct {
	SubjectID    string `json:"subject_id" validate:"required"`
	Date         string `json:"date" validate:"required"`
	Status       string `json:"status" validate:"required"`
	IsExtraClass bool   `json:"is_extra_class"`
}

// DeleteSubjectsRequest removes subjects and their records.
type DeleteSubjectsRequest struct {
	SubjectIDs []string `json:"subject_ids" validate:"required,min=1"`
}

// AddSubject registers a subject on the user's personal timetable.
func (s *AttendanceService) AddSubject(ctx context.Context, userID string, req AddSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject := &models.Subject{
		UserID: userID,
		Name:   req.Name,
		Days:   pq.Int64Array(req.Days),
	}
	if err := s.repo.CreateSubject(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	return subject, nil
}

// ListSubjects returns the user's subjects.
func (s *AttendanceService) ListSubjects(ctx context.Context, userID string) ([]models.Subject, error) {
	subjects, err := s.repo.ListSubjects(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// GetSubject returns one of the user's subjects.
func (s *AttendanceService) GetSubject(ctx context.Context, userID, subjectID string) (*models.Subject, error) {
	subject, err := s.repo.GetSubject(ctx, userID, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// DeleteSubjects removes the given subjects. Records referencing them
// are removed in the same transaction.
func (s *AttendanceService) DeleteSubjects(ctx context.Context, userID string, req DeleteSubjectsRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid delete payload")
	}
	deleted, err := s.repo.DeleteSubjects(ctx, userID, req.SubjectIDs)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subjects")
	}
	if deleted == 0 {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "no matching subjects")
	}
	return deleted, nil
}

// SaveRecords upserts a batch of attendance marks. Dates are normalized
// to UTC midnight so a day maps to exactly one regular row per subject.
func (s *AttendanceService) SaveRecords(ctx context.Context, userID string, reqs []MarkAttendanceRequest) error {
	if len(reqs) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "no records provided")
	}

	records := make([]models.AttendanceRecord, 0, len(reqs))
	for _, req := range reqs {
		if err := s.validator.Struct(req); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
		}
		status := models.AttendanceStatus(req.Status)
		if !models.ValidAttendanceStatus(status) {
			return appErrors.Clone(appErrors.ErrValidation, "unknown attendance status")
		}
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
		}
		if _, err := s.repo.GetSubject(ctx, userID, req.SubjectID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
		}
		records = append(records, models.AttendanceRecord{
			UserID:       userID,
			SubjectID:    req.SubjectID,
			Date:         time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
			Status:       status,
			IsExtraClass: req.IsExtraClass,
		})
	}

	if err := s.repo.UpsertRecords(ctx, records); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance records")
	}
	return nil
}

// ListRecords returns all of the user's attendance marks.
func (s *AttendanceService) ListRecords(ctx context.Context, userID string) ([]models.AttendanceRecord, error) {
	records, err := s.repo.ListRecords(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance records")
	}
	return records, nil
}

// ListRecordsBySubject returns the user's marks for one subject.
func (s *AttendanceService) ListRecordsBySubject(ctx context.Context, userID, subjectID string) ([]models.AttendanceRecord, error) {
	if _, err := s.repo.GetSubject(ctx, userID, subjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	records, err := s.repo.ListRecordsBySubject(ctx, userID, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance records")
	}
	return records, nil
}
