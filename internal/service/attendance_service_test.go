package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus360/portal-api/internal/models"
	appErrors "github.com/campus360/portal-api/pkg/errors"
)

type fakeAttendanceRepo struct {
	subjects map[string]*models.Subject
	upserted []models.AttendanceRecord
	deleted  int
}

func (f *fakeAttendanceRepo) CreateSubject(_ context.Context, s *models.Subject) error {
	s.ID = "sub-1"
	return nil
}

func (f *fakeAttendanceRepo) ListSubjects(context.Context, string) ([]models.Subject, error) {
	out := make([]models.Subject, 0, len(f.subjects))
	for _, s := range f.subjects {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeAttendanceRepo) GetSubject(_ context.Context, _, subjectID string) (*models.Subject, error) {
	if s, ok := f.subjects[subjectID]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAttendanceRepo) DeleteSubjects(_ context.Context, _ string, ids []string) (int, error) {
	count := 0
	for _, id := range ids {
		if _, ok := f.subjects[id]; ok {
			delete(f.subjects, id)
			count++
		}
	}
	f.deleted += count
	return count, nil
}

func (f *fakeAttendanceRepo) UpsertRecords(_ context.Context, records []models.AttendanceRecord) error {
	f.upserted = append(f.upserted, records...)
	return nil
}

func (f *fakeAttendanceRepo) ListRecords(context.Context, string) ([]models.AttendanceRecord, error) {
	return f.upserted, nil
}

func (f *fakeAttendanceRepo) ListRecordsBySubject(context.Context, string, string) ([]models.AttendanceRecord, error) {
	return f.upserted, nil
}

func TestAddSubjectValidatesDays(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{subjects: map[string]*models.Subject{}}, nil, nil)

	subject, err := svc.AddSubject(context.Background(), "u1", AddSubjectRequest{Name: "Physics", Days: []int64{1, 3, 5}})
	require.NoError(t, err)
	assert.Equal(t, "sub-1", subject.ID)

	_, err = svc.AddSubject(context.Background(), "u1", AddSubjectRequest{Name: "Physics", Days: []int64{7}})
	require.Error(t, err, "weekday out of range")

	_, err = svc.AddSubject(context.Background(), "u1", AddSubjectRequest{Name: "Physics", Days: nil})
	require.Error(t, err, "at least one weekday required")
}

func TestSaveRecordsNormalizesDateToUTCMidnight(t *testing.T) {
	repo := &fakeAttendanceRepo{subjects: map[string]*models.Subject{"sub-1": {ID: "sub-1"}}}
	svc := NewAttendanceService(repo, nil, nil)

	err := svc.SaveRecords(context.Background(), "u1", []MarkAttendanceRequest{
		{SubjectID: "sub-1", Date: "2025-03-10", Status: "present"},
		{SubjectID: "sub-1", Date: "2025-03-10", Status: "absent", IsExtraClass: true},
	})
	require.NoError(t, err)
	require.Len(t, repo.upserted, 2)
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, repo.upserted[0].Date)
	assert.True(t, repo.upserted[1].IsExtraClass, "extra class is a distinct row for the same day")
}

func TestSaveRecordsRejectsBadInput(t *testing.T) {
	repo := &fakeAttendanceRepo{subjects: map[string]*models.Subject{"sub-1": {ID: "sub-1"}}}
	svc := NewAttendanceService(repo, nil, nil)

	err := svc.SaveRecords(context.Background(), "u1", nil)
	require.Error(t, err, "empty batch")

	err = svc.SaveRecords(context.Background(), "u1", []MarkAttendanceRequest{
		{SubjectID: "sub-1", Date: "2025-03-10", Status: "late"},
	})
	require.Error(t, err, "unknown status")

	err = svc.SaveRecords(context.Background(), "u1", []MarkAttendanceRequest{
		{SubjectID: "sub-1", Date: "10/03/2025", Status: "present"},
	})
	require.Error(t, err, "bad date format")

	err = svc.SaveRecords(context.Background(), "u1", []MarkAttendanceRequest{
		{SubjectID: "missing", Date: "2025-03-10", Status: "present"},
	})
	require.Error(t, err, "unknown subject")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.upserted)
}

func TestDeleteSubjectsReportsCount(t *testing.T) {
	repo := &fakeAttendanceRepo{subjects: map[string]*models.Subject{
		"sub-1": {ID: "sub-1"},
		"sub-2": {ID: "sub-2"},
	}}
	svc := NewAttendanceService(repo, nil, nil)

	deleted, err := svc.DeleteSubjects(context.Background(), "u1", DeleteSubjectsRequest{SubjectIDs: []string{"sub-1", "sub-2"}})
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, err = svc.DeleteSubjects(context.Background(), "u1", DeleteSubjectsRequest{SubjectIDs: []string{"ghost"}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
