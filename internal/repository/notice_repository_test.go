package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus360/portal-api/internal/models"
)

func noticeRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "content", "author_id", "category", "audience", "expires_at", "is_pinned", "created_at", "author_name", "author_role"}).
		AddRow("n1", "Exam schedule", "Check the board", "u1", string(models.NoticeCategoryAcademic), "All", nil, true, now, "Dean", string(models.RoleFaculty))
}

func TestListActiveFiltersExpiredAndOrdersPinnedFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE n.expires_at IS NULL OR n.expires_at > $1")+
		`[\s\S]*`+regexp.QuoteMeta("ORDER BY n.is_pinned DESC, n.created_at DESC")).
		WithArgs(now).
		WillReturnRows(noticeRows(now))

	notices, err := repo.ListActive(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, "Exam schedule", notices[0].Title)
	assert.Equal(t, models.RoleFaculty, notices[0].AuthorRole)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoticeGetByIDResolvesAuthor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN users u ON u.id = n.author_id")+`[\s\S]*`+regexp.QuoteMeta("WHERE n.id = $1")).
		WithArgs("n1").
		WillReturnRows(noticeRows(time.Now()))

	notice, err := repo.GetByID(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t, "Dean", notice.AuthorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNoticeFillsIDAndTimestamp(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	mock.ExpectExec("INSERT INTO notices").WillReturnResult(sqlmock.NewResult(1, 1))

	notice := &models.Notice{Title: "Holiday", Content: "Campus closed", AuthorID: "u1", Category: models.NoticeCategoryGeneral, Audience: "All"}
	err := repo.Create(context.Background(), notice)
	require.NoError(t, err)
	assert.NotEmpty(t, notice.ID)
	assert.False(t, notice.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNotice(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notices WHERE id = $1")).
		WithArgs("n1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "n1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
