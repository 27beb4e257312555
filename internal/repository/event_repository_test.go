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

func eventRows(date time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "club_id", "author_id", "title", "description", "date", "location", "created_at", "author_name", "club_name"}).
		AddRow("e1", "c1", "u1", "Hack Night", "Bring laptops", date, "Lab 2", date.Add(-48*time.Hour), "Rep", "Coding Club")
}

func TestListUpcomingFiltersByDate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.date >= $1 ORDER BY e.date ASC")).
		WithArgs(now).
		WillReturnRows(eventRows(now.Add(24 * time.Hour)))

	events, err := repo.ListUpcoming(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Coding Club", events[0].ClubName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByClubHasNoDateFilter(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	// Past events stay visible on the club page.
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.club_id = $1 ORDER BY e.date ASC")).
		WithArgs("c1").
		WillReturnRows(eventRows(time.Now().Add(-72 * time.Hour)))

	events, err := repo.ListByClub(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUpcomingByClubAppliesLimit(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.club_id = $1 AND e.date >= $2 ORDER BY e.date ASC LIMIT 5")).
		WithArgs("c1", now).
		WillReturnRows(eventRows(now.Add(24 * time.Hour)))

	events, err := repo.ListUpcomingByClub(context.Background(), "c1", now, 5)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEventsByClubsShortCircuitsOnEmptyInput(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	events, err := repo.ListByClubs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEventDefaultsLocation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("INSERT INTO events").WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.Event{ClubID: "c1", AuthorID: "u1", Title: "Workshop", Date: time.Now().Add(48 * time.Hour)}
	err := repo.Create(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, "Campus", event.Location)
	assert.NotEmpty(t, event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
