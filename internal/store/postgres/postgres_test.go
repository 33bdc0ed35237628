package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itcenter/coursebot/internal/models"
	"github.com/itcenter/coursebot/internal/store"
)

const courseID = "5f0c6f9e-2a0b-4a8e-9d43-1f6a1b2c3d4e"

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	s := New(sqlx.NewDb(db, "postgres"))
	s.newID = func() uuid.UUID { return uuid.MustParse(courseID) }
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return s, mock
}

func courseRows() *sqlmock.Rows {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return sqlmock.NewRows([]string{"id", "name", "duration_weeks", "price", "description", "created_at", "updated_at", "created_by", "updated_by"}).
		AddRow(courseID, "Frontend", 10, int64(300000), "", now, now, int64(1), int64(1))
}

func TestListAndGetCourse(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM courses ORDER BY created_at, id`)).WillReturnRows(courseRows())
	mock.ExpectQuery(regexp.QuoteMeta(`FROM courses WHERE id = $1`)).WithArgs(courseID).WillReturnRows(courseRows())

	list, err := s.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Frontend", list[0].Name)
	assert.Equal(t, 10, list[0].DurationWeeks)

	c, err := s.GetCourse(context.Background(), courseID)
	require.NoError(t, err)
	assert.Equal(t, courseID, c.ID)
}

func TestGetCourseNotFound(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM courses WHERE id = $1`)).WithArgs(courseID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetCourse(context.Background(), courseID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Not a uuid: no query is made.
	_, err = s.GetCourse(context.Background(), "cancel")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateCourse(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO courses`)).
		WithArgs(courseID, "Python", 8, int64(400000), "", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := s.CreateCourse(context.Background(), models.Course{Name: "Python", DurationWeeks: 8, Price: 400000, CreatedBy: 42})
	require.NoError(t, err)
	assert.Equal(t, courseID, id)
}

func TestUpdateCourse(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE courses SET duration_weeks = $1, updated_at = now(), updated_by = $2 WHERE id = $3`)).
		WithArgs(12, int64(42), courseID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE courses SET name = $1`)).
		WithArgs("Go", int64(42), courseID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.UpdateCourse(context.Background(), courseID, models.DurationChange{Weeks: 12}, 42))
	assert.ErrorIs(t, s.UpdateCourse(context.Background(), courseID, models.NameChange{Name: "Go"}, 42), store.ErrNotFound)
}

func TestDeleteCourse(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM courses WHERE id = $1`)).WithArgs(courseID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.DeleteCourse(context.Background(), courseID), store.ErrNotFound)
}

func TestCreateRegistration(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO registrations`)).
		WithArgs(courseID, int64(7), "ali", "Ali Valiyev", "25", "+998901234567", "Frontend", "c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := s.CreateRegistration(context.Background(), models.Registration{
		TelegramID: 7, Username: "ali", FullName: "Ali Valiyev", Age: "25",
		Phone: "+998901234567", Course: "Frontend", CourseID: "c-1",
	})
	require.NoError(t, err)
}

func TestUsers(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO bot_users (tg_id, username, first_name, last_seen)`)).
		WithArgs(int64(7), "ali", "Ali").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO bot_users (tg_id, subscribed, subscribed_at)`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT tg_id FROM bot_users`)).
		WillReturnRows(sqlmock.NewRows([]string{"tg_id"}).AddRow(int64(1)).AddRow(int64(7)))

	ctx := context.Background()
	require.NoError(t, s.TouchUser(ctx, models.User{TelegramID: 7, Username: "ali", FirstName: "Ali"}))
	require.NoError(t, s.MarkSubscribed(ctx, 7))
	ids, err := s.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 7}, ids)
}

func TestStats(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`SELECT`).
		WillReturnRows(sqlmock.NewRows([]string{"users", "courses", "registrations"}).AddRow(10, 4, 3))

	st, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Users: 10, Courses: 4, Registrations: 3}, st)
}
