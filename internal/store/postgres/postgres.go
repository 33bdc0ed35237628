// Package postgres keeps the bot's records in PostgreSQL using the schema
// migrated by core/database.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/itcenter/coursebot/internal/models"
	"github.com/itcenter/coursebot/internal/store"
)

// Store implements store.Store on a sqlx pool.
type Store struct {
	db    *sqlx.DB
	newID func() uuid.UUID
}

var _ store.Store = (*Store)(nil)

// New wraps an open pool. Close closes the pool.
func New(db *sqlx.DB) *Store {
	return &Store{db: db, newID: uuid.New}
}

func (s *Store) Close() error { return s.db.Close() }

const courseColumns = `id, name, duration_weeks, price, description, created_at, updated_at, created_by, updated_by`

func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	if err := s.db.SelectContext(ctx, &out, `SELECT `+courseColumns+` FROM courses ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return out, nil
}

func (s *Store) GetCourse(ctx context.Context, id string) (models.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Course{}, store.ErrNotFound
	}
	var c models.Course
	err := s.db.GetContext(ctx, &c, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Course{}, store.ErrNotFound
	}
	if err != nil {
		return models.Course{}, fmt.Errorf("get course %s: %w", id, err)
	}
	return c, nil
}

func (s *Store) CreateCourse(ctx context.Context, c models.Course) (string, error) {
	id := s.newID().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO courses (id, name, duration_weeks, price, description, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		id, c.Name, c.DurationWeeks, c.Price, c.Description, c.CreatedBy,
	)
	if err != nil {
		return "", fmt.Errorf("create course: %w", err)
	}
	return id, nil
}

// changeColumn maps a field to its column. The set is closed, so the
// result is safe to splice into SQL.
func changeColumn(f models.CourseField) (string, error) {
	switch f {
	case models.FieldName, models.FieldDuration, models.FieldPrice, models.FieldDescription:
		return f.Key(), nil
	}
	return "", fmt.Errorf("unknown course field %s", f)
}

func (s *Store) UpdateCourse(ctx context.Context, id string, ch models.CourseChange, by int64) error {
	if _, err := uuid.Parse(id); err != nil {
		return store.ErrNotFound
	}
	col, err := changeColumn(ch.Field())
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE courses SET `+col+` = $1, updated_at = now(), updated_by = $2 WHERE id = $3`,
		ch.Value(), by, id,
	)
	if err != nil {
		return fmt.Errorf("update course %s: %w", id, err)
	}
	return affected(res)
}

func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return store.ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course %s: %w", id, err)
	}
	return affected(res)
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateRegistration(ctx context.Context, r models.Registration) (string, error) {
	id := s.newID().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO registrations (id, tg_id, username, full_name, age, phone, course, course_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, r.TelegramID, r.Username, r.FullName, r.Age, r.Phone, r.Course, r.CourseID,
	)
	if err != nil {
		return "", fmt.Errorf("create registration: %w", err)
	}
	return id, nil
}

func (s *Store) TouchUser(ctx context.Context, u models.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bot_users (tg_id, username, first_name, last_seen)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (tg_id) DO UPDATE
		 SET username = EXCLUDED.username, first_name = EXCLUDED.first_name, last_seen = EXCLUDED.last_seen`,
		u.TelegramID, u.Username, u.FirstName,
	)
	if err != nil {
		return fmt.Errorf("touch user %d: %w", u.TelegramID, err)
	}
	return nil
}

func (s *Store) MarkSubscribed(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bot_users (tg_id, subscribed, subscribed_at)
		 VALUES ($1, TRUE, now())
		 ON CONFLICT (tg_id) DO UPDATE SET subscribed = TRUE, subscribed_at = now()`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("mark subscribed %d: %w", userID, err)
	}
	return nil
}

func (s *Store) ListUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, `SELECT tg_id FROM bot_users ORDER BY tg_id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ids, nil
}

func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	var row struct {
		Users         int `db:"users"`
		Courses       int `db:"courses"`
		Registrations int `db:"registrations"`
	}
	err := s.db.GetContext(ctx, &row, `SELECT
		(SELECT count(*) FROM bot_users) AS users,
		(SELECT count(*) FROM courses) AS courses,
		(SELECT count(*) FROM registrations) AS registrations`)
	if err != nil {
		return models.Stats{}, fmt.Errorf("stats: %w", err)
	}
	return models.Stats(row), nil
}
