// Package firestore keeps the bot's records in Cloud Firestore, using the
// collections "courses", "registrations" and "users".
package firestore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/itcenter/coursebot/core/logger"
	"github.com/itcenter/coursebot/internal/models"
	"github.com/itcenter/coursebot/internal/store"
)

const (
	colCourses       = "courses"
	colRegistrations = "registrations"
	colUsers         = "users"
)

// Config selects the project and service account. An empty ProjectID is
// detected from the credentials.
type Config struct {
	ProjectID       string `yaml:"project_id" envconfig:"FIRESTORE_PROJECT_ID"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
}

// Store implements store.Store on a Firestore client.
type Store struct {
	client *firestore.Client
}

var _ store.Store = (*Store)(nil)

// Open creates the client. A missing credentials file falls back to the
// ambient application default credentials.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	start := time.Now()
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		if _, err := os.Stat(cfg.CredentialsFile); err == nil {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		} else {
			logger.Store.Warn("credentials file not found, using default credentials",
				slog.String("event", "store.open"),
				slog.String("path", cfg.CredentialsFile),
			)
		}
	}
	project := cmp.Or(cfg.ProjectID, firestore.DetectProjectID)
	client, err := firestore.NewClient(ctx, project, opts...)
	if err != nil {
		logger.Store.Error("firestore connect failed",
			slog.String("event", "store.open"),
			slog.String("status", "fail"),
			logger.Err(err),
		)
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	logger.Store.Info("firestore ready",
		slog.String("event", "store.open"),
		slog.String("status", "ok"),
		slog.String("driver", "firestore"),
		slog.Duration("duration", time.Since(start)),
	)
	return &Store{client: client}, nil
}

// Close releases the client.
func (s *Store) Close() error { return s.client.Close() }

func notFound(err error) bool { return status.Code(err) == codes.NotFound }

// validID rejects ids Firestore would treat as a path.
func validID(id string) bool {
	return id != "" && !strings.Contains(id, "/")
}

func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	iter := s.client.Collection(colCourses).Documents(ctx)
	defer iter.Stop()
	var out []models.Course
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list courses: %w", err)
		}
		c, err := decodeCourse(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
}

func decodeCourse(doc *firestore.DocumentSnapshot) (models.Course, error) {
	var c models.Course
	if err := doc.DataTo(&c); err != nil {
		return models.Course{}, fmt.Errorf("decode course %s: %w", doc.Ref.ID, err)
	}
	c.ID = doc.Ref.ID
	return c, nil
}

func (s *Store) GetCourse(ctx context.Context, id string) (models.Course, error) {
	if !validID(id) {
		return models.Course{}, store.ErrNotFound
	}
	doc, err := s.client.Collection(colCourses).Doc(id).Get(ctx)
	if notFound(err) {
		return models.Course{}, store.ErrNotFound
	}
	if err != nil {
		return models.Course{}, fmt.Errorf("get course %s: %w", id, err)
	}
	return decodeCourse(doc)
}

func (s *Store) CreateCourse(ctx context.Context, c models.Course) (string, error) {
	ref, _, err := s.client.Collection(colCourses).Add(ctx, courseDoc(c))
	if err != nil {
		return "", fmt.Errorf("create course: %w", err)
	}
	return ref.ID, nil
}

func courseDoc(c models.Course) map[string]any {
	return map[string]any{
		"name":           c.Name,
		"duration_weeks": c.DurationWeeks,
		"price":          c.Price,
		"description":    c.Description,
		"created_at":     firestore.ServerTimestamp,
		"updated_at":     firestore.ServerTimestamp,
		"created_by":     c.CreatedBy,
		"updated_by":     c.CreatedBy,
	}
}

func courseUpdates(ch models.CourseChange, by int64) []firestore.Update {
	return []firestore.Update{
		{Path: ch.Field().Key(), Value: ch.Value()},
		{Path: "updated_at", Value: firestore.ServerTimestamp},
		{Path: "updated_by", Value: by},
	}
}

func (s *Store) UpdateCourse(ctx context.Context, id string, ch models.CourseChange, by int64) error {
	if !validID(id) {
		return store.ErrNotFound
	}
	_, err := s.client.Collection(colCourses).Doc(id).Update(ctx, courseUpdates(ch, by))
	if notFound(err) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update course %s: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	if !validID(id) {
		return store.ErrNotFound
	}
	_, err := s.client.Collection(colCourses).Doc(id).Delete(ctx, firestore.Exists)
	if notFound(err) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete course %s: %w", id, err)
	}
	return nil
}

func (s *Store) CreateRegistration(ctx context.Context, r models.Registration) (string, error) {
	ref, _, err := s.client.Collection(colRegistrations).Add(ctx, r)
	if err != nil {
		return "", fmt.Errorf("create registration: %w", err)
	}
	return ref.ID, nil
}

func userKey(id int64) string { return strconv.FormatInt(id, 10) }

func (s *Store) TouchUser(ctx context.Context, u models.User) error {
	_, err := s.client.Collection(colUsers).Doc(userKey(u.TelegramID)).Set(ctx, map[string]any{
		"tg_id":      u.TelegramID,
		"username":   u.Username,
		"first_name": u.FirstName,
		"last_seen":  firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("touch user %d: %w", u.TelegramID, err)
	}
	return nil
}

func (s *Store) MarkSubscribed(ctx context.Context, userID int64) error {
	_, err := s.client.Collection(colUsers).Doc(userKey(userID)).Set(ctx, map[string]any{
		"tg_id":         userID,
		"subscribed":    true,
		"subscribed_at": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("mark subscribed %d: %w", userID, err)
	}
	return nil
}

// ListUserIDs reads document keys only.
func (s *Store) ListUserIDs(ctx context.Context) ([]int64, error) {
	iter := s.client.Collection(colUsers).Select().Documents(ctx)
	defer iter.Stop()
	var ids []int64
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return ids, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		id, err := strconv.ParseInt(doc.Ref.ID, 10, 64)
		if err != nil {
			logger.Store.Warn("skipping user with bad key",
				slog.String("event", "store.users"),
				slog.String("key", doc.Ref.ID),
			)
			continue
		}
		ids = append(ids, id)
	}
}

func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	var st models.Stats
	for _, c := range []struct {
		col string
		dst *int
	}{
		{colUsers, &st.Users},
		{colCourses, &st.Courses},
		{colRegistrations, &st.Registrations},
	} {
		n, err := s.count(ctx, c.col)
		if err != nil {
			return models.Stats{}, err
		}
		*c.dst = n
	}
	return st, nil
}

func (s *Store) count(ctx context.Context, col string) (int, error) {
	res, err := s.client.Collection(col).NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", col, err)
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("count %s: unexpected result %T", col, res["all"])
	}
	return int(v.GetIntegerValue()), nil
}
