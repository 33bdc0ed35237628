// Package store declares the persistence the bot needs. Implementations
// live in the firestore and postgres subpackages.
package store

import (
	"context"
	"errors"
	"io"

	"github.com/itcenter/coursebot/internal/models"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("store: not found")

// Courses is the course catalog.
type Courses interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id string) (models.Course, error)
	// CreateCourse stores c and returns the assigned id.
	CreateCourse(ctx context.Context, c models.Course) (string, error)
	// UpdateCourse replaces one field and stamps the updater.
	UpdateCourse(ctx context.Context, id string, ch models.CourseChange, by int64) error
	DeleteCourse(ctx context.Context, id string) error
}

// Registrations records finished sign-ups.
type Registrations interface {
	CreateRegistration(ctx context.Context, r models.Registration) (string, error)
}

// Users tracks everyone who talked to the bot.
type Users interface {
	// TouchUser merges the profile fields of u and refreshes last_seen.
	TouchUser(ctx context.Context, u models.User) error
	// MarkSubscribed merges the subscription flag and timestamp.
	MarkSubscribed(ctx context.Context, userID int64) error
	ListUserIDs(ctx context.Context) ([]int64, error)
}

// Store is everything a storage driver provides.
type Store interface {
	Courses
	Registrations
	Users
	Stats(ctx context.Context) (models.Stats, error)
	io.Closer
}
