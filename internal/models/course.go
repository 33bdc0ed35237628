// Package models holds the records the bot reads and writes.
package models

import (
	"fmt"
	"time"
)

// Course is an entry of the catalog shown to students.
type Course struct {
	ID            string    `firestore:"-" db:"id"`
	Name          string    `firestore:"name" db:"name" validate:"required,min=3,max=128"`
	DurationWeeks int       `firestore:"duration_weeks" db:"duration_weeks" validate:"min=1,max=24"`
	Price         int64     `firestore:"price" db:"price" validate:"min=0"`
	Description   string    `firestore:"description" db:"description" validate:"max=1024"`
	CreatedAt     time.Time `firestore:"created_at,omitempty" db:"created_at"`
	UpdatedAt     time.Time `firestore:"updated_at,omitempty" db:"updated_at"`
	CreatedBy     int64     `firestore:"created_by,omitempty" db:"created_by"`
	UpdatedBy     int64     `firestore:"updated_by,omitempty" db:"updated_by"`
}

// CourseField names one editable attribute of a Course.
type CourseField int

const (
	FieldName CourseField = iota + 1
	FieldDuration
	FieldPrice
	FieldDescription
)

// CourseFields lists the editable fields in menu order.
var CourseFields = []CourseField{FieldName, FieldDuration, FieldPrice, FieldDescription}

// Key is the stable identifier used in callback payloads and storage.
func (f CourseField) Key() string {
	switch f {
	case FieldName:
		return "name"
	case FieldDuration:
		return "duration_weeks"
	case FieldPrice:
		return "price"
	case FieldDescription:
		return "description"
	}
	return ""
}

func (f CourseField) String() string {
	if k := f.Key(); k != "" {
		return k
	}
	return fmt.Sprintf("CourseField(%d)", int(f))
}

// ParseCourseField resolves a key produced by CourseField.Key.
func ParseCourseField(key string) (CourseField, bool) {
	for _, f := range CourseFields {
		if f.Key() == key {
			return f, true
		}
	}
	return 0, false
}

// CourseChange is a single-field replacement of a Course. The set of
// implementations is closed: NameChange, DurationChange, PriceChange and
// DescriptionChange.
type CourseChange interface {
	Field() CourseField
	// Value returns the new value in its storage representation.
	Value() any
	Apply(c *Course)
	sealed()
}

type NameChange struct{ Name string }

type DurationChange struct{ Weeks int }

type PriceChange struct{ Price int64 }

type DescriptionChange struct{ Text string }

func (NameChange) Field() CourseField        { return FieldName }
func (DurationChange) Field() CourseField    { return FieldDuration }
func (PriceChange) Field() CourseField       { return FieldPrice }
func (DescriptionChange) Field() CourseField { return FieldDescription }

func (ch NameChange) Value() any        { return ch.Name }
func (ch DurationChange) Value() any    { return ch.Weeks }
func (ch PriceChange) Value() any       { return ch.Price }
func (ch DescriptionChange) Value() any { return ch.Text }

func (ch NameChange) Apply(c *Course)        { c.Name = ch.Name }
func (ch DurationChange) Apply(c *Course)    { c.DurationWeeks = ch.Weeks }
func (ch PriceChange) Apply(c *Course)       { c.Price = ch.Price }
func (ch DescriptionChange) Apply(c *Course) { c.Description = ch.Text }

func (NameChange) sealed()        {}
func (DurationChange) sealed()    {}
func (PriceChange) sealed()       {}
func (DescriptionChange) sealed() {}
