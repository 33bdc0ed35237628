package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/itcenter/coursebot/internal/models"
)

// ErrInvalid is wrapped by every FieldError.
var ErrInvalid = errors.New("invalid value")

// FieldError reports which course field rejected the input.
type FieldError struct {
	Field  models.CourseField
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalid }

func invalid(f models.CourseField, reason string) error {
	return &FieldError{Field: f, Reason: reason}
}

// Course field limits. The validate tags on models.Course carry the same
// numbers.
const (
	MinCourseName  = 3
	MaxCourseName  = 128
	MinWeeks       = 1
	MaxWeeks       = 24
	MaxDescription = 1024
)

// noneWords map to an empty description.
var noneWords = map[string]struct{}{
	"yo'q": {}, "yo’q": {}, "yoq": {}, "-": {}, "none": {},
}

// ParseCourseName trims the name and requires MinCourseName..MaxCourseName
// characters.
func ParseCourseName(text string) (string, error) {
	name := strings.TrimSpace(text)
	switch n := utf8.RuneCountInString(name); {
	case n < MinCourseName:
		return "", invalid(models.FieldName, "too short")
	case n > MaxCourseName:
		return "", invalid(models.FieldName, "too long")
	}
	return name, nil
}

// ParseDuration reads a whole number of weeks within MinWeeks..MaxWeeks.
func ParseDuration(text string) (int, error) {
	weeks, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, invalid(models.FieldDuration, "not a number")
	}
	if weeks < MinWeeks || weeks > MaxWeeks {
		return 0, invalid(models.FieldDuration, "out of range")
	}
	return weeks, nil
}

// ParsePrice reads a non-negative amount. Digit group separators
// ("300 000", "300_000") are accepted.
func ParsePrice(text string) (int64, error) {
	raw := strings.NewReplacer(" ", "", "_", "", "\u00a0", "").Replace(strings.TrimSpace(text))
	price, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalid(models.FieldPrice, "not a number")
	}
	if price < 0 {
		return 0, invalid(models.FieldPrice, "negative")
	}
	return price, nil
}

// ParseDescription maps the "none" words to an empty description and caps
// the length at MaxDescription characters.
func ParseDescription(text string) (string, error) {
	desc := strings.TrimSpace(text)
	if _, ok := noneWords[strings.ToLower(desc)]; ok {
		return "", nil
	}
	if utf8.RuneCountInString(desc) > MaxDescription {
		return "", invalid(models.FieldDescription, "too long")
	}
	return desc, nil
}

// ParseChange validates text with the rule of field and returns the change.
func ParseChange(field models.CourseField, text string) (models.CourseChange, error) {
	switch field {
	case models.FieldName:
		name, err := ParseCourseName(text)
		if err != nil {
			return nil, err
		}
		return models.NameChange{Name: name}, nil
	case models.FieldDuration:
		weeks, err := ParseDuration(text)
		if err != nil {
			return nil, err
		}
		return models.DurationChange{Weeks: weeks}, nil
	case models.FieldPrice:
		price, err := ParsePrice(text)
		if err != nil {
			return nil, err
		}
		return models.PriceChange{Price: price}, nil
	case models.FieldDescription:
		desc, err := ParseDescription(text)
		if err != nil {
			return nil, err
		}
		return models.DescriptionChange{Text: desc}, nil
	}
	return nil, fmt.Errorf("unknown course field %s: %w", field, ErrInvalid)
}

var (
	structOnce sync.Once
	structV    *validator.Validate
)

func structValidator() *validator.Validate {
	structOnce.Do(func() { structV = validator.New() })
	return structV
}

var structFields = map[string]models.CourseField{
	"Name":          models.FieldName,
	"DurationWeeks": models.FieldDuration,
	"Price":         models.FieldPrice,
	"Description":   models.FieldDescription,
}

// ValidateCourse checks a course assembled by the admin wizard before it is
// written. A rejected attribute is reported as a *FieldError.
func ValidateCourse(c models.Course) error {
	err := structValidator().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if f, ok := structFields[verrs[0].StructField()]; ok {
			return invalid(f, verrs[0].Tag())
		}
	}
	return fmt.Errorf("course: %w: %v", ErrInvalid, err)
}
