package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseChangeApply(t *testing.T) {
	c := Course{Name: "Frontend", DurationWeeks: 10, Price: 300000}
	changes := []CourseChange{
		NameChange{Name: "Backend"},
		DurationChange{Weeks: 12},
		PriceChange{Price: 0},
		DescriptionChange{Text: "Go"},
	}
	for _, ch := range changes {
		ch.Apply(&c)
	}
	assert.Equal(t, Course{Name: "Backend", DurationWeeks: 12, Price: 0, Description: "Go"}, c)
	assert.Equal(t, FieldPrice, changes[2].Field())
	assert.Equal(t, int64(0), changes[2].Value())
}

func TestParseCourseField(t *testing.T) {
	for _, f := range CourseFields {
		got, ok := ParseCourseField(f.Key())
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}
	_, ok := ParseCourseField("created_at")
	assert.False(t, ok)
	assert.Equal(t, "CourseField(9)", CourseField(9).String())
}
