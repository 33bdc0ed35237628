package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itcenter/coursebot/internal/models"
)

func TestValidateAge(t *testing.T) {
	cases := map[string]bool{
		"25": true, " 5 ": true, "100": true,
		"4": false, "101": false, "abc": false, "": false, "2.5": false, "-20": false,
	}
	for in, want := range cases {
		assert.Equal(t, want, ValidateAge(in), "age %q", in)
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"Ahmadjon Valiyev", "Ўткир Қодиров", "Jean-Luc O'Neil", "  Ali   Valiyev  ", "G'ayrat Xo‘jayev"}
	for _, in := range valid {
		assert.True(t, ValidateName(in), in)
	}
	invalid := []string{"A1", "Ali", "", "Ali 2", "Ali_Vali Valiyev", "<b>Ali</b> x"}
	for _, in := range invalid {
		assert.False(t, ValidateName(in), in)
	}
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+998901234567"))
	assert.True(t, ValidatePhone("90 123-45-67"))
	assert.True(t, ValidatePhone("(90)1234567"))
	assert.False(t, ValidatePhone("12"))
	assert.False(t, ValidatePhone("+99890123456789012"))
	assert.False(t, ValidatePhone("phone 901234567"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+998901234567", NormalizePhone("901234567", ""))
	assert.Equal(t, "+998901234567", NormalizePhone("998901234567", ""))
	assert.Equal(t, "+998901234567", NormalizePhone("+998 (90) 123-45-67", "998"))
	assert.Equal(t, "abc", NormalizePhone("abc", ""))
	assert.Equal(t, "+7 912 345", NormalizePhone("+7 912 345", ""))
	assert.Equal(t, "+77123456789", NormalizePhone("77123456789", "7"))
}

func TestCourseFieldParsers(t *testing.T) {
	name, err := ParseCourseName("  Go  ")
	require.Error(t, err)
	assert.Empty(t, name)
	assert.True(t, errors.Is(err, ErrInvalid))

	name, err = ParseCourseName(" Python ")
	require.NoError(t, err)
	assert.Equal(t, "Python", name)

	for in, want := range map[string]int{"1": 1, "24": 24, " 8 ": 8} {
		got, err := ParseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	for _, in := range []string{"0", "25", "x", ""} {
		_, err := ParseDuration(in)
		assert.Error(t, err, in)
	}

	price, err := ParsePrice("300 000")
	require.NoError(t, err)
	assert.Equal(t, int64(300000), price)
	_, err = ParsePrice("-1")
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, models.FieldPrice, fe.Field)

	_, err = ParseCourseName(strings.Repeat("я", MaxCourseName+1))
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, models.FieldName, fe.Field)
	name, err = ParseCourseName(strings.Repeat("я", MaxCourseName))
	require.NoError(t, err)
	assert.Len(t, []rune(name), MaxCourseName)

	for in, want := range map[string]string{"Yo'q": "", " - ": "", " Amaliy kurs ": "Amaliy kurs"} {
		got, err := ParseDescription(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err = ParseDescription(strings.Repeat("a", MaxDescription+1))
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, models.FieldDescription, fe.Field)
}

func TestParseChange(t *testing.T) {
	ch, err := ParseChange(models.FieldDuration, "12")
	require.NoError(t, err)
	assert.Equal(t, models.DurationChange{Weeks: 12}, ch)

	ch, err = ParseChange(models.FieldDescription, "yo'q")
	require.NoError(t, err)
	assert.Equal(t, models.DescriptionChange{}, ch)

	_, err = ParseChange(models.FieldName, "ab")
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = ParseChange(models.FieldName, strings.Repeat("x", MaxCourseName+1))
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = ParseChange(models.FieldDescription, strings.Repeat("x", MaxDescription+1))
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = ParseChange(models.CourseField(0), "x")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidateCourse(t *testing.T) {
	require.NoError(t, ValidateCourse(models.Course{Name: "Frontend", DurationWeeks: 10, Price: 300000}))
	assert.ErrorIs(t, ValidateCourse(models.Course{Name: "Go", DurationWeeks: 10}), ErrInvalid)
	assert.ErrorIs(t, ValidateCourse(models.Course{Name: "Frontend", DurationWeeks: 30}), ErrInvalid)
	assert.ErrorIs(t, ValidateCourse(models.Course{Name: "Frontend", DurationWeeks: 3, Price: -5}), ErrInvalid)

	// The struct tags agree with the step parsers.
	long := models.Course{Name: strings.Repeat("я", MaxCourseName), DurationWeeks: MaxWeeks, Description: strings.Repeat("я", MaxDescription)}
	require.NoError(t, ValidateCourse(long))
	long.Description += "я"
	var fe *FieldError
	require.ErrorAs(t, ValidateCourse(long), &fe)
	assert.Equal(t, models.FieldDescription, fe.Field)
}
