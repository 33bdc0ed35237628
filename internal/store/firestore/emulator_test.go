package firestore

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itcenter/coursebot/internal/models"
	"github.com/itcenter/coursebot/internal/store"
)

// openEmulator connects to the Firestore emulator under a fresh project so
// runs do not share documents. The client picks up FIRESTORE_EMULATOR_HOST.
func openEmulator(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST is not set")
	}
	project := "coursebot-test-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	s, err := Open(context.Background(), Config{ProjectID: project})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestEmulatorCourses(t *testing.T) {
	s := openEmulator(t)
	ctx := context.Background()

	id, err := s.CreateCourse(ctx, models.Course{Name: "Frontend", DurationWeeks: 10, Price: 300000, CreatedBy: 42})
	require.NoError(t, err)

	got, err := s.GetCourse(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Frontend", got.Name)
	assert.Equal(t, int64(300000), got.Price)

	require.NoError(t, s.UpdateCourse(ctx, id, models.DurationChange{Weeks: 12}, 42))
	got, err = s.GetCourse(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 12, got.DurationWeeks)
	assert.Equal(t, int64(42), got.UpdatedBy)

	assert.ErrorIs(t, s.UpdateCourse(ctx, "missing", models.NameChange{Name: "Backend"}, 42), store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteCourse(ctx, "missing"), store.ErrNotFound)

	require.NoError(t, s.DeleteCourse(ctx, id))
	_, err = s.GetCourse(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteCourse(ctx, id), store.ErrNotFound)

	list, err := s.ListCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmulatorUsersAndStats(t *testing.T) {
	s := openEmulator(t)
	ctx := context.Background()

	require.NoError(t, s.TouchUser(ctx, models.User{TelegramID: 7, Username: "ali", FirstName: "Ali"}))
	require.NoError(t, s.MarkSubscribed(ctx, 8))
	require.NoError(t, s.TouchUser(ctx, models.User{TelegramID: 7, FirstName: "Ali"}))
	// A document whose key is not a Telegram id is skipped.
	_, err := s.client.Collection(colUsers).Doc("import-note").Set(ctx, map[string]any{"note": "x"})
	require.NoError(t, err)

	ids, err := s.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{7, 8}, ids)

	_, err = s.CreateCourse(ctx, models.Course{Name: "Python", DurationWeeks: 8, Price: 400000})
	require.NoError(t, err)
	_, err = s.CreateRegistration(ctx, models.Registration{TelegramID: 7, FullName: "Ali Valiyev", Age: "25", Phone: "+998901234567", Course: "Python"})
	require.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Users: 3, Courses: 1, Registrations: 1}, st)
}
