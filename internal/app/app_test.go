package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/itcenter/coursebot/core/config"
	tg "github.com/itcenter/coursebot/core/telegram"
	"github.com/itcenter/coursebot/internal/models"
	"github.com/itcenter/coursebot/internal/store"
)

type nopStore struct{ closed bool }

func (*nopStore) ListCourses(context.Context) ([]models.Course, error) { return nil, nil }
func (*nopStore) GetCourse(context.Context, string) (models.Course, error) {
	return models.Course{}, store.ErrNotFound
}
func (*nopStore) CreateCourse(context.Context, models.Course) (string, error) { return "c", nil }
func (*nopStore) UpdateCourse(context.Context, string, models.CourseChange, int64) error {
	return nil
}
func (*nopStore) DeleteCourse(context.Context, string) error { return nil }
func (*nopStore) CreateRegistration(context.Context, models.Registration) (string, error) {
	return "r", nil
}
func (*nopStore) TouchUser(context.Context, models.User) error { return nil }
func (*nopStore) MarkSubscribed(context.Context, int64) error { return nil }
func (*nopStore) ListUserIDs(context.Context) ([]int64, error) { return nil, nil }
func (*nopStore) Stats(context.Context) (models.Stats, error) { return models.Stats{}, nil }
func (s *nopStore) Close() error { s.closed = true; return nil }

func TestTelegramRunOptions(t *testing.T) {
	cfg := &Config{
		Config: coreconfig.Config{Telegram: coreconfig.TelegramConfig{Token: "1:x", AdminID: 42}},
		Bot:    BotConfig{OperatorChatID: -100, RequiredChannel: "@itcenter"},
	}
	st := &nopStore{}
	a, err := New(cfg, st)
	require.NoError(t, err)

	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)
	assert.Same(t, &cfg.Config, opts.Config)
	assert.NotEmpty(t, opts.Middlewares)

	endpoints := map[any]bool{}
	for _, r := range opts.Routes {
		endpoints[r.Endpoint] = true
	}
	for _, e := range []any{"/start", "/cancel", "/register", "/broadcast", tele.OnText, tele.OnContact, tele.OnPhoto, tele.OnCallback} {
		assert.True(t, endpoints[e], e)
	}

	require.NoError(t, opts.OnStop(context.Background(), tg.Runtime{}))
	assert.True(t, st.closed)
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(&Config{}, nil)
	assert.Error(t, err)
}
