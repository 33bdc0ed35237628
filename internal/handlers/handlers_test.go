package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	tg "github.com/itcenter/coursebot/core/telegram"
	"github.com/itcenter/coursebot/core/telegram/callbacks"
	"github.com/itcenter/coursebot/core/telegram/middleware"
	"github.com/itcenter/coursebot/core/telegram/router"
	"github.com/itcenter/coursebot/core/telegram/teletest"
	"github.com/itcenter/coursebot/internal/dialog"
	"github.com/itcenter/coursebot/internal/gate"
	"github.com/itcenter/coursebot/internal/models"
	"github.com/itcenter/coursebot/internal/store"
	"github.com/itcenter/coursebot/internal/ui"
)

const (
	adminID    = 42
	operatorID = -100500
	memberID   = 7
	outsiderID = 8
)

type fakeStore struct {
	courses    []models.Course
	touched    []models.User
	subscribed []int64
	listErr    error
}

func (f *fakeStore) ListCourses(context.Context) ([]models.Course, error) {
	return f.courses, f.listErr
}

func (f *fakeStore) GetCourse(_ context.Context, id string) (models.Course, error) {
	for _, c := range f.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Course{}, store.ErrNotFound
}

func (f *fakeStore) CreateCourse(context.Context, models.Course) (string, error) { return "c-new", nil }

func (f *fakeStore) UpdateCourse(context.Context, string, models.CourseChange, int64) error {
	return nil
}

func (f *fakeStore) DeleteCourse(context.Context, string) error { return nil }

func (f *fakeStore) CreateRegistration(context.Context, models.Registration) (string, error) {
	return "r-1", nil
}

func (f *fakeStore) ListUserIDs(context.Context) ([]int64, error) { return nil, nil }

func (f *fakeStore) TouchUser(_ context.Context, u models.User) error {
	f.touched = append(f.touched, u)
	return nil
}

func (f *fakeStore) MarkSubscribed(_ context.Context, id int64) error {
	f.subscribed = append(f.subscribed, id)
	return nil
}

func (f *fakeStore) Stats(context.Context) (models.Stats, error) {
	return models.Stats{Users: 3, Courses: len(f.courses), Registrations: 5}, nil
}

type fixture struct {
	st      *fakeStore
	members *teletest.Bot
	text    tele.HandlerFunc
	media   tele.HandlerFunc
	press   tele.HandlerFunc
	cmd     map[string]tele.HandlerFunc
}

// newFixture wires handlers the same way the app does, with a gate on
// @itcenter where memberID is subscribed.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := &fakeStore{courses: []models.Course{{ID: "c-1", Name: "Frontend", DurationWeeks: 10, Price: 300000}}}
	bot := &teletest.Bot{Members: map[int64]tele.MemberStatus{memberID: tele.Member}}

	g := gate.New("@itcenter", adminID)
	g.Bind(bot)
	eng := dialog.New(st, dialog.Config{OperatorChatID: operatorID, AdminID: adminID})
	eng.Bind(bot)

	h := New(Deps{Store: st, Engine: eng, Gate: g, AdminID: adminID, ChannelURL: "https://t.me/itcenter"})
	reg := tg.NewRegistry()
	require.NoError(t, h.Register(reg))

	admin := middleware.AdminOptions{AdminID: adminID}
	f := &fixture{st: st, members: bot, cmd: map[string]tele.HandlerFunc{}}
	for _, r := range router.TextRoutes(eng, reg, admin, h) {
		switch r.Endpoint {
		case tele.OnText:
			f.text = r.Handler
		case tele.OnPhoto:
			f.media = r.Handler
		}
	}
	for _, r := range router.CommandRoutes(reg, admin) {
		f.cmd[r.Endpoint.(string)] = r.Handler
	}
	f.press = router.CallbackRoute(reg, router.CallbackOptions{}).Handler
	return f
}

func (f *fixture) say(t *testing.T, user int64, text string) *teletest.Context {
	t.Helper()
	c := teletest.NewText(user, user, text)
	require.NoError(t, f.text(c))
	return c
}

func hasReplyButton(m *tele.ReplyMarkup, label string) bool {
	if m == nil {
		return false
	}
	for _, row := range m.ReplyKeyboard {
		for _, b := range row {
			if b.Text == label {
				return true
			}
		}
	}
	return false
}

func TestStartRecordsUserAndShowsMenu(t *testing.T) {
	f := newFixture(t)

	c := teletest.NewText(memberID, memberID, "/start")
	require.NoError(t, f.cmd["/start"](c))
	require.Len(t, f.st.touched, 1)
	assert.Equal(t, models.User{TelegramID: memberID, Username: "user7", FirstName: "User7"}, f.st.touched[0])
	assert.Contains(t, c.Last().Text(), "User7")
	assert.False(t, hasReplyButton(c.Last().Markup(), ui.LabelAdmin))

	c = teletest.NewText(adminID, adminID, "/start")
	require.NoError(t, f.cmd["/start"](c))
	assert.True(t, hasReplyButton(c.Last().Markup(), ui.LabelAdmin))
}

func TestGateBlocksOutsiders(t *testing.T) {
	f := newFixture(t)

	c := f.say(t, outsiderID, ui.LabelCourses)
	assert.Equal(t, ui.SubscribeRequired, c.Last().Text())
	require.NotNil(t, c.Last().Markup())
	assert.Len(t, c.Last().Markup().InlineKeyboard, 2)

	c = f.say(t, memberID, ui.LabelCourses)
	assert.Contains(t, c.Last().Text(), "Frontend")

	// /start is never gated.
	c = teletest.NewText(outsiderID, outsiderID, "/start")
	require.NoError(t, f.cmd["/start"](c))
	assert.Contains(t, c.Last().Text(), "xush kelibsiz")
}

func TestCoursesFailure(t *testing.T) {
	f := newFixture(t)
	f.st.listErr = errors.New("unavailable")

	c := f.say(t, memberID, ui.LabelCourses)
	assert.Equal(t, ui.CoursesFailed, c.Last().Text())
}

func TestStaticSections(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, ui.ContactInfo, f.say(t, memberID, ui.LabelContact).Last().Text())
	assert.Equal(t, ui.AboutInfo, f.say(t, memberID, ui.LabelAbout).Last().Text())
	assert.Equal(t, ui.BackToMenu, f.say(t, memberID, ui.LabelBack).Last().Text())
}

func TestCheckSubscription(t *testing.T) {
	f := newFixture(t)

	c := teletest.NewCallback(outsiderID, outsiderID, callbacks.Data(ui.CbSubCheck, ""))
	require.NoError(t, f.press(c))
	require.Len(t, c.Responses, 1)
	assert.True(t, c.Responses[0].ShowAlert)
	assert.Equal(t, ui.NotSubscribed, c.Responses[0].Text)
	assert.Empty(t, f.st.subscribed)

	f.members.Members[outsiderID] = tele.Member
	c = teletest.NewCallback(outsiderID, outsiderID, callbacks.Data(ui.CbSubCheck, ""))
	require.NoError(t, f.press(c))
	assert.Len(t, c.Responses, 1)
	assert.Equal(t, []int64{outsiderID}, f.st.subscribed)
	require.Len(t, c.Edits, 1)
	assert.Equal(t, ui.Subscribed, c.Edits[0].Text())
	assert.Contains(t, c.Last().Text(), "xush kelibsiz")
}

func TestAdminEntriesRejectOthers(t *testing.T) {
	f := newFixture(t)

	c := f.say(t, memberID, ui.LabelStats)
	assert.Empty(t, c.Sent)

	c = f.say(t, adminID, ui.LabelStats)
	assert.Contains(t, c.Last().Text(), "Kurslar: 1")

	c = teletest.NewCallback(memberID, memberID, callbacks.Data(ui.CbCourseDelete, "c-1"))
	require.NoError(t, f.press(c))
	assert.Empty(t, c.Edits)
	assert.Len(t, c.Responses, 1)
}

func TestAdminBypassesGate(t *testing.T) {
	f := newFixture(t)
	c := f.say(t, adminID, ui.LabelContact)
	assert.Equal(t, ui.ContactInfo, c.Last().Text())
}

func TestRegisterInterruptsRunningFlow(t *testing.T) {
	f := newFixture(t)

	f.say(t, memberID, ui.LabelRegister)
	f.say(t, memberID, "Ali Valiyev")
	c := f.say(t, memberID, ui.LabelRegister)
	assert.Equal(t, ui.RegStart, c.Last().Text())

	// Plain text inside a flow is an answer, not a menu fallback.
	c = f.say(t, memberID, "hello")
	assert.NotEqual(t, ui.PickSection, c.Last().Text())
}

func TestFallbacks(t *testing.T) {
	f := newFixture(t)

	c := f.say(t, memberID, "salom")
	assert.Equal(t, ui.PickSection, c.Last().Text())

	c = f.say(t, memberID, "/unknown")
	assert.Contains(t, c.Last().Text(), "xush kelibsiz")

	c = teletest.NewPhoto(memberID, memberID, "")
	require.NoError(t, f.media(c))
	assert.Equal(t, ui.PickSection, c.Last().Text())

	c = teletest.NewCallback(memberID, memberID, callbacks.Data("stale_key", "x"))
	require.NoError(t, f.press(c))
	assert.Len(t, c.Responses, 1)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	st := &fakeStore{}
	h := New(Deps{Store: st, Engine: dialog.New(st, dialog.Config{}), Gate: gate.New("", 0)})
	reg := tg.NewRegistry()
	require.NoError(t, h.Register(reg))
	assert.Error(t, h.Register(reg))
	assert.Len(t, reg.ListCallbacks(), 5)
}
