package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/itcenter/coursebot/core/telegram/callbacks"
	"github.com/itcenter/coursebot/core/telegram/keyboard"
	"github.com/itcenter/coursebot/core/telegram/teletest"
)

func counting(n *int) tele.HandlerFunc {
	return func(tele.Context) error {
		*n++
		return nil
	}
}

func TestAdminOnly(t *testing.T) {
	var calls, rejected int
	mw := AdminOnlyMiddleware(AdminOptions{AdminID: 1, OnReject: counting(&rejected)})
	h := mw(counting(&calls))

	require.NoError(t, h(teletest.NewText(1, 1, "/stats")))
	require.NoError(t, h(teletest.NewText(2, 2, "/stats")))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, rejected)

	// Without an admin id nobody passes.
	h = AdminOnlyMiddleware(AdminOptions{})(counting(&calls))
	c := teletest.NewCallback(1, 1, callbacks.Data("course_delete", "x"))
	require.NoError(t, h(c))
	assert.Equal(t, 1, calls)
	assert.Len(t, c.Responses, 1)
}

func TestRateLimit(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	var calls, limited int
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval:  time.Second,
		Exclude:   map[string]struct{}{"callback": {}},
		OnLimited: counting(&limited),
		Now:       func() time.Time { return now },
	})
	h := mw(counting(&calls))

	require.NoError(t, h(teletest.NewText(1, 1, "a")))
	require.NoError(t, h(teletest.NewText(1, 1, "b")))
	require.NoError(t, h(teletest.NewText(2, 2, "c")))
	require.NoError(t, h(teletest.NewCallback(1, 1, callbacks.Data("sub_check", ""))))
	now = now.Add(1500 * time.Millisecond)
	require.NoError(t, h(teletest.NewText(1, 1, "d")))

	assert.Equal(t, 4, calls)
	assert.Equal(t, 1, limited)
}

func TestRecoverTurnsPanicIntoError(t *testing.T) {
	h := RecoverMiddleware(func(tele.Context) error { panic("boom") })
	err := h(teletest.NewText(1, 1, "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestMessageMetricsCounts(t *testing.T) {
	c := teletest.NewText(1, 1, "x")
	h := MessageMetricsMiddleware(func(c tele.Context) error {
		if err := c.Send("one"); err != nil {
			return err
		}
		return c.Send("two", keyboard.RemoveKeyboard())
	})
	require.NoError(t, h(c))

	n, kb := GetCounters(c)
	assert.Equal(t, 2, n)
	assert.True(t, kb)
	assert.Len(t, c.Sent, 2)
}

func TestLoggerSetsRID(t *testing.T) {
	c := teletest.NewText(5, 6, "x")
	var rid string
	h := LoggerMiddleware(func(c tele.Context) error {
		rid, _ = c.Get("rid").(string)
		return nil
	})
	require.NoError(t, h(c))
	assert.NotEmpty(t, rid)
	assert.Equal(t, "contact", messageKind(&tele.Message{Contact: &tele.Contact{}}))
	assert.Equal(t, "text", messageKind(&tele.Message{Text: "hi"}))
}
