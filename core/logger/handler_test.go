package logger

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLine(t *testing.T, format logFormat, emit func(*slog.Logger)) string {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	h := newStructuredHandler(handlerConfig{
		level:    slog.LevelDebug,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	emit(slog.New(h))
	require.NoError(t, aw.Flush())
	require.NoError(t, aw.Close())
	return strings.TrimSpace(buf.String())
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(context.Background(), "rid-123"), 42, 7, 9)
	line := captureLine(t, formatKV, func(l *slog.Logger) {
		LogEvent(ctx, l.With("component", CompDialog), slog.LevelInfo, "registration.created",
			slog.String("status", "OK"),
			slog.String("course", "Go backend"),
		)
	})

	tokens := strings.Split(line, " ")
	expected := []string{"ts=", "level=INFO", "component=dialog", "event=registration.created", "status=ok", "rid=rid-123", "update_id=42", "user_id=7", "chat_id=9"}
	require.GreaterOrEqual(t, len(tokens), len(expected), line)
	for i, prefix := range expected {
		assert.True(t, strings.HasPrefix(tokens[i], prefix), "token %d = %s, want prefix %s", i, tokens[i], prefix)
	}
	assert.Contains(t, line, `course="Go backend"`)
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	ctx := WithRID(context.Background(), "rid-json")
	line := captureLine(t, formatJSON, func(l *slog.Logger) {
		LogEvent(ctx, l.With("component", CompStore), slog.LevelError, "course.update_failed",
			slog.String("status", "fail"),
			slog.Any("err", errors.New("boom")),
		)
	})

	require.True(t, strings.HasPrefix(line, "{"), line)
	pos := -1
	for _, pref := range []string{`{"ts":`, `"level":"ERROR"`, `"component":"store"`, `"event":"course.update_failed"`, `"status":"fail"`, `"rid":"rid-json"`, `"err":"boom"`} {
		idx := strings.Index(line, pref)
		require.Greater(t, idx, pos, "prefix %s out of order in %s", pref, line)
		pos = idx
	}
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	raw := BuildRID(123, 456, 789)
	ctx := WithRID(context.Background(), raw)

	kv := captureLine(t, formatKV, func(l *slog.Logger) { LogEvent(ctx, l, slog.LevelInfo, "rid.test") })
	assert.Contains(t, kv, "rid="+CompactRID(raw))
	assert.NotContains(t, kv, "rid_full=")
	assert.Contains(t, kv, "component=app")

	js := captureLine(t, formatJSON, func(l *slog.Logger) { LogEvent(ctx, l, slog.LevelInfo, "rid.test") })
	assert.Contains(t, js, `"rid":"`+CompactRID(raw)+`"`)
	assert.Contains(t, js, `"rid_full":"`+raw+`"`)
	assert.Contains(t, js, `"ts_unix_nano"`)
}

func TestStructuredHandlerValues(t *testing.T) {
	line := captureLine(t, formatKV, func(l *slog.Logger) {
		l.WithGroup("gate").Info("check",
			slog.Duration("duration", 1500*time.Microsecond),
			slog.String("empty", ""),
		)
		l.Info("summary", slog.String("outcome", "weird"), slog.Duration("lookup", 2*time.Second))
	})
	lines := strings.Split(line, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "event=check")
	assert.Contains(t, lines[0], "gate.duration_ms=2")
	assert.NotContains(t, lines[0], "empty")
	assert.NotContains(t, lines[1], "outcome=")
	assert.Contains(t, lines[1], "lookup_ms=2000")
}

func TestRatioSampler(t *testing.T) {
	s := newRatioSampler(1, 3)
	var got []bool
	for i := 0; i < 6; i++ {
		got = append(got, s.Allow())
	}
	assert.Equal(t, []bool{true, false, false, true, false, false}, got)

	s.Set(0, 0)
	assert.True(t, s.Allow())
}

func TestParseRatio(t *testing.T) {
	cases := map[string][2]int{"": {1, 50}, "2/5": {2, 5}, "10": {1, 10}, "x": {1, 50}, "0": {1, 0}}
	for in, want := range cases {
		num, den := parseRatio(in)
		assert.Equal(t, want, [2]int{num, den}, in)
	}
}

func TestSanitizeLimit(t *testing.T) {
	assert.Equal(t, "ab\tc", SanitizeLimit("a\x00b\tc\u200b", 10))
	assert.Equal(t, "Али", SanitizeLimit("Алишер", 3))
	assert.Equal(t, "", SanitizeLimit("abc", 0))
}

func TestContextMetaIsCopied(t *testing.T) {
	base := WithHandler(context.Background(), "start")
	child := WithUpdateMeta(base, 1, 2, 3)
	assert.Equal(t, "start", HandlerFrom(child))
	assert.EqualValues(t, 0, UserIDFrom(base))
	assert.EqualValues(t, 2, UserIDFrom(child))
	assert.EqualValues(t, 3, ChatIDFrom(child))
	assert.Equal(t, 1, UpdateIDFrom(child))
}
