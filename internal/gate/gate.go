// Package gate restricts the bot to members of a required channel.
package gate

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/itcenter/coursebot/core/logger"
	"github.com/itcenter/coursebot/core/metrics"
	tghelpers "github.com/itcenter/coursebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// MembershipAPI is the Bot API call the gate depends on.
type MembershipAPI interface {
	ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error)
}

// Channel identifies the required channel: "@username" or a numeric id.
type Channel string

func (c Channel) Recipient() string { return string(c) }

// Subscribed reports whether a membership status counts as joined.
func Subscribed(status tele.MemberStatus) bool {
	switch status {
	case tele.Member, tele.Administrator, tele.Creator:
		return true
	}
	return false
}

// Gate decides whether a user may use the gated features. Its zero
// channel disables the check.
type Gate struct {
	channel Channel
	adminID int64

	mu  sync.RWMutex
	api MembershipAPI
}

// New builds a gate for channel. adminID always passes.
func New(channel string, adminID int64) *Gate {
	return &Gate{channel: Channel(channel), adminID: adminID}
}

// Bind sets the Bot API client once the bot exists.
func (g *Gate) Bind(api MembershipAPI) {
	g.mu.Lock()
	g.api = api
	g.mu.Unlock()
}

// Enabled reports whether a channel is configured.
func (g *Gate) Enabled() bool { return g.channel != "" }

// IsSubscribed asks Telegram for the user's status in the channel. Lookup
// failures count as not subscribed.
func (g *Gate) IsSubscribed(ctx context.Context, userID int64) bool {
	g.mu.RLock()
	api := g.api
	g.mu.RUnlock()
	if api == nil {
		logger.LogEvent(ctx, logger.Gate, slog.LevelError, "gate.lookup_failed",
			slog.String("status", "fail"),
			slog.String("cause", "not bound"),
		)
		return false
	}
	member, err := api.ChatMemberOf(g.channel, tele.ChatID(userID))
	if err != nil || member == nil {
		attrs := []slog.Attr{
			slog.String("status", "fail"),
			slog.String("channel", string(g.channel)),
		}
		if err != nil {
			attrs = append(attrs, logger.Err(err))
		}
		logger.LogEvent(ctx, logger.Gate, slog.LevelWarn, "gate.lookup_failed", attrs...)
		return false
	}
	ok := Subscribed(member.Role)
	logger.LogEvent(ctx, logger.Gate, slog.LevelDebug, "gate.checked",
		slog.String("status", "ok"),
		slog.String("member_status", string(member.Role)),
		slog.Bool("allowed", ok),
	)
	return ok
}

// Allowed applies the admin bypass and the disabled state before asking
// Telegram. It is evaluated on every call; nothing is cached.
func (g *Gate) Allowed(ctx context.Context, userID int64) bool {
	if !g.Enabled() || (g.adminID != 0 && userID == g.adminID) {
		return true
	}
	ok := g.IsSubscribed(ctx, userID)
	metrics.Default.Gate(ok)
	return ok
}

// Require wraps a handler so that users outside the channel get denied
// instead.
func (g *Gate) Require(denied tele.HandlerFunc) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if g.Allowed(tghelpers.BuildContext(c), tghelpers.SenderID(c)) {
				return next(c)
			}
			return denied(c)
		}
	}
}

// String is used in log lines.
func (g *Gate) String() string {
	if !g.Enabled() {
		return "disabled"
	}
	return string(g.channel) + " admin=" + strconv.FormatInt(g.adminID, 10)
}
