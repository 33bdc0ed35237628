package middleware

import (
	"log/slog"

	"github.com/itcenter/coursebot/core/logger"
	tghelpers "github.com/itcenter/coursebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	AdminID int64
	// OnReject runs for non-admin callers. When nil the update is dropped
	// silently (a pending button press is still acknowledged).
	OnReject tele.HandlerFunc
}

// IsAdmin reports whether the update comes from the configured admin.
func (o AdminOptions) IsAdmin(c tele.Context) bool {
	return o.AdminID != 0 && tghelpers.SenderID(c) == o.AdminID
}

// AdminOnlyMiddleware ensures that only the admin user can invoke downstream handlers.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.IsAdmin(c) {
				return next(c)
			}
			logger.LogEvent(tghelpers.BuildContext(c), logger.TG, slog.LevelDebug, "access.denied",
				slog.String("status", "denied"),
			)
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return tghelpers.Answer(c)
		}
	}
}
