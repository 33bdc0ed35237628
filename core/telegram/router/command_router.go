package router

import (
	"log/slog"
	"time"

	"github.com/itcenter/coursebot/core/logger"
	tg "github.com/itcenter/coursebot/core/telegram"
	"github.com/itcenter/coursebot/core/telegram/commands"
	"github.com/itcenter/coursebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRoutes binds every registered slash command, gating admin-only
// ones behind the admin check.
func CommandRoutes(reg *tg.Registry, admin middleware.AdminOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	all := reg.Commands()
	routes := make([]tg.Route, 0, len(all))
	for name, def := range all {
		routes = append(routes, tg.Route{
			Endpoint: name,
			Handler:  commandHandler(name, def, admin),
		})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(all)),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)
	return routes
}

func commandHandler(name string, def commands.Command, admin middleware.AdminOptions) tele.HandlerFunc {
	h := def.Handler
	if def.AdminOnly {
		h = middleware.AdminOnlyMiddleware(admin)(h)
	}
	handlerName := normalizeHandlerName(name)
	return func(c tele.Context) error {
		return handleWithSummary(c, handlerName, time.Now(), func() error { return h(c) })
	}
}
