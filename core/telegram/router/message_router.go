package router

import (
	"strings"
	"time"

	tg "github.com/itcenter/coursebot/core/telegram"
	tghelpers "github.com/itcenter/coursebot/core/telegram/helpers"
	"github.com/itcenter/coursebot/core/telegram/middleware"
	"github.com/itcenter/coursebot/core/telegram/ui"

	tele "gopkg.in/telebot.v4"
)

// FSM is the conversation engine the router hands free-form input to.
type FSM interface {
	InProgress(chatID int64) bool
	ManagerHandler(c tele.Context) error
}

// TextRoutes builds the handlers for text, contact and media messages.
//
// Text is resolved in order: a registered alias or command that may
// interrupt (or any, when no conversation is running), then the running
// conversation, then the registry's text fallback.
func TextRoutes(fsm FSM, reg *tg.Registry, admin middleware.AdminOptions, fb ui.FallbackProvider) []tg.Route {
	inFlow := func(c tele.Context) bool {
		return fsm != nil && fsm.InProgress(tghelpers.ChatID(c))
	}

	text := func(c tele.Context) error {
		start := time.Now()
		msg := strings.TrimSpace(c.Text())
		active := inFlow(c)

		if reg != nil {
			if name, cmd, ok := reg.LookupCommand(msg); ok && cmd.Handler != nil && (cmd.Interrupts || !active) {
				h := cmd.Handler
				if cmd.AdminOnly {
					h = middleware.AdminOnlyMiddleware(admin)(h)
				}
				return handleWithSummary(c, normalizeHandlerName(name), start, func() error { return h(c) })
			}
		}

		if active && !strings.HasPrefix(msg, "/") {
			return handleWithSummary(c, "fsm", start, func() error { return fsm.ManagerHandler(c) })
		}

		var fallback tele.HandlerFunc
		if reg != nil {
			fallback = reg.TextFallback()
		}
		if fallback == nil && fb != nil {
			fallback = fb.UnknownText()
		}
		if fallback == nil {
			logHandlerSummary(c, "unknown_text", start, "skip", nil)
			return nil
		}
		return handleWithSummary(c, "fallback", start, func() error { return fallback(c) })
	}

	media := func(c tele.Context) error {
		start := time.Now()
		if inFlow(c) {
			return handleWithSummary(c, "fsm_media", start, func() error { return fsm.ManagerHandler(c) })
		}
		if fb != nil {
			if h := fb.UnknownMedia(); h != nil {
				return handleWithSummary(c, "unexpected_media", start, func() error { return h(c) })
			}
		}
		logHandlerSummary(c, "unexpected_media", start, "skip", nil)
		return nil
	}

	return []tg.Route{
		{Endpoint: tele.OnText, Handler: text},
		{Endpoint: tele.OnContact, Handler: media},
		{Endpoint: tele.OnPhoto, Handler: media},
		{Endpoint: tele.OnVideo, Handler: media},
		{Endpoint: tele.OnDocument, Handler: media},
	}
}
