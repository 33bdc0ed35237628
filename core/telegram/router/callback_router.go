package router

import (
	"log/slog"
	"time"

	tg "github.com/itcenter/coursebot/core/telegram"
	"github.com/itcenter/coursebot/core/telegram/callbacks"
	tghelpers "github.com/itcenter/coursebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute returns a handler that routes button presses through the
// registry by their unique key. The press is acknowledged after the
// handler runs unless the handler already answered it.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		key, _ := callbacks.Parse(c.Callback())
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		run, ok := reg.GetCallback(key)
		if !ok || run == nil {
			run = reg.CallbackNotFound()
			if run == nil {
				run = opts.NotFound
			}
			extras = append(extras, slog.String("reason", "not_found"))
		}

		err := handleWithSummary(c, name, start, func() error {
			if run == nil {
				return nil
			}
			return run(c)
		}, extras...)
		if answerErr := tghelpers.Answer(c); err == nil {
			err = answerErr
		}
		return err
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: handler}
}
