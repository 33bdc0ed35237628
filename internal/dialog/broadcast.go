package dialog

import (
	"context"
	"log/slog"

	"github.com/itcenter/coursebot/core/logger"
	"github.com/itcenter/coursebot/core/metrics"
	tghelpers "github.com/itcenter/coursebot/core/telegram/helpers"
	"github.com/itcenter/coursebot/internal/ui"

	tele "gopkg.in/telebot.v4"
)

// Tally counts broadcast deliveries.
type Tally struct {
	Sent   int
	Failed int
}

// Attempts is the number of recipients tried.
func (t Tally) Attempts() int { return t.Sent + t.Failed }

// Percent is the share of successful deliveries, 0 when nothing was tried.
func (t Tally) Percent() float64 {
	if t.Attempts() == 0 {
		return 0
	}
	return float64(t.Sent) / float64(t.Attempts()) * 100
}

// StartBroadcast asks the admin for the announcement.
func (e *Engine) StartBroadcast(c tele.Context) error {
	e.begin(c, Broadcast{})
	return tghelpers.SendHTML(c, ui.AskBroadcast, ui.CancelOnly())
}

// announcement converts the admin's message into what every recipient
// gets. It returns nil for unsupported kinds.
func announcement(m *tele.Message) any {
	if m == nil {
		return nil
	}
	switch {
	case m.Photo != nil:
		return &tele.Photo{File: m.Photo.File, Caption: ui.Announcement(m.Caption, m.CaptionEntities)}
	case m.Video != nil:
		return &tele.Video{File: m.Video.File, Caption: ui.Announcement(m.Caption, m.CaptionEntities)}
	case m.Document != nil:
		return &tele.Document{File: m.Document.File, FileName: m.Document.FileName, Caption: ui.Announcement(m.Caption, m.CaptionEntities)}
	case m.Text != "":
		return ui.Announcement(m.Text, m.Entities)
	}
	return nil
}

func (e *Engine) broadcastInput(c tele.Context) error {
	what := announcement(c.Message())
	if what == nil {
		return tghelpers.SendHTML(c, ui.BadBroadcast)
	}
	ctx := tghelpers.BuildContext(c)
	bot := e.messenger()
	if bot == nil {
		return e.fail(c, Broadcast{}, "no_messenger", errNotBound)
	}
	ids, err := e.store.ListUserIDs(ctx)
	if err != nil {
		return e.fail(c, Broadcast{}, "list_users", err)
	}
	e.end(c)

	tally := e.deliver(ctx, bot, tghelpers.ChatID(c), tghelpers.SenderID(c), ids, what)
	logger.LogEvent(ctx, logger.Broadcast, slog.LevelInfo, "broadcast.done",
		slog.String("status", "ok"),
		slog.Int("sent", tally.Sent),
		slog.Int("failed", tally.Failed),
		slog.Float64("percent", tally.Percent()),
	)
	return tghelpers.SendHTML(c, ui.BroadcastDone(tally.Sent, tally.Failed, tally.Percent()), ui.AdminMenu())
}

// deliver sends what to every id except sender. Per-recipient failures are
// counted and never stop the loop. A progress message in chatID is edited
// every ProgressEvery attempts.
func (e *Engine) deliver(ctx context.Context, bot Messenger, chatID, sender int64, ids []int64, what any) Tally {
	recipients := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != sender {
			recipients = append(recipients, id)
		}
	}
	html := &tele.SendOptions{ParseMode: tele.ModeHTML}

	progress, err := bot.Send(tele.ChatID(chatID), ui.BroadcastProgress(0, 0, len(recipients)))
	if err != nil {
		progress = nil
	}

	var t Tally
	for _, id := range recipients {
		if _, err := bot.Send(tele.ChatID(id), what, html); err != nil {
			t.Failed++
			metrics.Default.Delivery(false)
			logger.LogEvent(ctx, logger.Broadcast, slog.LevelDebug, "broadcast.delivery_failed",
				slog.String("status", "fail"),
				slog.Int64("recipient", id),
				logger.Err(err),
			)
		} else {
			t.Sent++
			metrics.Default.Delivery(true)
		}
		if progress != nil && t.Attempts()%e.cfg.ProgressEvery == 0 {
			_, _ = bot.Edit(progress, ui.BroadcastProgress(t.Sent, t.Failed, len(recipients)))
		}
	}
	return t
}
