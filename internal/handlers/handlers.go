// Package handlers implements the stateless menu actions and the route
// table that binds them, together with the dialog flows, to the registry.
package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/itcenter/coursebot/core/logger"
	tghelpers "github.com/itcenter/coursebot/core/telegram/helpers"
	tgui "github.com/itcenter/coursebot/core/telegram/ui"
	"github.com/itcenter/coursebot/internal/dialog"
	"github.com/itcenter/coursebot/internal/gate"
	"github.com/itcenter/coursebot/internal/models"
	"github.com/itcenter/coursebot/internal/ui"

	tele "gopkg.in/telebot.v4"
)

// Store is the persistence the menu actions use.
type Store interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	TouchUser(ctx context.Context, u models.User) error
	MarkSubscribed(ctx context.Context, userID int64) error
	Stats(ctx context.Context) (models.Stats, error)
}

// Deps are the collaborators of Handlers.
type Deps struct {
	Store      Store
	Engine     *dialog.Engine
	Gate       *gate.Gate
	AdminID    int64
	ChannelURL string
}

// Handlers serves the menu actions.
type Handlers struct {
	store      Store
	engine     *dialog.Engine
	gate       *gate.Gate
	adminID    int64
	channelURL string
}

// New wires the handlers.
func New(d Deps) *Handlers {
	return &Handlers{
		store:      d.Store,
		engine:     d.Engine,
		gate:       d.Gate,
		adminID:    d.AdminID,
		channelURL: d.ChannelURL,
	}
}

func (h *Handlers) isAdmin(c tele.Context) bool {
	return h.adminID != 0 && tghelpers.SenderID(c) == h.adminID
}

func (h *Handlers) mainMenu(c tele.Context) *tele.ReplyMarkup {
	return ui.MainMenu(h.isAdmin(c))
}

// Start records the user and greets them with the main menu. It does not
// touch a running conversation.
func (h *Handlers) Start(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	u := c.Sender()
	if u != nil {
		err := h.store.TouchUser(ctx, models.User{TelegramID: u.ID, Username: u.Username, FirstName: u.FirstName})
		if err != nil {
			logger.LogEvent(ctx, logger.Store, slog.LevelWarn, "user.touch_failed",
				slog.String("status", "fail"),
				logger.Err(err),
			)
		}
	}
	var first string
	if u != nil {
		first = u.FirstName
	}
	return tghelpers.SendHTML(c, ui.Welcome(first), h.mainMenu(c))
}

// Courses shows the catalog.
func (h *Handlers) Courses(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	courses, err := h.store.ListCourses(ctx)
	if err != nil {
		logger.LogEvent(ctx, logger.Store, slog.LevelError, "courses.list_failed",
			slog.String("status", "fail"),
			logger.Err(err),
		)
		return tghelpers.SendHTML(c, ui.CoursesFailed, h.mainMenu(c))
	}
	return tghelpers.SendHTML(c, ui.CourseList(courses), h.mainMenu(c))
}

// Contact shows how to reach the centre.
func (h *Handlers) Contact(c tele.Context) error {
	return tghelpers.SendHTML(c, ui.ContactInfo, h.mainMenu(c))
}

// About describes the centre.
func (h *Handlers) About(c tele.Context) error {
	return tghelpers.SendHTML(c, ui.AboutInfo, h.mainMenu(c))
}

// Back returns to the main menu.
func (h *Handlers) Back(c tele.Context) error {
	return tghelpers.SendHTML(c, ui.BackToMenu, h.mainMenu(c))
}

// AdminPanel shows the admin menu.
func (h *Handlers) AdminPanel(c tele.Context) error {
	return tghelpers.SendHTML(c, ui.AdminMenuText, ui.AdminMenu())
}

// Stats shows collection counters.
func (h *Handlers) Stats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	st, err := h.store.Stats(ctx)
	if err != nil {
		logger.LogEvent(ctx, logger.Store, slog.LevelError, "stats.failed",
			slog.String("status", "fail"),
			logger.Err(err),
		)
		return tghelpers.SendHTML(c, ui.GenericError, ui.AdminMenu())
	}
	return tghelpers.SendHTML(c, ui.Stats(st), ui.AdminMenu())
}

// SubscriptionPrompt is what the gate shows to users outside the channel.
func (h *Handlers) SubscriptionPrompt(c tele.Context) error {
	if c.Callback() != nil {
		_ = tghelpers.Answer(c)
	}
	return tghelpers.SendHTML(c, ui.SubscribeRequired, ui.SubscribePrompt(h.channelURL))
}

// CheckSubscription re-runs the gate when the user presses "check".
func (h *Handlers) CheckSubscription(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := tghelpers.SenderID(c)
	if !h.gate.Allowed(ctx, userID) {
		return tghelpers.Alert(c, ui.NotSubscribed)
	}
	if err := h.store.MarkSubscribed(ctx, userID); err != nil {
		logger.LogEvent(ctx, logger.Store, slog.LevelWarn, "user.subscribe_failed",
			slog.String("status", "fail"),
			logger.Err(err),
		)
	}
	_ = tghelpers.Answer(c)
	if err := tghelpers.EditHTML(c, ui.Subscribed); err != nil {
		return err
	}
	return tghelpers.SendHTML(c, ui.Welcome(c.Sender().FirstName), h.mainMenu(c))
}

// fallback answers text that matched nothing: unknown commands get the
// greeting, anything else a hint.
func (h *Handlers) fallback(c tele.Context) error {
	if strings.HasPrefix(strings.TrimSpace(c.Text()), "/") {
		return h.Start(c)
	}
	return tghelpers.SendHTML(c, ui.PickSection, h.mainMenu(c))
}

func (h *Handlers) UnknownText() tele.HandlerFunc { return h.fallback }

func (h *Handlers) UnknownMedia() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendHTML(c, ui.PickSection, h.mainMenu(c))
	}
}

func (h *Handlers) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error { return tghelpers.Answer(c) }
}

var _ tgui.FallbackProvider = (*Handlers)(nil)
