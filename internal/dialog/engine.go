// Package dialog runs the bot's guided conversations: student registration
// and the admin course and broadcast wizards.
//
// Each chat has at most one conversation. It is created by a flow's entry
// handler, advanced one input at a time and removed when the flow finishes
// or is cancelled. Nothing is persisted until a flow has every answer it
// needs.
package dialog

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/itcenter/coursebot/core/logger"
	"github.com/itcenter/coursebot/core/metrics"
	tghelpers "github.com/itcenter/coursebot/core/telegram/helpers"
	"github.com/itcenter/coursebot/core/telegram/state"
	"github.com/itcenter/coursebot/internal/models"
	"github.com/itcenter/coursebot/internal/store"
	"github.com/itcenter/coursebot/internal/ui"

	tele "gopkg.in/telebot.v4"
)

// Store is the persistence used by the flows.
type Store interface {
	store.Courses
	store.Registrations
	ListUserIDs(ctx context.Context) ([]int64, error)
}

// Messenger sends to chats other than the one being served: the operator
// alert and broadcast copies.
type Messenger interface {
	Send(to tele.Recipient, what any, opts ...any) (*tele.Message, error)
	Edit(msg tele.Editable, what any, opts ...any) (*tele.Message, error)
}

// Config holds the identities and knobs the flows need.
type Config struct {
	OperatorChatID int64
	AdminID        int64
	CountryPrefix  string
	// ProgressEvery is how many deliveries pass between broadcast progress
	// updates. Defaults to 10.
	ProgressEvery int
}

// Engine owns the per-chat conversations.
type Engine struct {
	cfg      Config
	store    Store
	sessions *state.Store[Conversation]

	mu  sync.RWMutex
	bot Messenger
}

// New builds an engine. Bind must be called before the first update.
func New(st Store, cfg Config) *Engine {
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = 10
	}
	return &Engine{
		cfg:      cfg,
		store:    st,
		sessions: state.NewStore[Conversation](metrics.Default.Sessions),
	}
}

// Bind sets the Bot API client used for out-of-chat messages.
func (e *Engine) Bind(m Messenger) {
	e.mu.Lock()
	e.bot = m
	e.mu.Unlock()
}

func (e *Engine) messenger() Messenger {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bot
}

// InProgress reports whether chatID has a running conversation.
func (e *Engine) InProgress(chatID int64) bool { return e.sessions.Active(chatID) }

// Current returns the running conversation of chatID.
func (e *Engine) Current(chatID int64) (Conversation, bool) { return e.sessions.Get(chatID) }

// ManagerHandler feeds a text, contact or media message to the running
// conversation of its chat.
func (e *Engine) ManagerHandler(c tele.Context) error {
	conv, ok := e.sessions.Get(tghelpers.ChatID(c))
	if !ok {
		return nil
	}
	e.trace(c, conv, "dialog.input")
	switch s := conv.(type) {
	case Registration:
		return e.registrationInput(c, s)
	case CourseDraft:
		return e.draftInput(c, s)
	case CourseEdit:
		return e.editInput(c, s)
	case CourseRemoval:
		return tghelpers.SendHTML(c, ui.UseButtons)
	case Broadcast:
		return e.broadcastInput(c)
	}
	return nil
}

// Cancel ends the running conversation without saving anything.
func (e *Engine) Cancel(c tele.Context) error {
	conv, ok := e.sessions.End(tghelpers.ChatID(c))
	if !ok {
		return tghelpers.SendHTML(c, ui.NothingToStop, e.mainMenu(c))
	}
	e.trace(c, conv, "dialog.cancelled")
	if !admin(conv) {
		metrics.Default.Registration("cancelled")
		return tghelpers.SendHTML(c, ui.RegCancelled, e.mainMenu(c))
	}
	return tghelpers.SendHTML(c, ui.FlowCancelled, ui.AdminMenu())
}

func (e *Engine) begin(c tele.Context, conv Conversation) {
	e.sessions.Begin(tghelpers.ChatID(c), conv)
	e.trace(c, conv, "dialog.begin")
}

func (e *Engine) put(c tele.Context, conv Conversation) {
	e.sessions.Put(tghelpers.ChatID(c), conv)
}

func (e *Engine) end(c tele.Context) {
	e.sessions.End(tghelpers.ChatID(c))
}

func (e *Engine) isAdmin(c tele.Context) bool {
	return e.cfg.AdminID != 0 && tghelpers.SenderID(c) == e.cfg.AdminID
}

func (e *Engine) mainMenu(c tele.Context) *tele.ReplyMarkup {
	return ui.MainMenu(e.isAdmin(c))
}

// fail reports a collaborator failure to the user and ends the flow.
func (e *Engine) fail(c tele.Context, conv Conversation, op string, err error) error {
	e.end(c)
	logger.LogEvent(tghelpers.BuildContext(c), logger.Dialog, slog.LevelError, "dialog.failed",
		slog.String("status", "fail"),
		slog.String("flow", conv.Flow()),
		slog.String("step", conv.StepName()),
		slog.String("cause", op),
		logger.Err(err),
	)
	markup := e.mainMenu(c)
	if admin(conv) {
		markup = ui.AdminMenu()
	} else {
		metrics.Default.Registration("failed")
	}
	if c.Callback() != nil {
		_ = tghelpers.Answer(c)
	}
	return tghelpers.SendHTML(c, ui.GenericError, markup)
}

func (e *Engine) trace(c tele.Context, conv Conversation, event string) {
	logger.LogEvent(tghelpers.BuildContext(c), logger.Dialog, slog.LevelDebug, event,
		slog.String("status", "ok"),
		slog.String("flow", conv.Flow()),
		slog.String("step", conv.StepName()),
	)
}

// expected returns the conversation of the callback's chat when it is of
// type T, answering and dropping stale button presses otherwise.
func expected[T Conversation](e *Engine, c tele.Context) (T, bool) {
	conv, ok := e.sessions.Get(tghelpers.ChatID(c))
	t, match := conv.(T)
	if !ok || !match {
		logger.LogEvent(tghelpers.BuildContext(c), logger.Dialog, slog.LevelDebug, "dialog.stale_button",
			slog.String("status", "skip"),
		)
		_ = tghelpers.Answer(c)
		var zero T
		return zero, false
	}
	return t, true
}

func senderProfile(c tele.Context) models.User {
	u := c.Sender()
	if u == nil {
		return models.User{}
	}
	return models.User{TelegramID: u.ID, Username: u.Username, FirstName: u.FirstName}
}

var errNotBound = errors.New("dialog: messenger not bound")
