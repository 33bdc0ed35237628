// Package app assembles the course bot from its configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/itcenter/coursebot/core/bootstrap"
	"github.com/itcenter/coursebot/core/cmd"
	"github.com/itcenter/coursebot/core/database"
	"github.com/itcenter/coursebot/core/logger"
	tg "github.com/itcenter/coursebot/core/telegram"
	"github.com/itcenter/coursebot/core/telegram/middleware"
	"github.com/itcenter/coursebot/core/telegram/router"
	"github.com/itcenter/coursebot/internal/dialog"
	"github.com/itcenter/coursebot/internal/gate"
	"github.com/itcenter/coursebot/internal/handlers"
	"github.com/itcenter/coursebot/internal/store"
	"github.com/itcenter/coursebot/internal/store/firestore"
	"github.com/itcenter/coursebot/internal/store/postgres"

	tele "gopkg.in/telebot.v4"
)

// App holds the wired bot.
type App struct {
	cfg      *Config
	store    store.Store
	engine   *dialog.Engine
	gate     *gate.Gate
	handlers *handlers.Handlers
	registry *tg.Registry
}

// OpenStore opens the configured storage driver.
func OpenStore(ctx context.Context, sc StoreConfig) (store.Store, error) {
	switch sc.Driver {
	case DriverPostgres:
		db, err := database.Open(ctx, sc.Postgres)
		if err != nil {
			return nil, err
		}
		return postgres.New(db), nil
	case DriverFirestore, "":
		fs, err := firestore.Open(ctx, sc.Firestore)
		if err != nil {
			return nil, err
		}
		return fs, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", sc.Driver)
}

// Bootstrap implements cmd.Options.Bootstrap.
func Bootstrap(ctx context.Context, carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}
	res, err := bootstrap.Run(ctx, bootstrap.Options[store.Store]{
		Config: &cfg.Config,
		Driver: cfg.Store.Driver,
		Open: func(ctx context.Context) (store.Store, error) {
			return OpenStore(ctx, cfg.Store)
		},
	})
	if err != nil {
		return nil, err
	}
	a, err := New(cfg, res.Store)
	if err != nil {
		_ = res.Store.Close()
		return nil, err
	}
	return a, nil
}

// New wires the handlers and flows on top of st.
func New(cfg *Config, st store.Store) (*App, error) {
	if cfg == nil || st == nil {
		return nil, fmt.Errorf("app: config and store are required")
	}
	adminID := cfg.Telegram.AdminID
	engine := dialog.New(st, dialog.Config{
		OperatorChatID: cfg.Bot.OperatorChatID,
		AdminID:        adminID,
		CountryPrefix:  cfg.Bot.CountryPrefix,
		ProgressEvery:  cfg.Bot.BroadcastProgressEvery,
	})
	g := gate.New(cfg.Bot.RequiredChannel, adminID)
	h := handlers.New(handlers.Deps{
		Store:      st,
		Engine:     engine,
		Gate:       g,
		AdminID:    adminID,
		ChannelURL: cfg.Bot.ChannelURL,
	})

	reg := tg.NewRegistry()
	if err := h.Register(reg); err != nil {
		return nil, fmt.Errorf("app: register routes: %w", err)
	}
	logger.TWire.Info("tg.wire",
		slog.String("event", "app"),
		slog.String("gate", g.String()),
		slog.Int64("operator_chat", cfg.Bot.OperatorChatID),
		slog.String("store", cfg.Store.Driver),
	)
	return &App{cfg: cfg, store: st, engine: engine, gate: g, handlers: h, registry: reg}, nil
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	admin := middleware.AdminOptions{AdminID: a.cfg.Telegram.AdminID}

	var routes []tg.Route
	routes = append(routes, router.CommandRoutes(a.registry, admin)...)
	routes = append(routes, router.TextRoutes(a.engine, a.registry, admin, a.handlers)...)
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{
		NotFound: a.handlers.UnknownCallback(),
	}))

	return tg.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(&a.cfg.Config, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			a.bind(rt.Bot)
			return nil
		},
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			return a.store.Close()
		},
	}, nil
}

// bind hands the live Bot API client to the parts that call it directly.
func (a *App) bind(bot *tele.Bot) {
	a.engine.Bind(bot)
	a.gate.Bind(bot)
}
