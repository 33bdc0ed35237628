package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	coreconfig "github.com/itcenter/coursebot/core/config"
	"github.com/itcenter/coursebot/core/logger"
)

// Options control the bootstrap pipeline: logger first, then the backing store.
type Options[S io.Closer] struct {
	Config *coreconfig.Config

	// Driver names the store for logs.
	Driver string

	LoggerInit func(*coreconfig.Config) error
	Open       func(context.Context) (S, error)
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result[S io.Closer] struct {
	Store S
}

// Run initializes the logger and opens the store.
func Run[S io.Closer](ctx context.Context, opts Options[S]) (*Result[S], error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}
	if opts.Open == nil {
		return nil, fmt.Errorf("bootstrap: store opener is required")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	start := time.Now()
	store, err := opts.Open(ctx)
	if err != nil {
		logger.Store.Error("store open failed",
			slog.String("event", "store.open"),
			slog.String("status", "fail"),
			slog.String("driver", opts.Driver),
			logger.Err(err),
		)
		return nil, fmt.Errorf("bootstrap: store initialization failed: %w", err)
	}
	logger.Store.Info("store ready",
		slog.String("event", "store.open"),
		slog.String("status", "ok"),
		slog.String("driver", opts.Driver),
		slog.Duration("duration", time.Since(start)),
	)
	return &Result[S]{Store: store}, nil
}
