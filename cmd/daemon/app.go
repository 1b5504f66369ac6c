package main

import (
	"context"
	"io"

	"github.com/genricoloni/playtime/internal/commands"
	"github.com/genricoloni/playtime/internal/config"
	"github.com/genricoloni/playtime/internal/domain"
	"github.com/genricoloni/playtime/internal/engine"
	"github.com/genricoloni/playtime/internal/gateway"
	"github.com/genricoloni/playtime/internal/notifier"
	"github.com/genricoloni/playtime/internal/store"
	"github.com/genricoloni/playtime/internal/tracker"
	"github.com/jonboulle/clockwork"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// AppOptions is the full dependency graph of the daemon
var AppOptions = fx.Options(
	fx.Provide(
		newLogger,
		newClock,
		fx.Annotate(config.NewAppConfig, fx.As(new(domain.Config))),
		fx.Annotate(store.NewFileStore, fx.As(new(domain.Store))),
		fx.Annotate(gateway.NewDiscordGateway, fx.As(new(domain.Gateway))),
		notifier.New,
		tracker.NewTracker,
		newCommandHandler,
		engine.NewEngine,
	),
	fx.Invoke(registerHooks),
)

// newLogger creates a new zap logger instance
func newLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

func newClock() clockwork.Clock {
	return clockwork.NewRealClock()
}

func newCommandHandler(logger *zap.Logger, tr *tracker.Tracker, clock clockwork.Clock) *commands.Handler {
	return commands.NewHandler(logger, tr, clock)
}

// registerHooks sets up application lifecycle hooks
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, eng *engine.Engine, n domain.Notifier) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Playtime bot starting")
			return eng.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")

			err := eng.Stop(ctx)
			if c, ok := n.(io.Closer); ok {
				err = multierr.Append(err, c.Close())
			}
			_ = logger.Sync()
			return err
		},
	})
}
