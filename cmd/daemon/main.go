package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		AppOptions,

		// Logger configuration
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start the application; a bad token or unreachable gateway ends here
	if err := app.Start(ctx); err != nil {
		os.Exit(1)
	}

	// Wait for interrupt signal
	<-ctx.Done()

	// Stop the application gracefully, saving the record one last time
	if err := app.Stop(context.Background()); err != nil {
		os.Exit(1)
	}
}
