package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/genricoloni/playtime/internal/commands"
	"github.com/genricoloni/playtime/internal/domain"
	"github.com/genricoloni/playtime/internal/tracker"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Engine orchestrates the bot.
// It consumes gateway events on a single goroutine, feeds presence changes
// to the tracker and answers commands.
type Engine struct {
	logger   *zap.Logger
	gateway  domain.Gateway
	tracker  *tracker.Tracker
	handler  *commands.Handler
	notifier domain.Notifier

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewEngine creates a new orchestration engine
func NewEngine(
	logger *zap.Logger,
	gw domain.Gateway,
	tr *tracker.Tracker,
	handler *commands.Handler,
	notifier domain.Notifier,
) *Engine {
	return &Engine{
		logger:   logger,
		gateway:  gw,
		tracker:  tr,
		handler:  handler,
		notifier: notifier,
	}
}

// Start connects the gateway and launches the event loop in a goroutine.
// It returns once the connection is open.
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info("Engine starting...")

	if err := e.gateway.Start(ctx); err != nil {
		e.logger.Error("Failed to start gateway", zap.Error(err))
		return err
	}

	// The loop outlives the start context; Stop cancels it
	loopCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})

	go e.runLoop(loopCtx)
	return nil
}

// runLoop is the single consumer of gateway events. Handlers run one at a
// time so the record never sees concurrent transitions.
func (e *Engine) runLoop(ctx context.Context) {
	defer close(e.done)
	events := e.gateway.Events()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Engine loop stopped")
			return

		case ev, ok := <-events:
			if !ok {
				e.logger.Info("Gateway events channel closed")
				return
			}
			e.dispatch(ctx, ev)
		}
	}
}

// dispatch handles one event. A panic in a handler is logged and the loop
// keeps going.
func (e *Engine) dispatch(ctx context.Context, ev domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Event handler panicked",
				zap.String("event", fmt.Sprintf("%T", ev)),
				zap.Any("panic", r))
		}
	}()

	switch ev := ev.(type) {
	case domain.PresenceUpdate:
		e.handlePresence(ctx, ev)
	case domain.ReadySnapshot:
		e.handleReady(ctx, ev)
	case domain.CommandInvocation:
		e.handleCommand(ctx, ev)
	default:
		e.logger.Warn("Unknown event type", zap.String("event", fmt.Sprintf("%T", ev)))
	}
}

func (e *Engine) handlePresence(ctx context.Context, u domain.PresenceUpdate) {
	transition := e.tracker.HandlePresence(u)
	if transition == domain.TransitionNone {
		return
	}
	e.notify(ctx, transition)
}

func (e *Engine) handleReady(ctx context.Context, snap domain.ReadySnapshot) {
	names := make([]string, 0, len(snap.Guilds))
	for _, g := range snap.Guilds {
		names = append(names, fmt.Sprintf("%s (%s)", g.Name, g.ID))
	}

	e.logger.Info("Bot is ready",
		zap.String("user", snap.BotUser),
		zap.Int("guildCount", len(snap.Guilds)),
		zap.String("guilds", strings.Join(names, ", ")),
		zap.String("targetUser", e.tracker.TargetUserID()),
		zap.String("targetGame", e.tracker.TargetGame()))

	if e.tracker.CheckInitialPresence(snap.Members) {
		e.notify(ctx, domain.TransitionStart)
	}
}

func (e *Engine) handleCommand(ctx context.Context, inv domain.CommandInvocation) {
	resp := e.runCommand(inv)

	if err := e.gateway.Respond(ctx, inv, resp); err != nil {
		e.logger.Error("Failed to respond to command",
			zap.String("command", inv.Name),
			zap.Error(err))
	}
}

// runCommand never fails: errors and panics become a private error reply
func (e *Engine) runCommand(inv domain.CommandInvocation) (resp domain.Response) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Command panicked",
				zap.String("command", inv.Name),
				zap.Any("panic", r))
			resp = commands.ErrorResponse(fmt.Errorf("%v", r))
		}
	}()

	resp, err := e.handler.Handle(inv)
	if err != nil {
		e.logger.Warn("Command failed",
			zap.String("command", inv.Name),
			zap.String("action", inv.Action),
			zap.Error(err))
		return commands.ErrorResponse(err)
	}
	return resp
}

func (e *Engine) notify(ctx context.Context, transition domain.Transition) {
	rec := e.tracker.Snapshot()

	notice := domain.SessionNotice{
		Transition: transition,
		Game:       e.tracker.TargetGame(),
		Record:     rec,
	}
	switch {
	case transition == domain.TransitionStart && rec.LastOpenedTime != nil:
		notice.At = domain.TimeOf(*rec.LastOpenedTime)
	case transition == domain.TransitionStop && rec.LastClosedTime != nil:
		notice.At = domain.TimeOf(*rec.LastClosedTime)
	}

	if err := e.notifier.Notify(ctx, notice); err != nil {
		e.logger.Warn("Failed to send session notification",
			zap.String("transition", string(transition)),
			zap.Error(err))
	}
}

// Stop halts the event loop, closes the gateway and saves the record one
// last time
func (e *Engine) Stop(ctx context.Context) error {
	var err error
	e.once.Do(func() {
		e.logger.Info("Engine stopping...")

		if e.cancel != nil {
			e.cancel()
			select {
			case <-e.done:
			case <-ctx.Done():
				err = multierr.Append(err, fmt.Errorf("engine loop did not stop: %w", ctx.Err()))
			}
		}

		if gwErr := e.gateway.Stop(ctx); gwErr != nil {
			err = multierr.Append(err, gwErr)
		}

		if saveErr := e.tracker.Flush(); saveErr != nil {
			err = multierr.Append(err, fmt.Errorf("final save failed: %w", saveErr))
		}

		if err != nil {
			e.logger.Error("Engine stopped with errors", zap.Error(err))
			return
		}
		e.logger.Info("Engine stopped, state saved")
	})
	return err
}
