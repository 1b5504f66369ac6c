// Package notifier shows a desktop notification when a tracked session
// starts or stops.
package notifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/genricoloni/playtime/internal/commands"
	"github.com/genricoloni/playtime/internal/domain"
	"go.uber.org/zap"
)

const (
	appName       = "playtime"
	iconName      = "applications-games"
	expireDefault = int32(-1)
)

// New returns a desktop notifier when enabled in the configuration,
// otherwise a notifier that does nothing
func New(logger *zap.Logger, cfg domain.Config) domain.Notifier {
	if !cfg.GetDesktopNotify() {
		return NopNotifier{}
	}
	return NewDesktopNotifier(logger, NewStdBusClient)
}

// NopNotifier discards every notice
type NopNotifier struct{}

// Notify does nothing
func (NopNotifier) Notify(context.Context, domain.SessionNotice) error { return nil }

// DesktopNotifier sends notices to the freedesktop notification daemon.
// The session bus is dialled on first use.
type DesktopNotifier struct {
	logger  *zap.Logger
	connect func() (BusClient, error)

	mu     sync.Mutex
	conn   BusClient
	lastID uint32 // replaced by the next notice so start and stop share one bubble
}

// NewDesktopNotifier creates a notifier using connect to reach the session bus
func NewDesktopNotifier(logger *zap.Logger, connect func() (BusClient, error)) *DesktopNotifier {
	return &DesktopNotifier{
		logger:  logger,
		connect: connect,
	}
}

// Notify shows the notice. Connection failures are returned and retried on
// the next notice.
func (n *DesktopNotifier) Notify(ctx context.Context, notice domain.SessionNotice) error {
	summary, body, ok := render(notice)
	if !ok {
		return nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn == nil {
		conn, err := n.connect()
		if err != nil {
			return fmt.Errorf("session bus connection failed: %w", err)
		}
		n.conn = conn
	}

	id, err := n.conn.Notify(ctx, appName, n.lastID, iconName, summary, body, expireDefault)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	n.lastID = id

	n.logger.Debug("Desktop notification sent",
		zap.String("summary", summary),
		zap.Uint32("id", id))
	return nil
}

// Close releases the bus connection if one was opened
func (n *DesktopNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn == nil {
		return nil
	}
	err := n.conn.Close()
	n.conn = nil
	return err
}

func render(notice domain.SessionNotice) (summary, body string, ok bool) {
	at := domain.Timestamp(notice.At)

	switch notice.Transition {
	case domain.TransitionStart:
		return fmt.Sprintf("🎮 %s started", notice.Game),
			fmt.Sprintf("Session started at %s", notice.At.Format("15:04")),
			true

	case domain.TransitionStop:
		body = "Session ended"
		if opened := notice.Record.LastOpenedTime; opened != nil {
			body = fmt.Sprintf("Played for %s", commands.FormatDuration(at-*opened))
		}
		return fmt.Sprintf("🛑 %s closed", notice.Game), body, true

	default:
		return "", "", false
	}
}
