package notifier

import (
	"context"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsName   = "org.freedesktop.Notifications"
	notificationsPath   = "/org/freedesktop/Notifications"
	notificationsMethod = "org.freedesktop.Notifications.Notify"
)

// BusClient defines the D-Bus operations the notifier uses.
// This abstraction allows us to mock D-Bus interactions in tests.
//
//go:generate mockgen -destination=mocks/bus_client_mock.go -package=mocks github.com/genricoloni/playtime/internal/notifier BusClient
type BusClient interface {
	// Close closes the D-Bus connection
	Close() error

	// Notify calls org.freedesktop.Notifications.Notify and returns the
	// notification ID. replacesID 0 creates a new notification.
	Notify(ctx context.Context, appName string, replacesID uint32, icon, summary, body string, timeout int32) (uint32, error)
}

// StdBusClient is the real implementation using godbus
type StdBusClient struct {
	conn *dbus.Conn
}

// NewStdBusClient creates a real D-Bus client connected to the session bus
func NewStdBusClient() (BusClient, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &StdBusClient{conn: conn}, nil
}

// Close closes the D-Bus connection
func (c *StdBusClient) Close() error {
	return c.conn.Close()
}

// Notify sends a desktop notification
func (c *StdBusClient) Notify(ctx context.Context, appName string, replacesID uint32, icon, summary, body string, timeout int32) (uint32, error) {
	obj := c.conn.Object(notificationsName, dbus.ObjectPath(notificationsPath))

	var id uint32
	err := obj.CallWithContext(ctx, notificationsMethod, 0,
		appName, replacesID, icon, summary, body,
		[]string{}, map[string]dbus.Variant{}, timeout,
	).Store(&id)
	return id, err
}
