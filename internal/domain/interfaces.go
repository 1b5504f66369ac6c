package domain

import "context"

// Gateway defines the connection to the chat platform.
// Implementations translate platform dispatches into Events and send replies.
//
//go:generate mockgen -destination=mocks/gateway_mock.go -package=mocks github.com/genricoloni/playtime/internal/domain Gateway
type Gateway interface {
	// Start connects to the platform. It returns once the connection is open.
	Start(ctx context.Context) error

	// Stop closes the connection
	Stop(ctx context.Context) error

	// Events returns a read-only channel of presence updates,
	// command invocations and the one-time ready snapshot
	Events() <-chan Event

	// Respond answers a command invocation with the given payload
	Respond(ctx context.Context, inv CommandInvocation, resp Response) error
}

// Store defines durable storage for the tracking record
//
//go:generate mockgen -destination=mocks/store_mock.go -package=mocks github.com/genricoloni/playtime/internal/domain Store
type Store interface {
	// Load returns the stored record overlaid on the defaults.
	// It never fails; problems are logged and the defaults returned.
	Load() Record

	// Save overwrites the stored record. Errors are logged by the store
	// and returned for callers that care.
	Save(rec Record) error
}

// Notifier is told about session starts and stops
//
//go:generate mockgen -destination=mocks/notifier_mock.go -package=mocks github.com/genricoloni/playtime/internal/domain Notifier
type Notifier interface {
	Notify(ctx context.Context, notice SessionNotice) error
}

// Config defines the interface for application configuration
type Config interface {
	// GetToken returns the bot credential
	GetToken() string

	// GetTargetUserID returns the tracked user's ID
	GetTargetUserID() string

	// GetTargetGame returns the exact name of the tracked game
	GetTargetGame() string

	// GetGuildID returns the guild used for command registration, or ""
	GetGuildID() string

	// GetDataFile returns the path of the state file
	GetDataFile() string

	// GetDesktopNotify reports whether desktop notifications are enabled
	GetDesktopNotify() bool
}
