package gateway

import (
	"github.com/bwmarrin/discordgo"
)

// Session defines the subset of the discordgo session the gateway uses.
// This abstraction allows us to mock Discord interactions in tests.
//
//go:generate mockgen -destination=mocks/session_mock.go -package=mocks github.com/genricoloni/playtime/internal/gateway Session
type Session interface {
	// Open connects to the Discord websocket gateway
	Open() error

	// Close disconnects from the gateway
	Close() error

	// AddHandler registers an event handler and returns a function removing it
	AddHandler(handler interface{}) func()

	// ApplicationCommandBulkOverwrite replaces the registered slash commands.
	// An empty guildID registers them globally.
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)

	// InteractionRespond answers an interaction
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// SessionFactory creates a session for a bot token
type SessionFactory func(token string) (Session, error)

// NewDiscordSession creates a real discordgo session with the intents the
// tracker needs. Handlers run synchronously so updates arrive in order.
func NewDiscordSession(token string) (Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildPresences
	s.SyncEvents = true
	s.StateEnabled = true
	return s, nil
}
