package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/genricoloni/playtime/internal/commands"
	"github.com/genricoloni/playtime/internal/domain"
	"github.com/genricoloni/playtime/internal/gateway/mocks"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const (
	targetID = "1234"
	game     = "Crab Champions"
)

type mockConfig struct {
	guildID string
}

func (m *mockConfig) GetToken() string        { return "token" }
func (m *mockConfig) GetTargetUserID() string { return targetID }
func (m *mockConfig) GetTargetGame() string   { return game }
func (m *mockConfig) GetGuildID() string      { return m.guildID }
func (m *mockConfig) GetDataFile() string     { return "bot_data.json" }
func (m *mockConfig) GetDesktopNotify() bool  { return false }

// newTestGateway returns a gateway already holding the mock session,
// as if Start had succeeded
func newTestGateway(t *testing.T, cfg *mockConfig) (*DiscordGateway, *mocks.MockSession) {
	t.Helper()
	ctrl := gomock.NewController(t)
	session := mocks.NewMockSession(ctrl)
	g := newDiscordGateway(zap.NewNop(), cfg, func(string) (Session, error) { return session, nil })
	g.session = session
	return g, session
}

func nextEvent(t *testing.T, g *DiscordGateway) domain.Event {
	t.Helper()
	select {
	case ev := <-g.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("Timeout: event was not emitted")
		return nil
	}
}

func assertNoEvent(t *testing.T, g *DiscordGateway) {
	t.Helper()
	select {
	case ev := <-g.Events():
		t.Fatalf("unexpected event %#v", ev)
	default:
	}
}

func playing(name string) *discordgo.Activity {
	return &discordgo.Activity{Name: name, Type: discordgo.ActivityTypeGame}
}

func TestStart(t *testing.T) {
	errOpen := errors.New("401 unauthorized")
	errFactory := errors.New("bad token")

	tests := []struct {
		name        string
		factoryErr  error
		openErr     error
		expectedErr error
	}{
		{name: "Happy Path"},
		{name: "Open Fails", openErr: errOpen, expectedErr: errOpen},
		{name: "Factory Fails", factoryErr: errFactory, expectedErr: errFactory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			session := mocks.NewMockSession(ctrl)

			if tt.factoryErr == nil {
				session.EXPECT().AddHandler(gomock.Any()).Return(func() {}).Times(4)
				session.EXPECT().Open().Return(tt.openErr)
			}

			factory := func(token string) (Session, error) {
				if token != "token" {
					t.Errorf("unexpected token %q", token)
				}
				if tt.factoryErr != nil {
					return nil, tt.factoryErr
				}
				return session, nil
			}
			g := newDiscordGateway(zap.NewNop(), &mockConfig{}, factory)

			err := g.Start(context.Background())
			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestStop_RemovesHandlersAndCloses(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := mocks.NewMockSession(ctrl)

	removed := 0
	session.EXPECT().AddHandler(gomock.Any()).Return(func() { removed++ }).Times(4)
	session.EXPECT().Open().Return(nil)
	session.EXPECT().Close().Return(nil)

	g := newDiscordGateway(zap.NewNop(), &mockConfig{}, func(string) (Session, error) { return session, nil })
	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := g.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if removed != 4 {
		t.Errorf("expected 4 handlers removed, got %d", removed)
	}

	// A second stop is a no-op
	if err := g.Stop(context.Background()); err != nil {
		t.Errorf("second stop failed: %v", err)
	}
}

func TestOnPresenceUpdate(t *testing.T) {
	g, _ := newTestGateway(t, &mockConfig{})

	// Seed the view: target online in guild g1 with no activity
	g.onGuildCreate(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{
		ID:      "g1",
		Name:    "Home",
		Members: []*discordgo.Member{{User: &discordgo.User{ID: targetID, Username: "crab"}}},
	}})

	g.onPresenceUpdate(nil, &discordgo.PresenceUpdate{
		GuildID:  "g1",
		Presence: discordgo.Presence{User: &discordgo.User{ID: targetID}, Activities: []*discordgo.Activity{playing(game)}},
	})

	ev, ok := nextEvent(t, g).(domain.PresenceUpdate)
	if !ok {
		t.Fatal("expected a PresenceUpdate")
	}
	if len(ev.Before) != 0 {
		t.Errorf("before: expected no activities, got %+v", ev.Before)
	}
	if len(ev.After) != 1 || ev.After[0].Name != game || ev.After[0].Type != domain.ActivityPlaying {
		t.Errorf("after: unexpected %+v", ev.After)
	}

	// The next update sees the previous one as its before
	g.onPresenceUpdate(nil, &discordgo.PresenceUpdate{
		GuildID:  "g1",
		Presence: discordgo.Presence{User: &discordgo.User{ID: targetID}},
	})
	ev = nextEvent(t, g).(domain.PresenceUpdate)
	if len(ev.Before) != 1 || ev.Before[0].Name != game {
		t.Errorf("before: expected previous activities, got %+v", ev.Before)
	}
	if len(ev.After) != 0 {
		t.Errorf("after: expected none, got %+v", ev.After)
	}
}

func TestOnPresenceUpdate_Ignored(t *testing.T) {
	tests := []struct {
		name   string
		update *discordgo.PresenceUpdate
	}{
		{
			name: "Other User",
			update: &discordgo.PresenceUpdate{
				GuildID:  "g1",
				Presence: discordgo.Presence{User: &discordgo.User{ID: "999"}, Activities: []*discordgo.Activity{playing(game)}},
			},
		},
		{
			name:   "No User",
			update: &discordgo.PresenceUpdate{GuildID: "g1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGateway(t, &mockConfig{})
			g.onPresenceUpdate(nil, tt.update)
			assertNoEvent(t, g)
		})
	}
}

func TestReadySnapshot(t *testing.T) {
	g, session := newTestGateway(t, &mockConfig{guildID: "g2"})

	session.EXPECT().
		ApplicationCommandBulkOverwrite("app-1", "g2", gomock.Any()).
		Return(make([]*discordgo.ApplicationCommand, 3), nil)

	g.onReady(nil, &discordgo.Ready{
		User:        &discordgo.User{ID: "bot-1", Username: "tracker"},
		Application: &discordgo.Application{ID: "app-1"},
		Guilds:      []*discordgo.Guild{{ID: "g1"}, {ID: "g2"}},
	})
	assertNoEvent(t, g)

	// Guild creates arrive out of order
	g.onGuildCreate(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{
		ID:   "g2",
		Name: "Second",
		Members: []*discordgo.Member{
			{Nick: "Crabby", User: &discordgo.User{ID: targetID, Username: "crab"}},
		},
		Presences: []*discordgo.Presence{
			{User: &discordgo.User{ID: targetID}, Activities: []*discordgo.Activity{playing(game)}},
		},
	}})
	assertNoEvent(t, g)

	g.onGuildCreate(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{
		ID:      "g1",
		Name:    "First",
		Members: []*discordgo.Member{{User: &discordgo.User{ID: "555", Username: "other"}}},
	}})

	snap, ok := nextEvent(t, g).(domain.ReadySnapshot)
	if !ok {
		t.Fatal("expected a ReadySnapshot")
	}
	if snap.BotUser != "tracker" {
		t.Errorf("bot user: got %q", snap.BotUser)
	}
	if len(snap.Guilds) != 2 || snap.Guilds[0].Name != "First" || snap.Guilds[1].Name != "Second" {
		t.Errorf("guilds should follow READY order, got %+v", snap.Guilds)
	}
	if len(snap.Members) != 1 {
		t.Fatalf("expected target found in one guild, got %+v", snap.Members)
	}
	m := snap.Members[0]
	if m.GuildID != "g2" || m.DisplayName != "Crabby" || len(m.Activities) != 1 || m.Activities[0].Name != game {
		t.Errorf("unexpected member %+v", m)
	}

	// A later guild join doesn't produce a second snapshot
	g.onGuildCreate(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "g3"}})
	assertNoEvent(t, g)
}

func TestReadySnapshot_NoGuilds(t *testing.T) {
	g, session := newTestGateway(t, &mockConfig{})

	// Without an application ID the bot user ID is used; no guild means global
	session.EXPECT().ApplicationCommandBulkOverwrite("bot-1", "", gomock.Any()).Return(nil, nil)

	g.onReady(nil, &discordgo.Ready{User: &discordgo.User{ID: "bot-1", Username: "tracker"}})

	snap, ok := nextEvent(t, g).(domain.ReadySnapshot)
	if !ok {
		t.Fatal("expected a ReadySnapshot")
	}
	if len(snap.Guilds) != 0 || len(snap.Members) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestReadySnapshot_GraceTimeout(t *testing.T) {
	g, session := newTestGateway(t, &mockConfig{})
	g.readyGrace = 10 * time.Millisecond

	session.EXPECT().ApplicationCommandBulkOverwrite(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	g.onReady(nil, &discordgo.Ready{
		User:   &discordgo.User{ID: "bot-1"},
		Guilds: []*discordgo.Guild{{ID: "never-arrives"}},
	})

	snap, ok := nextEvent(t, g).(domain.ReadySnapshot)
	if !ok {
		t.Fatal("expected a ReadySnapshot after the grace period")
	}
	if len(snap.Members) != 0 {
		t.Errorf("expected no members, got %+v", snap.Members)
	}
}

func TestRegisterCommands_FailureIsNotFatal(t *testing.T) {
	g, session := newTestGateway(t, &mockConfig{guildID: "g1"})

	session.EXPECT().
		ApplicationCommandBulkOverwrite(gomock.Any(), "g1", gomock.Any()).
		Return(nil, errors.New("missing access"))

	g.onReady(nil, &discordgo.Ready{User: &discordgo.User{ID: "bot-1"}})

	if _, ok := nextEvent(t, g).(domain.ReadySnapshot); !ok {
		t.Fatal("snapshot should still be emitted after a failed sync")
	}

	// A reconnect READY must not sync again
	g.onReady(nil, &discordgo.Ready{User: &discordgo.User{ID: "bot-1"}})
	assertNoEvent(t, g)
}

func TestOnInteractionCreate(t *testing.T) {
	tests := []struct {
		name           string
		data           discordgo.ApplicationCommandInteractionData
		expectedName   string
		expectedAction string
		expectedValue  *int64
	}{
		{
			name:         "Time",
			data:         discordgo.ApplicationCommandInteractionData{Name: "time"},
			expectedName: "time",
		},
		{
			name: "Counter Set",
			data: discordgo.ApplicationCommandInteractionData{
				Name: "counter",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "action", Type: discordgo.ApplicationCommandOptionString, Value: "set"},
					{Name: "value", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(-5)},
				},
			},
			expectedName:   "counter",
			expectedAction: "set",
			expectedValue:  int64Ptr(-5),
		},
		{
			name: "Counter Show Without Value",
			data: discordgo.ApplicationCommandInteractionData{
				Name: "counter",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "action", Type: discordgo.ApplicationCommandOptionString, Value: "show"},
				},
			},
			expectedName:   "counter",
			expectedAction: "show",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGateway(t, &mockConfig{})
			interaction := &discordgo.Interaction{
				Type:   discordgo.InteractionApplicationCommand,
				Data:   tt.data,
				Member: &discordgo.Member{User: &discordgo.User{ID: "42"}},
			}

			g.onInteractionCreate(nil, &discordgo.InteractionCreate{Interaction: interaction})

			inv, ok := nextEvent(t, g).(domain.CommandInvocation)
			if !ok {
				t.Fatal("expected a CommandInvocation")
			}
			if inv.Name != tt.expectedName || inv.Action != tt.expectedAction {
				t.Errorf("unexpected invocation %+v", inv)
			}
			if inv.InvokerID != "42" {
				t.Errorf("invoker: got %q", inv.InvokerID)
			}
			switch {
			case tt.expectedValue == nil && inv.Value != nil:
				t.Errorf("value: expected none, got %d", *inv.Value)
			case tt.expectedValue != nil && (inv.Value == nil || *inv.Value != *tt.expectedValue):
				t.Errorf("value: expected %d, got %v", *tt.expectedValue, inv.Value)
			}
			if inv.Handle != interaction {
				t.Error("handle should carry the interaction")
			}
		})
	}
}

func TestOnInteractionCreate_IgnoresNonCommands(t *testing.T) {
	g, _ := newTestGateway(t, &mockConfig{})
	g.onInteractionCreate(nil, &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Type: discordgo.InteractionPing}})
	assertNoEvent(t, g)
}

func TestRespond(t *testing.T) {
	interaction := &discordgo.Interaction{ID: "i-1"}

	t.Run("Embed", func(t *testing.T) {
		g, session := newTestGateway(t, &mockConfig{})
		session.EXPECT().InteractionRespond(interaction, gomock.Any()).DoAndReturn(
			func(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
				if resp.Type != discordgo.InteractionResponseChannelMessageWithSource {
					t.Errorf("unexpected response type %v", resp.Type)
				}
				if len(resp.Data.Embeds) != 1 {
					t.Fatalf("expected one embed, got %d", len(resp.Data.Embeds))
				}
				e := resp.Data.Embeds[0]
				if e.Title != "🤖 Bot Status" || e.Color != 0x0099FF || len(e.Fields) != 1 || !e.Fields[0].Inline {
					t.Errorf("unexpected embed %+v", e)
				}
				if resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0 {
					t.Error("embed response should be public")
				}
				return nil
			})

		err := g.Respond(context.Background(), domain.CommandInvocation{Name: "status", Handle: interaction}, domain.Response{
			Title:  "🤖 Bot Status",
			Color:  0x0099FF,
			Fields: []domain.Field{{Name: "🔢 Global Counter", Value: "3", Inline: true}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Ephemeral Error", func(t *testing.T) {
		g, session := newTestGateway(t, &mockConfig{})
		session.EXPECT().InteractionRespond(interaction, gomock.Any()).DoAndReturn(
			func(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
				if len(resp.Data.Embeds) != 0 {
					t.Errorf("plain message should have no embed, got %d", len(resp.Data.Embeds))
				}
				if resp.Data.Content != "❌ Please provide a value to set!" {
					t.Errorf("unexpected content %q", resp.Data.Content)
				}
				if resp.Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
					t.Error("error response should be ephemeral")
				}
				return nil
			})

		inv := domain.CommandInvocation{Name: "counter", Handle: interaction}
		if err := g.Respond(context.Background(), inv, commands.ErrorResponse(commands.ErrMissingValue)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Send Failure", func(t *testing.T) {
		g, session := newTestGateway(t, &mockConfig{})
		errSend := errors.New("unknown interaction")
		session.EXPECT().InteractionRespond(gomock.Any(), gomock.Any()).Return(errSend)

		err := g.Respond(context.Background(), domain.CommandInvocation{Name: "time", Handle: interaction}, domain.Response{Title: "t"})
		if !errors.Is(err, errSend) {
			t.Errorf("expected %v, got %v", errSend, err)
		}
	})

	t.Run("Missing Handle", func(t *testing.T) {
		g, _ := newTestGateway(t, &mockConfig{})
		if err := g.Respond(context.Background(), domain.CommandInvocation{Name: "time"}, domain.Response{}); err == nil {
			t.Error("expected an error without an interaction handle")
		}
	})
}

func TestApplicationCommands(t *testing.T) {
	cmds := ApplicationCommands(game)
	if len(cmds) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(cmds))
	}
	if cmds[0].Name != commands.CommandTime || cmds[0].Description != "Show time since Crab Champions was last opened" {
		t.Errorf("unexpected time command %+v", cmds[0])
	}

	counter := cmds[2]
	if counter.Name != commands.CommandCounter || len(counter.Options) != 2 {
		t.Fatalf("unexpected counter command %+v", counter)
	}
	action, value := counter.Options[0], counter.Options[1]
	if !action.Required || len(action.Choices) != 4 {
		t.Errorf("action must be required with 4 choices, got %+v", action)
	}
	if value.Required || value.Type != discordgo.ApplicationCommandOptionInteger {
		t.Errorf("value must be an optional integer, got %+v", value)
	}
}

func int64Ptr(v int64) *int64 { return &v }
