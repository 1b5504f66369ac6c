package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/genricoloni/playtime/internal/domain"
	"go.uber.org/zap"
)

const (
	eventBuffer = 64

	// defaultReadyGrace bounds how long we wait for GUILD_CREATE of every
	// guild announced in READY before emitting the startup snapshot anyway
	defaultReadyGrace = 15 * time.Second
)

// memberView is the last presence we saw for the target user in one guild
type memberView struct {
	displayName string
	activities  []domain.Activity
}

// DiscordGateway connects to Discord and turns dispatches about the target
// user into domain events
type DiscordGateway struct {
	logger     *zap.Logger
	cfg        domain.Config
	newSession SessionFactory
	events     chan domain.Event
	readyGrace time.Duration

	mu         sync.Mutex
	session    Session
	removers   []func()
	guildOrder []string
	guildNames map[string]string
	pending    map[string]struct{}
	views      map[string]*memberView // guild ID -> target user's view
	botUser    string
	readySeen  bool
	readySent  bool
	registered bool
	readyTimer *time.Timer

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewDiscordGateway creates a gateway backed by a real discordgo session
func NewDiscordGateway(logger *zap.Logger, cfg domain.Config) *DiscordGateway {
	return newDiscordGateway(logger, cfg, NewDiscordSession)
}

func newDiscordGateway(logger *zap.Logger, cfg domain.Config, factory SessionFactory) *DiscordGateway {
	return &DiscordGateway{
		logger:     logger,
		cfg:        cfg,
		newSession: factory,
		events:     make(chan domain.Event, eventBuffer),
		readyGrace: defaultReadyGrace,
		guildNames: make(map[string]string),
		pending:    make(map[string]struct{}),
		views:      make(map[string]*memberView),
		stopped:    make(chan struct{}),
	}
}

// Start opens the gateway connection. A bad token or a failed handshake
// is returned as an error; the bot can't run without a live connection.
func (g *DiscordGateway) Start(ctx context.Context) error {
	session, err := g.newSession(g.cfg.GetToken())
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}

	g.mu.Lock()
	g.session = session
	g.removers = append(g.removers,
		session.AddHandler(g.onReady),
		session.AddHandler(g.onGuildCreate),
		session.AddHandler(g.onPresenceUpdate),
		session.AddHandler(g.onInteractionCreate),
	)
	g.mu.Unlock()

	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}

	g.logger.Info("Discord gateway connected",
		zap.String("targetUser", g.cfg.GetTargetUserID()),
		zap.String("targetGame", g.cfg.GetTargetGame()))
	return nil
}

// Stop removes the handlers and closes the connection
func (g *DiscordGateway) Stop(ctx context.Context) error {
	g.stopOnce.Do(func() { close(g.stopped) })

	g.mu.Lock()
	if g.readyTimer != nil {
		g.readyTimer.Stop()
	}
	for _, remove := range g.removers {
		remove()
	}
	g.removers = nil
	session := g.session
	g.session = nil
	g.mu.Unlock()

	if session == nil {
		return nil
	}
	if err := session.Close(); err != nil {
		return fmt.Errorf("failed to close gateway connection: %w", err)
	}
	g.logger.Info("Discord gateway closed")
	return nil
}

// Events returns a read-only channel of gateway events
func (g *DiscordGateway) Events() <-chan domain.Event {
	return g.events
}

// Respond answers a command invocation with an embed, or a plain message
// when the response only carries text
func (g *DiscordGateway) Respond(ctx context.Context, inv domain.CommandInvocation, resp domain.Response) error {
	interaction, ok := inv.Handle.(*discordgo.Interaction)
	if !ok || interaction == nil {
		return fmt.Errorf("invocation %q has no interaction handle", inv.Name)
	}

	g.mu.Lock()
	session := g.session
	g.mu.Unlock()
	if session == nil {
		return fmt.Errorf("gateway is not connected")
	}

	if err := session.InteractionRespond(interaction, toInteractionResponse(resp)); err != nil {
		return fmt.Errorf("failed to respond to %q: %w", inv.Name, err)
	}
	return nil
}

func (g *DiscordGateway) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	appID := ""
	if r.User != nil {
		appID = r.User.ID
	}
	if r.Application != nil && r.Application.ID != "" {
		appID = r.Application.ID
	}

	g.mu.Lock()
	if r.User != nil {
		g.botUser = r.User.Username
	}
	g.readySeen = true
	g.guildOrder = g.guildOrder[:0]
	for _, guild := range r.Guilds {
		g.guildOrder = append(g.guildOrder, guild.ID)
		if _, seen := g.guildNames[guild.ID]; !seen {
			g.pending[guild.ID] = struct{}{}
		}
	}
	needsRegister := !g.registered
	g.registered = true
	allSeen := len(g.pending) == 0
	if !allSeen && !g.readySent && g.readyTimer == nil {
		g.readyTimer = time.AfterFunc(g.readyGrace, g.emitReady)
	}
	g.mu.Unlock()

	g.logger.Info("Bot logged in",
		zap.String("user", g.botUser),
		zap.Int("guilds", len(r.Guilds)))

	if needsRegister {
		g.registerCommands(appID)
	}
	if allSeen {
		g.emitReady()
	}
}

func (g *DiscordGateway) onGuildCreate(_ *discordgo.Session, gc *discordgo.GuildCreate) {
	if gc.Guild == nil || gc.Unavailable {
		return
	}
	target := g.cfg.GetTargetUserID()

	var view *memberView
	for _, m := range gc.Members {
		if m != nil && m.User != nil && m.User.ID == target {
			view = &memberView{displayName: memberName(m)}
			break
		}
	}
	for _, p := range gc.Presences {
		if p == nil || p.User == nil || p.User.ID != target {
			continue
		}
		if view == nil {
			view = &memberView{displayName: p.User.Username}
		}
		view.activities = toActivities(p.Activities)
		break
	}

	g.mu.Lock()
	g.guildNames[gc.ID] = gc.Name
	if view != nil {
		g.views[gc.ID] = view
	}
	delete(g.pending, gc.ID)
	complete := g.readySeen && !g.readySent && len(g.pending) == 0
	g.mu.Unlock()

	if complete {
		g.emitReady()
	}
}

func (g *DiscordGateway) onPresenceUpdate(_ *discordgo.Session, p *discordgo.PresenceUpdate) {
	if p.User == nil || p.User.ID != g.cfg.GetTargetUserID() {
		return
	}
	after := toActivities(p.Activities)

	g.mu.Lock()
	var before []domain.Activity
	view, ok := g.views[p.GuildID]
	if ok {
		before = view.activities
		view.activities = after
	} else {
		g.views[p.GuildID] = &memberView{displayName: p.User.Username, activities: after}
	}
	g.mu.Unlock()

	g.emit(domain.PresenceUpdate{
		UserID:  p.User.ID,
		GuildID: p.GuildID,
		Before:  before,
		After:   after,
	})
}

func (g *DiscordGateway) onInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()

	inv := domain.CommandInvocation{
		Name:   data.Name,
		Handle: i.Interaction,
	}
	switch {
	case i.Member != nil && i.Member.User != nil:
		inv.InvokerID = i.Member.User.ID
	case i.User != nil:
		inv.InvokerID = i.User.ID
	}

	for _, opt := range data.Options {
		if opt == nil {
			continue
		}
		switch opt.Name {
		case optionAction:
			if s, ok := opt.Value.(string); ok {
				inv.Action = s
			}
		case optionValue:
			if v, ok := intOption(opt.Value); ok {
				inv.Value = &v
			}
		}
	}

	g.logger.Debug("Command received",
		zap.String("command", inv.Name),
		zap.String("action", inv.Action),
		zap.String("invoker", inv.InvokerID))

	g.emit(inv)
}

// registerCommands syncs the slash commands to the configured guild, or
// globally when none is set. Failures are logged and otherwise ignored.
func (g *DiscordGateway) registerCommands(appID string) {
	g.mu.Lock()
	session := g.session
	g.mu.Unlock()
	if session == nil {
		return
	}

	guildID := g.cfg.GetGuildID()
	created, err := session.ApplicationCommandBulkOverwrite(appID, guildID, ApplicationCommands(g.cfg.GetTargetGame()))
	if err != nil {
		g.logger.Error("Failed to sync commands", zap.String("guild", guildID), zap.Error(err))
		return
	}

	if guildID != "" {
		g.logger.Info("Synced commands to guild", zap.Int("count", len(created)), zap.String("guild", guildID))
	} else {
		g.logger.Info("Synced commands globally", zap.Int("count", len(created)))
	}
}

// emitReady sends the one-time startup snapshot
func (g *DiscordGateway) emitReady() {
	g.mu.Lock()
	if g.readySent {
		g.mu.Unlock()
		return
	}
	g.readySent = true
	if g.readyTimer != nil {
		g.readyTimer.Stop()
	}

	snap := domain.ReadySnapshot{BotUser: g.botUser}
	target := g.cfg.GetTargetUserID()
	for _, id := range g.guildOrder {
		snap.Guilds = append(snap.Guilds, domain.GuildInfo{ID: id, Name: g.guildNames[id]})
		if view, ok := g.views[id]; ok {
			snap.Members = append(snap.Members, domain.MemberPresence{
				GuildID:     id,
				UserID:      target,
				DisplayName: view.displayName,
				Activities:  append([]domain.Activity(nil), view.activities...),
			})
		}
	}
	missing := len(g.pending)
	g.mu.Unlock()

	if missing > 0 {
		g.logger.Warn("Some guilds were not received before startup check", zap.Int("missing", missing))
	}
	g.emit(snap)
}

// emit blocks until the engine takes the event or the gateway stops
func (g *DiscordGateway) emit(ev domain.Event) {
	select {
	case g.events <- ev:
	case <-g.stopped:
	}
}

func memberName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

func toActivities(in []*discordgo.Activity) []domain.Activity {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Activity, 0, len(in))
	for _, a := range in {
		if a == nil {
			continue
		}
		out = append(out, domain.Activity{Type: domain.ActivityType(a.Type), Name: a.Name})
	}
	return out
}

// intOption reads an integer option; JSON numbers decode as float64
func intOption(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

func toInteractionResponse(resp domain.Response) *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{}
	if resp.Title != "" || resp.Description != "" || len(resp.Fields) > 0 {
		embed := &discordgo.MessageEmbed{
			Title:       resp.Title,
			Description: resp.Description,
			Color:       resp.Color,
		}
		for _, f := range resp.Fields {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   f.Name,
				Value:  f.Value,
				Inline: f.Inline,
			})
		}
		data.Embeds = []*discordgo.MessageEmbed{embed}
	}
	data.Content = resp.Content
	if resp.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}
