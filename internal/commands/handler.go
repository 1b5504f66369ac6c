package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/genricoloni/playtime/internal/domain"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Command names as registered with the platform
const (
	CommandTime    = "time"
	CommandStatus  = "status"
	CommandCounter = "counter"
)

// Counter actions
const (
	ActionShow      = "show"
	ActionSet       = "set"
	ActionIncrement = "increment"
	ActionDecrement = "decrement"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// Embed colors
const (
	colorTime   = 0xFF6B35
	colorStatus = 0x0099FF
	colorGreen  = 0x00FF00
	colorYellow = 0xFFFF00
	colorRed    = 0xFF0000
)

var (
	// ErrMissingValue is returned when "counter set" has no value
	ErrMissingValue = errors.New("missing value for set")
	// ErrUnknownAction is returned for counter actions other than show/set/increment/decrement
	ErrUnknownAction = errors.New("unknown counter action")
	// ErrUnknownCommand is returned for command names the bot doesn't handle
	ErrUnknownCommand = errors.New("unknown command")
)

// State is the part of the tracker the commands read and mutate
type State interface {
	Snapshot() domain.Record
	SetCounter(v int64) domain.Record
	IncrementCounter() domain.Record
	DecrementCounter() domain.Record
	TargetUserID() string
	TargetGame() string
}

// Handler renders the tracking record for the time, status and counter commands
type Handler struct {
	logger *zap.Logger
	state  State
	clock  clockwork.Clock
	loc    *time.Location
}

// NewHandler creates a command handler bound to the tracker state
func NewHandler(logger *zap.Logger, state State, clock clockwork.Clock) *Handler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Handler{
		logger: logger,
		state:  state,
		clock:  clock,
		loc:    time.Local,
	}
}

// WithLocation sets the zone used for absolute timestamps in status
func (h *Handler) WithLocation(loc *time.Location) *Handler {
	h.loc = loc
	return h
}

// Handle routes an invocation to the matching command
func (h *Handler) Handle(inv domain.CommandInvocation) (domain.Response, error) {
	switch inv.Name {
	case CommandTime:
		return h.Time(), nil
	case CommandStatus:
		return h.Status(), nil
	case CommandCounter:
		return h.Counter(inv.Action, inv.Value)
	default:
		return domain.Response{}, fmt.Errorf("%w: %q", ErrUnknownCommand, inv.Name)
	}
}

// Time reports how long ago the game was opened or closed
func (h *Handler) Time() domain.Response {
	rec := h.state.Snapshot()
	now := domain.Timestamp(h.clock.Now())

	resp := domain.Response{
		Title: fmt.Sprintf("🎮 %s Time Tracker", h.state.TargetGame()),
		Color: colorTime,
	}

	switch {
	case rec.IsCurrentlyPlaying && rec.LastOpenedTime != nil:
		resp.Description = fmt.Sprintf("🎮 Currently playing!\nSession started: %s ago",
			FormatDuration(now-*rec.LastOpenedTime))
	case rec.IsCurrentlyPlaying:
		resp.Description = "🎮 Currently playing! (No start time recorded)"
	case rec.LastClosedTime != nil:
		resp.Description = fmt.Sprintf("⏰ Last played: %s ago", FormatDuration(now-*rec.LastClosedTime))
	case rec.LastOpenedTime != nil:
		resp.Description = fmt.Sprintf("⏰ Last opened: %s ago", FormatDuration(now-*rec.LastOpenedTime))
	default:
		resp.Description = "❓ No play history recorded yet"
	}

	return resp
}

// Status reports the playing flag, counter, tracked user and timestamps
func (h *Handler) Status() domain.Response {
	rec := h.state.Snapshot()

	playing := "No"
	if rec.IsCurrentlyPlaying {
		playing = "Yes"
	}

	fields := []domain.Field{
		{Name: "🎮 Currently Playing", Value: playing, Inline: true},
		{Name: "🔢 Global Counter", Value: fmt.Sprintf("%d", rec.GlobalCounter), Inline: true},
		{Name: "👤 Monitoring", Value: fmt.Sprintf("<@%s>", h.state.TargetUserID()), Inline: true},
	}
	if rec.LastOpenedTime != nil {
		fields = append(fields, domain.Field{Name: "⏰ Last Opened", Value: h.formatTime(*rec.LastOpenedTime), Inline: true})
	}
	if rec.LastClosedTime != nil {
		fields = append(fields, domain.Field{Name: "🛑 Last Closed", Value: h.formatTime(*rec.LastClosedTime), Inline: true})
	}

	return domain.Response{
		Title:  "🤖 Bot Status",
		Color:  colorStatus,
		Fields: fields,
	}
}

// Counter shows or modifies the global counter.
// Validation happens before any mutation.
func (h *Handler) Counter(action string, value *int64) (domain.Response, error) {
	switch action {
	case ActionShow:
		rec := h.state.Snapshot()
		return domain.Response{
			Title:       "🔢 Global Counter",
			Description: fmt.Sprintf("Current value: **%d**", rec.GlobalCounter),
			Color:       colorGreen,
		}, nil

	case ActionSet:
		if value == nil {
			return domain.Response{}, ErrMissingValue
		}
		rec := h.state.SetCounter(*value)
		h.logger.Info("Counter set", zap.Int64("value", rec.GlobalCounter))
		return domain.Response{
			Title:       "🔢 Counter Updated",
			Description: fmt.Sprintf("Global counter set to: **%d**", rec.GlobalCounter),
			Color:       colorYellow,
		}, nil

	case ActionIncrement:
		rec := h.state.IncrementCounter()
		h.logger.Info("Counter incremented", zap.Int64("value", rec.GlobalCounter))
		return domain.Response{
			Title:       "🔢 Counter Incremented",
			Description: fmt.Sprintf("Global counter is now: **%d**", rec.GlobalCounter),
			Color:       colorGreen,
		}, nil

	case ActionDecrement:
		rec := h.state.DecrementCounter()
		h.logger.Info("Counter decremented", zap.Int64("value", rec.GlobalCounter))
		return domain.Response{
			Title:       "🔢 Counter Decremented",
			Description: fmt.Sprintf("Global counter is now: **%d**", rec.GlobalCounter),
			Color:       colorRed,
		}, nil

	default:
		return domain.Response{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// ErrorResponse maps a command error to the private message shown to the invoker
func ErrorResponse(err error) domain.Response {
	var content string
	switch {
	case errors.Is(err, ErrMissingValue):
		content = "❌ Please provide a value to set!"
	case errors.Is(err, ErrUnknownAction):
		content = "❌ Unknown action. Use show, set, increment or decrement."
	case errors.Is(err, ErrUnknownCommand):
		content = "❌ Unknown command."
	default:
		content = fmt.Sprintf("❌ Error: %v", err)
	}
	return domain.Response{Content: content, Ephemeral: true}
}

func (h *Handler) formatTime(ts float64) string {
	return domain.TimeOf(ts).In(h.loc).Format(statusTimeLayout)
}

// FormatDuration renders a second count as "45s", "3m 5s", "2h 10m" or "1d 2h 3m".
// Components are truncated, not rounded. Negative input is treated as zero.
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)

	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", total)
	case seconds < 3600:
		return fmt.Sprintf("%dm %ds", total/60, total%60)
	case seconds < 86400:
		return fmt.Sprintf("%dh %dm", total/3600, (total%3600)/60)
	default:
		return fmt.Sprintf("%dd %dh %dm", total/86400, (total%86400)/3600, (total%3600)/60)
	}
}
