package domain

import "time"

// ActivityType mirrors the activity kinds a chat platform reports for a user.
// Values match Discord's wire encoding.
type ActivityType int

const (
	// ActivityPlaying is a "Playing <name>" activity
	ActivityPlaying ActivityType = iota
	// ActivityStreaming is a "Streaming <name>" activity
	ActivityStreaming
	// ActivityListening is a "Listening to <name>" activity
	ActivityListening
	// ActivityWatching is a "Watching <name>" activity
	ActivityWatching
	// ActivityCustom is a custom status
	ActivityCustom
	// ActivityCompeting is a "Competing in <name>" activity
	ActivityCompeting
)

// Activity describes one thing a user is currently doing
type Activity struct {
	Type ActivityType
	Name string
}

// Record is the persisted tracking state.
// Timestamps are seconds since the Unix epoch; nil means never recorded.
type Record struct {
	GlobalCounter      int64    `json:"global_counter"`
	LastOpenedTime     *float64 `json:"last_opened_time"`
	LastClosedTime     *float64 `json:"last_closed_time"`
	IsCurrentlyPlaying bool     `json:"is_currently_playing"`
}

// DefaultRecord returns the record used when nothing has been stored yet
func DefaultRecord() Record {
	return Record{}
}

// Clone returns a deep copy so callers can't alias the timestamp pointers
func (r Record) Clone() Record {
	out := r
	if r.LastOpenedTime != nil {
		v := *r.LastOpenedTime
		out.LastOpenedTime = &v
	}
	if r.LastClosedTime != nil {
		v := *r.LastClosedTime
		out.LastClosedTime = &v
	}
	return out
}

// Timestamp converts t to fractional seconds since the epoch
func Timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// TimeOf converts fractional epoch seconds back to a time.Time
func TimeOf(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

// Transition is the outcome of comparing two presence snapshots
type Transition string

const (
	// TransitionNone means nothing changed for the target game
	TransitionNone Transition = "none"
	// TransitionStart means the target game was started
	TransitionStart Transition = "start"
	// TransitionStop means the target game was closed
	TransitionStop Transition = "stop"
)

// Event is anything the gateway delivers to the engine loop
type Event interface {
	eventKind() string
}

// PresenceUpdate carries a user's activities before and after a change
type PresenceUpdate struct {
	UserID  string
	GuildID string
	Before  []Activity
	After   []Activity
}

// MemberPresence is a user's presence as seen in one guild at startup
type MemberPresence struct {
	GuildID     string
	UserID      string
	DisplayName string
	Activities  []Activity
}

// ReadySnapshot is emitted once the gateway has seen every guild it joined.
// Members lists the target user's presence per guild, in guild order.
type ReadySnapshot struct {
	BotUser string
	Guilds  []GuildInfo
	Members []MemberPresence
}

// GuildInfo identifies a joined guild
type GuildInfo struct {
	ID   string
	Name string
}

// CommandInvocation is a slash command issued by a user
type CommandInvocation struct {
	Name      string
	Action    string
	Value     *int64
	InvokerID string
	// Handle is owned by the gateway and identifies the interaction to answer
	Handle any
}

func (PresenceUpdate) eventKind() string    { return "presence" }
func (ReadySnapshot) eventKind() string     { return "ready" }
func (CommandInvocation) eventKind() string { return "command" }

// Field is one name/value row of a rendered response
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Response is a renderable command reply.
// Content is used for plain-text replies; Title/Description/Fields for embeds.
type Response struct {
	Title       string
	Description string
	Color       int
	Fields      []Field
	Content     string
	Ephemeral   bool
}

// SessionNotice describes a START or STOP for notification sinks
type SessionNotice struct {
	Transition Transition
	Game       string
	At         time.Time
	Record     Record
}
