package tracker

import (
	"sync"

	"github.com/genricoloni/playtime/internal/domain"
	"github.com/genricoloni/playtime/internal/presence"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Tracker owns the tracking record and applies presence transitions to it.
// Every mutation is followed by a save.
type Tracker struct {
	logger *zap.Logger
	store  domain.Store
	clock  clockwork.Clock
	userID string
	game   string

	mu  sync.Mutex
	rec domain.Record
}

// NewTracker creates a tracker and loads the stored record
func NewTracker(logger *zap.Logger, cfg domain.Config, store domain.Store, clock clockwork.Clock) *Tracker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	t := &Tracker{
		logger: logger,
		store:  store,
		clock:  clock,
		userID: cfg.GetTargetUserID(),
		game:   cfg.GetTargetGame(),
		rec:    store.Load(),
	}

	logger.Info("Tracker initialized",
		zap.String("user", t.userID),
		zap.String("game", t.game),
		zap.Bool("playing", t.rec.IsCurrentlyPlaying),
		zap.Int64("counter", t.rec.GlobalCounter))

	return t
}

// TargetUserID returns the tracked user's ID
func (t *Tracker) TargetUserID() string {
	return t.userID
}

// TargetGame returns the tracked game name
func (t *Tracker) TargetGame() string {
	return t.game
}

// Snapshot returns a copy of the current record
func (t *Tracker) Snapshot() domain.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rec.Clone()
}

// HandlePresence compares the before/after snapshots of an update and
// applies the resulting transition. The stored playing flag is not
// consulted; only the update itself decides.
func (t *Tracker) HandlePresence(u domain.PresenceUpdate) domain.Transition {
	if u.UserID != t.userID {
		return domain.TransitionNone
	}

	wasPlaying := presence.IsPlaying(u.Before, t.game)
	isPlaying := presence.IsPlaying(u.After, t.game)

	switch {
	case !wasPlaying && isPlaying:
		t.start()
		t.logger.Info("Game started", zap.String("game", t.game), zap.String("guild", u.GuildID))
		return domain.TransitionStart
	case wasPlaying && !isPlaying:
		t.stop()
		t.logger.Info("Game stopped", zap.String("game", t.game), zap.String("guild", u.GuildID))
		t.logger.Info("Global counter reset to 0")
		return domain.TransitionStop
	default:
		return domain.TransitionNone
	}
}

// CheckInitialPresence seeds the record from the members visible at startup.
// The first entry for the target user wins. It only ever starts a session.
func (t *Tracker) CheckInitialPresence(members []domain.MemberPresence) bool {
	var target *domain.MemberPresence
	for i := range members {
		if members[i].UserID == t.userID {
			target = &members[i]
			break
		}
	}

	if target == nil {
		t.logger.Warn("Target user not found in any server", zap.String("user", t.userID))
		return false
	}

	if !presence.IsPlaying(target.Activities, t.game) {
		return false
	}

	t.mu.Lock()
	playing := t.rec.IsCurrentlyPlaying
	t.mu.Unlock()
	if playing {
		return false
	}

	t.start()
	t.logger.Info("User was already playing on bot startup",
		zap.String("user", target.DisplayName),
		zap.String("guild", target.GuildID))
	return true
}

// SetCounter replaces the counter value and returns the new record
func (t *Tracker) SetCounter(v int64) domain.Record {
	return t.mutate(func(r *domain.Record) { r.GlobalCounter = v })
}

// IncrementCounter adds one to the counter and returns the new record
func (t *Tracker) IncrementCounter() domain.Record {
	return t.mutate(func(r *domain.Record) { r.GlobalCounter++ })
}

// DecrementCounter subtracts one from the counter and returns the new record
func (t *Tracker) DecrementCounter() domain.Record {
	return t.mutate(func(r *domain.Record) { r.GlobalCounter-- })
}

// Flush saves the current record. Used on shutdown.
func (t *Tracker) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Save(t.rec.Clone())
}

func (t *Tracker) start() {
	now := domain.Timestamp(t.clock.Now())
	t.mutate(func(r *domain.Record) {
		r.IsCurrentlyPlaying = true
		r.LastOpenedTime = &now
	})
}

func (t *Tracker) stop() {
	now := domain.Timestamp(t.clock.Now())
	t.mutate(func(r *domain.Record) {
		r.IsCurrentlyPlaying = false
		r.LastClosedTime = &now
		r.GlobalCounter = 0
	})
}

// mutate applies fn and saves. Save failures are logged by the store and
// otherwise ignored; the in-memory record stays authoritative.
func (t *Tracker) mutate(fn func(*domain.Record)) domain.Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	fn(&t.rec)
	snapshot := t.rec.Clone()
	_ = t.store.Save(snapshot)
	return snapshot
}
