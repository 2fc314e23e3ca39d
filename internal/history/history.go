// Package history keeps the process-lifetime, per-session record of
// previously emitted parameter vectors. It is the only shared mutable state
// in the planning core. Eviction is lazy: every acquisition sweeps a small
// batch of records, so no background timer is needed and memory stays
// bounded by the set of sessions active within the inactivity window.
package history

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lukaigt/MediaMorph/api/schemas"
	"github.com/lukaigt/MediaMorph/internal/metrics"
)

// Emission is the most recent parameter vector recorded for one effect.
type Emission struct {
	Vector schemas.ParamVector
	At     time.Time
}

// Config holds the eviction tunables.
type Config struct {
	// Window is the session inactivity window; records untouched for longer
	// are eligible for eviction, which intentionally re-permits repeats.
	Window time.Duration
	// SweepBatch caps how many records one acquisition may examine.
	SweepBatch int
}

// History is the session-keyed anti-repeat memory. Never persisted; a process
// restart resets it by design.
type History struct {
	logger     *zap.Logger
	window     time.Duration
	sweepBatch int

	mu       sync.Mutex
	sessions map[string]*record
}

type record struct {
	// mu serializes plan builds for one session, so two concurrent builds
	// cannot both read a stale emission and emit colliding vectors.
	mu sync.Mutex
	// refs counts outstanding handles. Incremented under History.mu before
	// mu is taken, so a handle between the two locks is already visible to
	// the sweep and the record cannot be evicted out from under it.
	refs        atomic.Int32
	effects     map[string]Emission
	lastTouched time.Time
}

// New creates an empty history.
func New(cfg Config, logger *zap.Logger) *History {
	if cfg.SweepBatch < 1 {
		cfg.SweepBatch = 1
	}
	return &History{
		logger:     logger.Named("history"),
		window:     cfg.Window,
		sweepBatch: cfg.SweepBatch,
		sessions:   make(map[string]*record),
	}
}

// Session is an exclusive handle on one session's record. Holders must call
// Release when done; the record cannot be evicted while a handle is out.
type Session struct {
	id  string
	rec *record
}

// Acquire locks the session's record, creating it on first use, and sweeps a
// batch of stale records while it holds the table lock. The returned handle
// serializes all reads and writes for the session.
func (h *History) Acquire(session string, now time.Time) *Session {
	h.mu.Lock()
	h.sweepLocked(now)
	rec, ok := h.sessions[session]
	if !ok {
		rec = &record{effects: make(map[string]Emission)}
		h.sessions[session] = rec
	}
	rec.lastTouched = now
	rec.refs.Add(1)
	h.mu.Unlock()

	rec.mu.Lock()
	return &Session{id: session, rec: rec}
}

// Release unlocks the session's record and drops the handle's reference.
func (s *Session) Release() {
	s.rec.mu.Unlock()
	s.rec.refs.Add(-1)
}

// Get returns the last emission recorded for the effect, if any. Staleness is
// the sampler's concern: the emission timestamp travels with the vector.
func (s *Session) Get(effect string) (Emission, bool) {
	e, ok := s.rec.effects[effect]
	return e, ok
}

// RecordEmission overwrites the stored vector and timestamp for the effect.
func (s *Session) RecordEmission(effect string, vector schemas.ParamVector, now time.Time) {
	s.rec.effects[effect] = Emission{Vector: vector.Clone(), At: now}
	if now.After(s.rec.lastTouched) {
		s.rec.lastTouched = now
	}
}

// EvictStale removes every session record whose most recent touch is older
// than the inactivity window. Acquire already sweeps opportunistically; this
// full sweep exists for callers that want a deterministic cut.
func (h *History) EvictStale(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, rec := range h.sessions {
		h.tryEvictLocked(id, rec, now)
	}
}

// Len reports the number of live session records.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// sweepLocked examines up to sweepBatch records. Go's randomized map
// iteration spreads the work across calls, keeping each acquisition O(1)
// amortized.
func (h *History) sweepLocked(now time.Time) {
	examined := 0
	for id, rec := range h.sessions {
		if examined >= h.sweepBatch {
			return
		}
		examined++
		h.tryEvictLocked(id, rec, now)
	}
}

// tryEvictLocked drops the record if it is stale and no handle is out.
// Callers hold h.mu.
func (h *History) tryEvictLocked(id string, rec *record, now time.Time) {
	if now.Sub(rec.lastTouched) <= h.window {
		return
	}
	if rec.refs.Load() > 0 {
		// An in-flight build holds a handle; it refreshed lastTouched.
		return
	}
	delete(h.sessions, id)
	metrics.HistoryEvictions.Inc()
	h.logger.Debug("evicted stale session record", zap.String("session", id))
}
