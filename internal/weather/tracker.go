package weather

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tracker holds the last announced state. The compare and the update happen
// under one lock, so concurrent pipeline runs observing the same result
// produce a single event.
type Tracker struct {
	mu   sync.Mutex
	last LastState
	seq  uint64
}

// NewTracker returns a Tracker seeded with initial. Pass the zero LastState to
// announce the first successful classification.
func NewTracker(initial LastState) *Tracker {
	return &Tracker{last: initial}
}

// Last returns a copy of the current state.
func (t *Tracker) Last() LastState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// ApplyIfChanged replaces the last state and returns an event when the
// category or the station name differs from it. Otherwise it returns false
// and leaves the state untouched.
func (t *Tracker) ApplyIfChanged(obs Observation, cat Category) (ChangeEvent, bool) {
	ev, changed, _ := t.ApplyIfCurrent(obs, cat, nil)
	return ev, changed
}

// ApplyIfCurrent is ApplyIfChanged guarded by current, which is evaluated
// under the tracker lock. When current reports false the result is stale:
// nothing is applied and the third return value is false. A nil current
// always passes.
func (t *Tracker) ApplyIfCurrent(obs Observation, cat Category, current func() bool) (ChangeEvent, bool, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if current != nil && !current() {
		return ChangeEvent{}, false, false
	}

	if cat == t.last.Category && obs.StationName == t.last.StationName {
		return ChangeEvent{}, false, true
	}

	t.last = LastState{Category: cat, StationName: obs.StationName}
	t.seq++

	rain := obs.RainTraceMm
	return ChangeEvent{
		ID:           uuid.NewString(),
		Seq:          t.seq,
		Category:     cat,
		StationName:  obs.StationName,
		DisplayName:  obs.DisplayName(),
		RainTraceMm:  &rain,
		WindSpeedKmh: obs.WindSpeedKmh,
		AirTempC:     obs.AirTempC,
		Timestamp:    time.Now().UTC(),
	}, true, true
}
