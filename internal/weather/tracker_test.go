package weather

import (
	"sync"
	"testing"
)

func TestTrackerApplyIfChangedIsIdempotent(t *testing.T) {
	tr := NewTracker(LastState{})
	obs := Observation{StationName: "Brisbane", RainTraceMm: 2}

	ev, ok := tr.ApplyIfChanged(obs, CategoryModerateRain)
	if !ok {
		t.Fatalf("expected first apply to emit an event")
	}
	if ev.Category != CategoryModerateRain || ev.StationName != "Brisbane" || ev.Seq != 1 {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.ID == "" {
		t.Fatalf("expected event id to be set")
	}
	if ev.RainTraceMm == nil || *ev.RainTraceMm != 2 {
		t.Fatalf("expected rain 2 on event, got %v", ev.RainTraceMm)
	}

	if _, ok := tr.ApplyIfChanged(obs, CategoryModerateRain); ok {
		t.Fatalf("expected second identical apply to be a no-op")
	}
	if got := tr.Last(); got != (LastState{Category: CategoryModerateRain, StationName: "Brisbane"}) {
		t.Fatalf("unexpected state %+v", got)
	}
}

func TestTrackerStationChangeAlone(t *testing.T) {
	tr := NewTracker(LastState{Category: CategoryClear, StationName: "Brisbane"})

	ev, ok := tr.ApplyIfChanged(Observation{StationName: "Archerfield"}, CategoryClear)
	if !ok {
		t.Fatalf("expected station change to emit an event")
	}
	if ev.StationName != "Archerfield" || ev.Category != CategoryClear {
		t.Fatalf("unexpected event %+v", ev)
	}
	if got := tr.Last(); got.StationName != "Archerfield" {
		t.Fatalf("expected state to follow the new station, got %+v", got)
	}
}

func TestTrackerConcurrentIdenticalApplyEmitsOnce(t *testing.T) {
	tr := NewTracker(LastState{Category: CategoryClear, StationName: "Brisbane"})
	obs := Observation{StationName: "Brisbane"}

	const workers = 64
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		events int
		start  = make(chan struct{})
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, ok := tr.ApplyIfChanged(obs, CategoryThunderstorm); ok {
				mu.Lock()
				events++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	if events != 1 {
		t.Fatalf("expected exactly one event, got %d", events)
	}
}

func TestTrackerApplyIfCurrentRejectsStaleResult(t *testing.T) {
	prior := LastState{Category: CategoryClear, StationName: "Archerfield"}
	tr := NewTracker(prior)

	_, changed, current := tr.ApplyIfCurrent(Observation{StationName: "Brisbane"}, CategoryThunderstorm, func() bool { return false })
	if changed || current {
		t.Fatalf("expected stale result to be rejected, got changed=%v current=%v", changed, current)
	}
	if tr.Last() != prior {
		t.Fatalf("expected state unchanged, got %+v", tr.Last())
	}

	ev, changed, current := tr.ApplyIfCurrent(Observation{StationName: "Brisbane"}, CategoryThunderstorm, func() bool { return true })
	if !changed || !current || ev.Seq != 1 {
		t.Fatalf("expected current result to apply, got %+v changed=%v current=%v", ev, changed, current)
	}
}

func TestTrackerApplyIfCurrentChecksUnderLock(t *testing.T) {
	tr := NewTracker(LastState{})

	locked := false
	tr.ApplyIfCurrent(Observation{StationName: "Brisbane"}, CategoryClear, func() bool {
		// TryLock fails only while ApplyIfCurrent holds the lock.
		if tr.mu.TryLock() {
			tr.mu.Unlock()
		} else {
			locked = true
		}
		return true
	})
	if !locked {
		t.Fatalf("expected the station check to run while the tracker is locked")
	}
}
