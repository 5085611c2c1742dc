package host

import (
	"context"
	"log/slog"
	"sync"

	"github.com/i474232898/bom-weather-sync/internal/weather"
)

// Foreground applies change events on a single goroutine, the only place the
// World is mutated. Notify never blocks the caller.
type Foreground struct {
	world       World
	broadcaster Broadcaster
	logger      *slog.Logger

	mu      sync.Mutex
	pending []weather.ChangeEvent
	wake    chan struct{}

	// owned by the Run goroutine
	lastSeq uint64
}

// NewForeground creates a Foreground. Call Run to start applying events.
func NewForeground(world World, broadcaster Broadcaster, logger *slog.Logger) *Foreground {
	if logger == nil {
		logger = slog.Default()
	}
	return &Foreground{
		world:       world,
		broadcaster: broadcaster,
		logger:      logger.With("component", "foreground"),
		wake:        make(chan struct{}, 1),
	}
}

// Notify queues ev for the foreground goroutine.
func (f *Foreground) Notify(ev weather.ChangeEvent) {
	f.mu.Lock()
	f.pending = append(f.pending, ev)
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// Run applies queued events until ctx is done. Events already queued when
// ctx is cancelled are applied before returning.
func (f *Foreground) Run(ctx context.Context) {
	for {
		select {
		case <-f.wake:
			f.drain()
		case <-ctx.Done():
			f.drain()
			return
		}
	}
}

func (f *Foreground) drain() {
	f.mu.Lock()
	batch := f.pending
	f.pending = nil
	f.mu.Unlock()

	for _, ev := range batch {
		f.apply(ev)
	}
}

func (f *Foreground) apply(ev weather.ChangeEvent) {
	// A run that lost the race to a newer change may publish late.
	if ev.Seq <= f.lastSeq {
		f.logger.Debug("dropping stale change event", "seq", ev.Seq, "last_seq", f.lastSeq)
		return
	}
	f.lastSeq = ev.Seq

	applyCategory(f.world, ev.Category)
	if f.broadcaster != nil {
		f.broadcaster.Broadcast(FormatAnnouncement(ev))
	}
}
