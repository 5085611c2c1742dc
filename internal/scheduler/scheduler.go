package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// runTimeout bounds a single pipeline run; the HTTP client has its own,
// shorter timeout.
const runTimeout = 30 * time.Second

// Runner is the pipeline invoked by the scheduler.
type Runner interface {
	Run(ctx context.Context, trigger string)
}

// Scheduler runs the weather pipeline on a fixed interval and on demand.
// Scheduled and manual runs may overlap; the pipeline serializes its own
// state updates.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	interval  time.Duration
	logger    *slog.Logger

	wg sync.WaitGroup
}

// New creates a new Scheduler.
func New(interval time.Duration, runner Runner, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		runner:    runner,
		interval:  interval,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		s.logger.Debug("running scheduled weather update")
		s.run("schedule")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", "interval", interval.String())
	return nil
}

// Trigger runs the pipeline once, out of cycle, without blocking the caller.
func (s *Scheduler) Trigger(reason string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(reason)
	}()
}

// Stop stops future scheduled runs and waits for manual runs in flight.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(trigger string) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	s.runner.Run(ctx, trigger)
}
