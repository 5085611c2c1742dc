package weather

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Service runs the fetch -> classify -> apply pipeline for the configured
// station and hands change events to the notifier.
type Service struct {
	fetcher  Fetcher
	stations StationSource
	tracker  *Tracker
	notifier Notifier
	recorder Recorder
	logger   *slog.Logger

	mu     sync.RWMutex
	latest *Observation
}

// NewService creates a new Service. notifier and recorder may be nil.
func NewService(fetcher Fetcher, stations StationSource, tracker *Tracker, notifier Notifier, recorder Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher:  fetcher,
		stations: stations,
		tracker:  tracker,
		notifier: notifier,
		recorder: recorder,
		logger:   logger.With("component", "weather"),
	}
}

// Refresh runs the pipeline once. It returns the emitted event, or nil when
// nothing changed. Fetch errors, ErrMalformed and ErrNoData are returned
// unchanged; in every error case the last state is left as it was.
func (s *Service) Refresh(ctx context.Context) (*ChangeEvent, error) {
	station := s.stations.Station()

	raw, err := s.fetcher.Fetch(ctx, station)
	if err != nil {
		s.observe(PollFetchError)
		return nil, err
	}

	obs, cat, err := ClassifyPayload(raw)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			s.observe(PollNoData)
		} else {
			s.observe(PollParseError)
		}
		return nil, err
	}

	// The operator may have switched stations while this run was fetching.
	// The check runs under the tracker lock, so a result for the replaced
	// station can never land after one for its successor.
	stillCurrent := func() bool { return s.stations.Station() == station }

	ev, changed, current := s.tracker.ApplyIfCurrent(obs, cat, stillCurrent)
	if !current {
		s.logger.Debug("station changed during fetch; discarding result", "fetched", station.Key())
		s.observe(PollStale)
		return nil, nil
	}

	s.mu.Lock()
	s.latest = &obs
	s.mu.Unlock()

	if !changed {
		s.logger.Debug("weather unchanged", "station", obs.StationName, "category", cat.Label())
		s.observe(PollUnchanged)
		return nil, nil
	}

	s.logger.Info("weather changed",
		"station", ev.StationName,
		"category", ev.Category.Label(),
		"rain_mm", obs.RainTraceMm,
		"seq", ev.Seq,
	)
	s.observe(PollChanged)
	if s.recorder != nil {
		s.recorder.ObserveAnnouncement(cat)
	}
	if s.notifier != nil {
		s.notifier.Notify(ev)
	}
	return &ev, nil
}

// Run is the pipeline boundary used by triggers: it never returns an error,
// it logs it.
func (s *Service) Run(ctx context.Context, trigger string) {
	_, err := s.Refresh(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoData):
		s.logger.Info("no weather data reported; skipping cycle", "trigger", trigger)
	case errors.Is(err, ErrMalformed):
		s.logger.Warn("failed to parse observation", "trigger", trigger, "err", err)
	default:
		s.logger.Warn("failed to fetch observation", "trigger", trigger, "provider", s.fetcher.Name(), "err", err)
	}
}

// Current returns the last announced state.
func (s *Service) Current() LastState {
	return s.tracker.Last()
}

// Latest returns the most recently parsed observation, if any.
func (s *Service) Latest() (Observation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return Observation{}, false
	}
	return *s.latest, true
}

func (s *Service) observe(r PollResult) {
	if s.recorder != nil {
		s.recorder.ObservePoll(r)
	}
}
