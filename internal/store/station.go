package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/i474232898/bom-weather-sync/internal/weather"
)

// ErrInvalidStation is returned when a station update is missing a field.
var ErrInvalidStation = errors.New("invalid station")

// StationStore is a concurrency-safe holder of the configured station,
// optionally persisted to a JSON file.
type StationStore struct {
	mu      sync.RWMutex
	station weather.Station

	// path of the persisted file; empty disables persistence
	path string
}

// NewStationStore returns a store holding def, overridden by the station in
// path when that file exists. A missing file is not an error.
func NewStationStore(def weather.Station, path string) (*StationStore, error) {
	s := &StationStore{station: def, path: path}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read station file: %w", err)
	}

	var st weather.Station
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode station file %s: %w", path, err)
	}
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("%w in %s: %v", ErrInvalidStation, path, err)
	}
	s.station = st
	return s, nil
}

// Station returns the current station.
func (s *StationStore) Station() weather.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.station
}

// SetStation validates, persists and then publishes the new station. On a
// persistence error the in-memory station is left unchanged.
func (s *StationStore) SetStation(st weather.Station) error {
	if err := st.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path != "" {
		if err := writeFileAtomic(s.path, st); err != nil {
			return fmt.Errorf("persist station: %w", err)
		}
	}
	s.station = st
	return nil
}

func writeFileAtomic(path string, st weather.Station) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".station-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
