package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/i474232898/bom-weather-sync/internal/weather"
)

var defaultStation = weather.Station{Product: "IDQ60901", ID: "94576"}

func TestStationStoreDefaultsWithoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "station.json")

	s, err := NewStationStore(defaultStation, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Station() != defaultStation {
		t.Fatalf("expected default station, got %+v", s.Station())
	}
}

func TestStationStorePersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "station.json")

	s, err := NewStationStore(defaultStation, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next := weather.Station{Product: "IDN60901", ID: "94768"}
	if err := s.SetStation(next); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := NewStationStore(defaultStation, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reloaded.Station() != next {
		t.Fatalf("expected %+v after reload, got %+v", next, reloaded.Station())
	}
}

func TestStationStoreRejectsInvalid(t *testing.T) {
	s, err := NewStationStore(defaultStation, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = s.SetStation(weather.Station{Product: "IDQ60901"})
	if !errors.Is(err, ErrInvalidStation) {
		t.Fatalf("expected ErrInvalidStation, got %v", err)
	}
	if s.Station() != defaultStation {
		t.Fatalf("expected station unchanged, got %+v", s.Station())
	}
}

func TestStationStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "station.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStationStore(defaultStation, path); err == nil {
		t.Fatalf("expected error for corrupt station file")
	}
}
