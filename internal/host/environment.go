package host

import (
	"log/slog"
	"sync"

	"github.com/i474232898/bom-weather-sync/internal/weather"
)

// World is the environment mutated on the foreground goroutine.
type World interface {
	SetStorm(storm bool)
	SetThundering(thundering bool)
}

// Broadcaster delivers an announcement to users.
type Broadcaster interface {
	Broadcast(message string)
}

// EnvironmentState is a point-in-time view of the environment.
type EnvironmentState struct {
	Storm      bool `json:"storm"`
	Thundering bool `json:"thundering"`
}

// Environment is an in-process World.
type Environment struct {
	mu    sync.RWMutex
	state EnvironmentState
}

func NewEnvironment() *Environment {
	return &Environment{}
}

func (e *Environment) SetStorm(storm bool) {
	e.mu.Lock()
	e.state.Storm = storm
	e.mu.Unlock()
}

func (e *Environment) SetThundering(thundering bool) {
	e.mu.Lock()
	e.state.Thundering = thundering
	e.mu.Unlock()
}

// Snapshot returns the current environment state.
func (e *Environment) Snapshot() EnvironmentState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// LogBroadcaster broadcasts announcements to the log.
type LogBroadcaster struct {
	Logger *slog.Logger
}

func (b LogBroadcaster) Broadcast(message string) {
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info(message, "component", "broadcast")
}

// applyCategory maps a category onto storm and thunder flags.
func applyCategory(w World, cat weather.Category) {
	switch cat {
	case weather.CategoryThunderstorm:
		w.SetStorm(true)
		w.SetThundering(true)
	case weather.CategoryLightRain, weather.CategoryModerateRain,
		weather.CategoryHeavyRain, weather.CategorySnowOrHail:
		w.SetStorm(true)
		w.SetThundering(false)
	default:
		w.SetStorm(false)
		w.SetThundering(false)
	}
}
