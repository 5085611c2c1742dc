package host

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/bom-weather-sync/internal/weather"
)

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []string
}

func (b *recordingBroadcaster) Broadcast(msg string) {
	b.mu.Lock()
	b.messages = append(b.messages, msg)
	b.mu.Unlock()
}

func (b *recordingBroadcaster) snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.messages...)
}

func f64(v float64) *float64 { return &v }

func runForeground(t *testing.T, events ...weather.ChangeEvent) (*Environment, *recordingBroadcaster) {
	t.Helper()
	env := NewEnvironment()
	b := &recordingBroadcaster{}
	fg := NewForeground(env, b, nil)

	for _, ev := range events {
		fg.Notify(ev)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		fg.Run(ctx)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("foreground did not stop")
	}
	return env, b
}

func TestForegroundAppliesCategory(t *testing.T) {
	tests := []struct {
		cat  weather.Category
		want EnvironmentState
	}{
		{weather.CategoryThunderstorm, EnvironmentState{Storm: true, Thundering: true}},
		{weather.CategoryHeavyRain, EnvironmentState{Storm: true}},
		{weather.CategoryModerateRain, EnvironmentState{Storm: true}},
		{weather.CategoryLightRain, EnvironmentState{Storm: true}},
		{weather.CategorySnowOrHail, EnvironmentState{Storm: true}},
		{weather.CategoryFoggyClear, EnvironmentState{}},
		{weather.CategoryClear, EnvironmentState{}},
	}
	for _, tt := range tests {
		env, b := runForeground(t, weather.ChangeEvent{Seq: 1, Category: tt.cat, DisplayName: "Brisbane"})
		if got := env.Snapshot(); got != tt.want {
			t.Fatalf("%s: expected %+v, got %+v", tt.cat, tt.want, got)
		}
		if len(b.snapshot()) != 1 {
			t.Fatalf("%s: expected one broadcast", tt.cat)
		}
	}
}

func TestForegroundDropsStaleEvents(t *testing.T) {
	env, b := runForeground(t,
		weather.ChangeEvent{Seq: 2, Category: weather.CategoryThunderstorm, DisplayName: "Brisbane"},
		weather.ChangeEvent{Seq: 1, Category: weather.CategoryClear, DisplayName: "Brisbane"},
	)

	if got := env.Snapshot(); !got.Thundering {
		t.Fatalf("expected stale clear event to be ignored, got %+v", got)
	}
	msgs := b.snapshot()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "Thunderstorm") {
		t.Fatalf("unexpected broadcasts %v", msgs)
	}
}

func TestFormatAnnouncement(t *testing.T) {
	ev := weather.ChangeEvent{
		Category:     weather.CategoryHeavyRain,
		DisplayName:  "Brisbane - Capital City Observations",
		AirTempC:     f64(21.5),
		WindSpeedKmh: f64(44),
	}
	want := "[BOM - Brisbane - Capital City Observations] Weather: Heavy Rain | Temp: 21.5°C | Wind: 44 km/h ⚠ Strong Winds!"
	if got := FormatAnnouncement(ev); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	ev.WindSpeedKmh = f64(40)
	if strings.Contains(FormatAnnouncement(ev), "Strong Winds") {
		t.Fatalf("40 km/h should not be flagged as strong")
	}

	ev.AirTempC, ev.WindSpeedKmh = nil, nil
	if got := FormatAnnouncement(ev); got != "[BOM - Brisbane - Capital City Observations] Weather: Heavy Rain" {
		t.Fatalf("unexpected message without optional fields: %q", got)
	}
}
