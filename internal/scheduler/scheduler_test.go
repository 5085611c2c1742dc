package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"
)

type countingRunner struct {
	mu       sync.Mutex
	triggers map[string]int
}

func (r *countingRunner) Run(ctx context.Context, trigger string) {
	if _, ok := ctx.Deadline(); !ok {
		panic("run without deadline")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.triggers == nil {
		r.triggers = make(map[string]int)
	}
	r.triggers[trigger]++
}

func (r *countingRunner) count(trigger string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.triggers[trigger]
}

func TestSchedulerRunsImmediatelyAndOnTrigger(t *testing.T) {
	r := &countingRunner{}
	s := New(time.Hour, r, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Trigger("setidr")
	s.Trigger("setidr")

	deadline := time.Now().Add(2 * time.Second)
	for r.count("schedule") == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	s.Stop()

	if got := r.count("schedule"); got != 1 {
		t.Fatalf("expected one scheduled run, got %d", got)
	}
	if got := r.count("setidr"); got != 2 {
		t.Fatalf("expected two manual runs, got %d", got)
	}
}
