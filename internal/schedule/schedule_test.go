package schedule

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
)

type fakeResetter struct {
	calls atomic.Int32
	err   error
}

func (f *fakeResetter) ResetDemo(context.Context) error {
	f.calls.Add(1)
	return f.err
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestDemoResetRuns(t *testing.T) {
	s, err := New(quietLogger())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	store := &fakeResetter{}

	if _, err := s.add(gocron.DurationJob(20*time.Millisecond), store); err != nil {
		t.Fatalf("add: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for store.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("demo reset never ran")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestDemoResetFailureIsLogged(t *testing.T) {
	s, err := New(quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	store := &fakeResetter{err: errors.New("slot offline")}
	s.resetDemo(store)
	if store.calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", store.calls.Load())
	}
}

func TestAddDemoResetRejectsBadSpec(t *testing.T) {
	s, err := New(quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Shutdown()

	if _, err := s.AddDemoReset("every tuesday", &fakeResetter{}); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
	if _, err := s.AddDemoReset("0 3 * * *", &fakeResetter{}); err != nil {
		t.Fatalf("valid spec: %v", err)
	}
}
