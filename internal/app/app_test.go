package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ayusman/nvar/internal/detector"
	"github.com/ayusman/nvar/internal/nvar"
	"github.com/ayusman/nvar/internal/nvar/nvartest"
	"github.com/ayusman/nvar/internal/probe"
	"github.com/ayusman/nvar/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func loaderFor(sdk *nvartest.SDK) func() (*nvar.Library, error) {
	lib := sdk.Library()
	return func() (*nvar.Library, error) { return lib, nil }
}

func TestNew_Defaults(t *testing.T) {
	a := New(Config{})
	if a.config.Interval != DefaultInterval {
		t.Errorf("Interval = %s, want %s", a.config.Interval, DefaultInterval)
	}
	if a.config.Library == nil {
		t.Error("expected default library loader")
	}
	if a.Running() {
		t.Error("new app should not be running")
	}
}

func TestApp_ProbeOnce(t *testing.T) {
	s := newTestStore(t)

	var notified []*probe.Report
	a := New(Config{
		Store:    s,
		Library:  loaderFor(nvartest.New()),
		Detector: detector.DefaultConfig(),
		Notify:   func(rep *probe.Report) { notified = append(notified, rep) },
	})

	rep, err := a.ProbeOnce(context.Background())
	if err != nil {
		t.Fatalf("ProbeOnce() error = %v", err)
	}

	if a.Last() != rep {
		t.Error("Last() should return the new report")
	}
	if len(notified) != 1 || notified[0] != rep {
		t.Errorf("expected one notification, got %d", len(notified))
	}
	if _, err := s.Probes().GetByID(rep.ID); err != nil {
		t.Errorf("report not stored: %v", err)
	}
}

func TestApp_ProbeOnce_Unavailable(t *testing.T) {
	a := New(Config{Library: func() (*nvar.Library, error) {
		return nil, nvar.ErrUnavailable
	}})

	if _, err := a.ProbeOnce(context.Background()); !errors.Is(err, nvar.ErrUnavailable) {
		t.Errorf("ProbeOnce() error = %v, want ErrUnavailable", err)
	}
	if a.Last() != nil {
		t.Error("Last() should be nil after a failed probe")
	}
}

func TestApp_StartStop(t *testing.T) {
	s := newTestStore(t)

	var mu sync.Mutex
	count := 0
	a := New(Config{
		Store:    s,
		Library:  loaderFor(nvartest.New()),
		Interval: 20 * time.Millisecond,
		Notify: func(*probe.Report) {
			mu.Lock()
			count++
			mu.Unlock()
		},
	})

	a.Start()
	a.Start() // second start is a no-op
	if !a.Running() {
		t.Fatal("expected app to be running")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := count
		mu.Unlock()
		if n >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected at least 2 probes, got %d", n)
		}
		time.Sleep(5 * time.Millisecond)
	}

	a.Stop()
	a.Stop() // second stop is a no-op
	if a.Running() {
		t.Error("expected app to be stopped")
	}

	reports, err := s.Probes().List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(reports) < 2 {
		t.Errorf("expected at least 2 stored reports, got %d", len(reports))
	}
}

func TestApp_LoopEndsWhenUnavailable(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	a := New(Config{
		Interval: time.Millisecond,
		Library: func() (*nvar.Library, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			return nil, nvar.ErrUnavailable
		},
	})

	a.Start()
	deadline := time.Now().Add(2 * time.Second)
	for a.Running() {
		if time.Now().After(deadline) {
			t.Fatal("Running() should turn false once the loop gives up")
		}
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	a.Stop()

	mu.Lock()
	if calls != 1 {
		t.Errorf("expected a single load attempt, got %d", calls)
	}
	mu.Unlock()

	// A loop that gave up can be started again.
	a.Start()
	defer a.Stop()
	deadline = time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := calls
		mu.Unlock()
		if n == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("restart did not probe again, calls = %d", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
