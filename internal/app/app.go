// Package app runs the AR SDK probe on a schedule and records the results.
package app

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ayusman/nvar/internal/detector"
	"github.com/ayusman/nvar/internal/nvar"
	"github.com/ayusman/nvar/internal/probe"
	"github.com/ayusman/nvar/internal/store"
)

// DefaultInterval is the time between scheduled probes.
const DefaultInterval = 10 * time.Minute

// Config holds configuration options for the application.
type Config struct {
	Store    *store.Store
	Library  func() (*nvar.Library, error)
	Detector detector.Config

	// Interval between probes. Zero uses DefaultInterval.
	Interval time.Duration

	// Notify, if set, receives every stored report.
	Notify func(*probe.Report)
}

// App probes the SDK periodically and stores each report.
type App struct {
	config Config
	mu     sync.RWMutex
	last   *probe.Report
	stopCh chan struct{}
	done   chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.Library == nil {
		config.Library = nvar.Shared
	}
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	return &App{config: config}
}

// ProbeOnce runs a probe, stores it and notifies listeners.
func (a *App) ProbeOnce(ctx context.Context) (*probe.Report, error) {
	lib, err := a.config.Library()
	if err != nil {
		return nil, err
	}

	rep, err := probe.New(lib, a.config.Detector).Run(ctx)
	if err != nil {
		return nil, err
	}

	if a.config.Store != nil {
		if err := a.config.Store.Probes().Create(rep); err != nil {
			return nil, err
		}
	}

	a.mu.Lock()
	a.last = rep
	a.mu.Unlock()

	if a.config.Notify != nil {
		a.config.Notify(rep)
	}
	return rep, nil
}

// Last returns the most recent report of this App, or nil.
func (a *App) Last() *probe.Report {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// Start begins the probe loop. An unavailable SDK stops the loop after
// the first attempt since the load failure is permanent.
func (a *App) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return
	}

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.run(a.stopCh, a.done)

	log.Printf("Probe loop started (every %s)", a.config.Interval)
}

// Stop halts the probe loop and waits for it to exit.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, done := a.stopCh, a.done
	a.stopCh, a.done = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done

	log.Println("Probe loop stopped")
}

// Running reports whether the probe loop is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

func isUnavailable(err error) bool {
	return errors.Is(err, nvar.ErrUnavailable) || errors.Is(err, nvar.ErrSDKNotFound)
}
