package app

import (
	"context"
	"log"
	"time"
)

// run probes immediately and then on every tick until stopCh is closed.
// When the loop ends on its own the App is marked stopped, so Running
// reports false and Start may be called again.
func (a *App) run(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer func() {
		a.mu.Lock()
		if a.stopCh == stopCh {
			a.stopCh, a.done = nil, nil
		}
		a.mu.Unlock()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(a.config.Interval)
	defer ticker.Stop()

	for {
		if _, err := a.ProbeOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Probe failed: %v", err)
			if isUnavailable(err) {
				return
			}
		}

		select {
		case <-stopCh:
			return
		case <-ticker.C:
		}
	}
}
