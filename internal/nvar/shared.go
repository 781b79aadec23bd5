package nvar

import (
	"fmt"
	"log"
	"sync"
)

var shared = newShared(func() (*Library, error) {
	return Open(DefaultConfig())
})

// Shared returns the process-wide Library, loading it on first use with
// DefaultConfig. Concurrent first callers share a single load. A failed load
// is permanent for the process and reported as ErrUnavailable.
func Shared() (*Library, error) {
	return shared()
}

// Lazy returns a loader with the same once-only semantics as Shared for a
// custom Config.
func Lazy(cfg Config) func() (*Library, error) {
	return newShared(func() (*Library, error) {
		return Open(cfg)
	})
}

func newShared(open func() (*Library, error)) func() (*Library, error) {
	return sync.OnceValues(func() (*Library, error) {
		lib, err := open()
		if err != nil {
			log.Printf("AR SDK not available: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		if v, r := lib.Version(); r.OK() {
			log.Printf("Loaded AR SDK %s from %s", v, lib.LibraryPath())
		} else {
			log.Printf("Loaded AR SDK from %s (version query returned %s)", lib.LibraryPath(), r)
		}

		return lib, nil
	})
}
