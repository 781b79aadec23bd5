package detector

import (
	"sync"

	"github.com/ayusman/nvar/internal/nvar"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu     sync.Mutex
	result *Result
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetResult sets the result that will be returned by Detect.
func (m *MockDetector) SetResult(r *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = r
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the number of Detect calls.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Detect returns the pre-configured result or error.
func (m *MockDetector) Detect(img Image) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.closed {
		return nil, nvar.ErrDestroyed
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &Result{}, nil
	}
	return m.result, nil
}

// Close marks the mock closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SingleFace returns a preset Result with one face box and a neutral pose.
func SingleFace() *Result {
	pose := nvar.Quaternion{W: 1}
	return &Result{
		Feature: nvar.FeatureLandmarkDetection,
		Boxes:   []Box{{Rect: nvar.NewRect(120, 80, 200, 240), Confidence: 0.97}},
		Pose:    &pose,
	}
}
