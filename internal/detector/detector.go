// Package detector runs AR SDK features and collects their outputs into Go values.
package detector

import (
	"fmt"
	"unsafe"

	"github.com/ayusman/nvar/internal/nvar"
)

// Image is an SDK image descriptor prepared by the caller, typically an
// NvCVImage filled by the CV companion library.
type Image struct {
	Data   unsafe.Pointer
	Size   uint32
	Width  uint32
	Height uint32
}

// Detector defines the interface for AR feature runners.
type Detector interface {
	// Detect runs the feature on img and returns its outputs.
	Detect(img Image) (*Result, error)

	// Close releases the feature handle.
	Close() error
}

// Config holds options shared by all detectors.
type Config struct {
	// ModelDir is the model directory. Empty uses the library's model path.
	ModelDir string

	// Temporal enables frame-to-frame smoothing in the SDK.
	Temporal bool

	// MaxBoxes is the bounding box capacity (default: 8).
	MaxBoxes uint8

	// CUDAStream is passed to the SDK when non-zero.
	CUDAStream nvar.Stream
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Temporal: true,
		MaxBoxes: 8,
	}
}

// New builds the detector for feature f.
func New(lib *nvar.Library, f nvar.Feature, cfg Config) (Detector, error) {
	var (
		d   Detector
		err error
	)
	switch f {
	case nvar.FeatureFaceBoxDetection, nvar.FeatureFaceDetection, nvar.FeatureBodyDetection:
		d, err = wrap(newBoxDetector(lib, f, cfg))
	case nvar.FeatureLandmarkDetection:
		d, err = wrap(NewLandmarkDetector(lib, cfg))
	case nvar.FeatureBodyPoseEstimation:
		d, err = wrap(NewBodyPoseDetector(lib, cfg))
	case nvar.FeatureFaceReconstruction:
		d, err = wrap(NewFaceReconstructor(lib, cfg))
	default:
		err = fmt.Errorf("unknown feature %q", f)
	}
	return d, err
}

// wrap keeps a typed nil out of the Detector interface.
func wrap[D Detector](d D, err error) (Detector, error) {
	if err != nil {
		return nil, err
	}
	return d, nil
}
