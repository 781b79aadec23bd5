package detector

import "github.com/ayusman/nvar/internal/nvar"

// BoxDetector runs one of the bounding box features: FaceBoxDetection,
// FaceDetection or BodyDetection.
type BoxDetector struct {
	*runner
	feature nvar.Feature
}

// NewFaceBoxDetector creates a face bounding box detector.
func NewFaceBoxDetector(lib *nvar.Library, cfg Config) (*BoxDetector, error) {
	return newBoxDetector(lib, nvar.FeatureFaceBoxDetection, cfg)
}

// NewFaceDetector creates a face detector.
func NewFaceDetector(lib *nvar.Library, cfg Config) (*BoxDetector, error) {
	return newBoxDetector(lib, nvar.FeatureFaceDetection, cfg)
}

// NewBodyDetector creates a body bounding box detector.
func NewBodyDetector(lib *nvar.Library, cfg Config) (*BoxDetector, error) {
	return newBoxDetector(lib, nvar.FeatureBodyDetection, cfg)
}

func newBoxDetector(lib *nvar.Library, f nvar.Feature, cfg Config) (*BoxDetector, error) {
	r, err := openRunner(lib, f, cfg)
	if err != nil {
		return nil, err
	}
	if err := r.bindBoxes(cfg.MaxBoxes); err != nil {
		r.Close()
		return nil, err
	}
	return &BoxDetector{runner: r, feature: f}, nil
}

// Detect runs the feature and returns the detected boxes.
func (d *BoxDetector) Detect(img Image) (*Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.run(img); err != nil {
		return nil, err
	}
	return &Result{Feature: d.feature, Boxes: d.collectBoxes()}, nil
}
