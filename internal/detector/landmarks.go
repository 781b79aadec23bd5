package detector

import (
	"unsafe"

	"github.com/ayusman/nvar/internal/nvar"
)

// DefaultLandmarks is used when the SDK does not report Landmarks_Size.
const DefaultLandmarks = 126

// LandmarkDetector runs LandMarkDetection: facial landmarks, their
// confidence, head pose and face boxes.
type LandmarkDetector struct {
	*runner
	points []nvar.Point
	conf   []float32
	pose   nvar.Quaternion
}

// NewLandmarkDetector creates a facial landmark detector.
func NewLandmarkDetector(lib *nvar.Library, cfg Config) (*LandmarkDetector, error) {
	r, err := openRunner(lib, nvar.FeatureLandmarkDetection, cfg)
	if err != nil {
		return nil, err
	}

	n := r.outputCount(nvar.ConfigLandmarksSize, DefaultLandmarks)
	d := &LandmarkDetector{
		runner: r,
		points: make([]nvar.Point, n),
		conf:   make([]float32, n),
	}

	if err := d.bind(cfg); err != nil {
		r.Close()
		return nil, err
	}
	return d, nil
}

func (d *LandmarkDetector) bind(cfg Config) error {
	fh := d.fh
	if err := fh.SetObject(nvar.OutputLandmarks, unsafe.Pointer(&d.points[0]), uint32(unsafe.Sizeof(d.points[0]))); err != nil {
		return err
	}
	if err := fh.SetF32Array(nvar.OutputLandmarksConfidence, d.conf); err != nil {
		return err
	}
	if err := fh.SetObject(nvar.OutputPose, unsafe.Pointer(&d.pose), uint32(unsafe.Sizeof(d.pose))); err != nil {
		return err
	}
	return d.bindBoxes(cfg.MaxBoxes)
}

// Detect runs landmark detection.
func (d *LandmarkDetector) Detect(img Image) (*Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.run(img); err != nil {
		return nil, err
	}

	pose := d.pose
	return &Result{
		Feature:            nvar.FeatureLandmarkDetection,
		Boxes:              d.collectBoxes(),
		Landmarks:          append([]nvar.Point(nil), d.points...),
		LandmarkConfidence: append([]float32(nil), d.conf...),
		Pose:               &pose,
	}, nil
}
