package detector

import (
	"unsafe"

	"github.com/ayusman/nvar/internal/nvar"
)

// DefaultKeyPoints is used when the SDK does not report NumKeyPoints.
const DefaultKeyPoints = 34

// BodyPoseDetector runs BodyPoseEstimation.
type BodyPoseDetector struct {
	*runner
	points   []nvar.Point
	points3D []nvar.Vec3[float32]
	angles   []nvar.Quaternion
	conf     []float32
}

// NewBodyPoseDetector creates a body pose estimator.
func NewBodyPoseDetector(lib *nvar.Library, cfg Config) (*BodyPoseDetector, error) {
	r, err := openRunner(lib, nvar.FeatureBodyPoseEstimation, cfg)
	if err != nil {
		return nil, err
	}

	n := r.outputCount(nvar.ConfigNumKeyPoints, DefaultKeyPoints)
	d := &BodyPoseDetector{
		runner:   r,
		points:   make([]nvar.Point, n),
		points3D: make([]nvar.Vec3[float32], n),
		angles:   make([]nvar.Quaternion, n),
		conf:     make([]float32, n),
	}

	if err := d.bind(cfg); err != nil {
		r.Close()
		return nil, err
	}
	return d, nil
}

func (d *BodyPoseDetector) bind(cfg Config) error {
	fh := d.fh
	if err := fh.SetObject(nvar.OutputKeyPoints, unsafe.Pointer(&d.points[0]), uint32(unsafe.Sizeof(d.points[0]))); err != nil {
		return err
	}
	if err := fh.SetObject(nvar.OutputKeyPoints3D, unsafe.Pointer(&d.points3D[0]), uint32(unsafe.Sizeof(d.points3D[0]))); err != nil {
		return err
	}
	if err := fh.SetObject(nvar.OutputJointAngles, unsafe.Pointer(&d.angles[0]), uint32(unsafe.Sizeof(d.angles[0]))); err != nil {
		return err
	}
	if err := fh.SetF32Array(nvar.OutputKeyPointsConfidence, d.conf); err != nil {
		return err
	}
	return d.bindBoxes(cfg.MaxBoxes)
}

// Detect runs pose estimation.
func (d *BodyPoseDetector) Detect(img Image) (*Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.run(img); err != nil {
		return nil, err
	}

	return &Result{
		Feature:            nvar.FeatureBodyPoseEstimation,
		Boxes:              d.collectBoxes(),
		KeyPoints:          append([]nvar.Point(nil), d.points...),
		KeyPoints3D:        append([]nvar.Vec3[float32](nil), d.points3D...),
		JointAngles:        append([]nvar.Quaternion(nil), d.angles...),
		KeyPointConfidence: append([]float32(nil), d.conf...),
	}, nil
}
