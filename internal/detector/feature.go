package detector

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ayusman/nvar/internal/nvar"
)

// runner owns a loaded feature handle and feeds it images.
type runner struct {
	mu      sync.Mutex
	fh      *nvar.FeatureHandle
	lastImg unsafe.Pointer
	boxes   []nvar.Rect
	conf    []float32
	bounds  nvar.Bounds
}

// openRunner creates, configures and loads feature f.
func openRunner(lib *nvar.Library, f nvar.Feature, cfg Config) (*runner, error) {
	fh, err := lib.NewFeature(f)
	if err != nil {
		return nil, err
	}

	modelDir := cfg.ModelDir
	if modelDir == "" {
		modelDir = lib.ModelPath()
	}

	err = configure(fh, modelDir, cfg)
	if err == nil {
		err = fh.Load()
	}
	if err != nil {
		fh.Destroy()
		return nil, fmt.Errorf("load %s: %w", f, err)
	}

	return &runner{fh: fh}, nil
}

func configure(fh *nvar.FeatureHandle, modelDir string, cfg Config) error {
	if err := fh.SetString(nvar.ConfigModelDir, modelDir); err != nil {
		return err
	}
	if cfg.CUDAStream != 0 {
		if err := fh.SetCudaStream(nvar.ConfigCUDAStream, cfg.CUDAStream); err != nil {
			return err
		}
	}
	return fh.SetBool(nvar.ConfigTemporal, cfg.Temporal)
}

// bindBoxes attaches a bounding box buffer of capacity n and its confidence array.
func (r *runner) bindBoxes(n uint8) error {
	if n == 0 {
		n = DefaultConfig().MaxBoxes
	}
	r.boxes = make([]nvar.Rect, n)
	r.conf = make([]float32, n)
	r.bounds = nvar.Bounds{Rects: &r.boxes[0], Maximum: n}
	if err := r.fh.Pin(&r.boxes[0]); err != nil {
		return err
	}

	if err := r.fh.SetObject(nvar.OutputBoundingBoxes, unsafe.Pointer(&r.bounds), uint32(unsafe.Sizeof(r.bounds))); err != nil {
		return err
	}
	return r.fh.SetF32Array(nvar.OutputBoundingBoxesConfidence, r.conf)
}

// outputCount reads a size query such as Landmarks_Size, falling back to def
// when the SDK does not report it.
func (r *runner) outputCount(p nvar.Parameter, def uint32) uint32 {
	n, err := r.fh.GetU32(p)
	if err != nil || n == 0 {
		return def
	}
	return n
}

// run sets the image inputs and executes the feature. Callers hold r.mu.
func (r *runner) run(img Image) error {
	if img.Data == nil {
		return fmt.Errorf("%s: no input image", r.fh.Feature())
	}
	if img.Data != r.lastImg {
		if err := r.fh.SetObject(nvar.InputImage, img.Data, img.Size); err != nil {
			return err
		}
		r.lastImg = img.Data
	}
	if img.Width > 0 && img.Height > 0 {
		if err := r.fh.SetU32(nvar.InputWidth, img.Width); err != nil {
			return err
		}
		if err := r.fh.SetU32(nvar.InputHeight, img.Height); err != nil {
			return err
		}
	}

	r.bounds.Current = 0
	return r.fh.Run()
}

// collectBoxes copies the boxes the SDK reported.
func (r *runner) collectBoxes() []Box {
	rects := r.bounds.Slice()
	if len(rects) > len(r.boxes) {
		rects = rects[:len(r.boxes)]
	}
	if len(rects) == 0 {
		return nil
	}
	out := make([]Box, len(rects))
	for i, rect := range rects {
		out[i] = Box{Rect: rect, Confidence: r.conf[i]}
	}
	return out
}

func (r *runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fh.Destroy()
}
