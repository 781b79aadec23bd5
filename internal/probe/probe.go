// Package probe checks which AR SDK features can be loaded on this machine.
package probe

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/nvar/internal/detector"
	"github.com/ayusman/nvar/internal/nvar"
)

// Stages at which a feature check can stop.
const (
	StageCreate    = "create"
	StageConfigure = "configure"
	StageLoad      = "load"
	StageReady     = "ready"
)

// FeatureStatus is the outcome of checking one feature.
type FeatureStatus struct {
	Feature   nvar.Feature `json:"feature"`
	Available bool         `json:"available"`
	Stage     string       `json:"stage"`
	Result    nvar.Result  `json:"result"`
	Error     string       `json:"error,omitempty"`
}

// Report is the outcome of one probe run.
type Report struct {
	ID          string          `json:"id"`
	Version     string          `json:"version"`
	LibraryPath string          `json:"library_path"`
	ModelDir    string          `json:"model_dir"`
	Features    []FeatureStatus `json:"features"`
	StartedAt   time.Time       `json:"started_at"`
	Duration    time.Duration   `json:"duration"`
}

// Available returns the number of features that loaded.
func (r *Report) Available() int {
	n := 0
	for _, f := range r.Features {
		if f.Available {
			n++
		}
	}
	return n
}

// Prober runs feature checks against a library.
type Prober struct {
	lib      *nvar.Library
	cfg      detector.Config
	features []nvar.Feature
}

// New creates a Prober that checks every known feature.
func New(lib *nvar.Library, cfg detector.Config) *Prober {
	return &Prober{lib: lib, cfg: cfg, features: nvar.Features()}
}

// WithFeatures limits the probe to the given features.
func (p *Prober) WithFeatures(features ...nvar.Feature) *Prober {
	p.features = features
	return p
}

// Run loads each feature, binds its outputs and releases it again.
// If ctx is cancelled the remaining features are skipped and ctx.Err is
// returned together with the partial report.
func (p *Prober) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	rep := &Report{
		ID:          uuid.New().String(),
		LibraryPath: p.lib.LibraryPath(),
		ModelDir:    p.cfg.ModelDir,
		StartedAt:   start.UTC(),
	}
	if rep.ModelDir == "" {
		rep.ModelDir = p.lib.ModelPath()
	}
	if v, r := p.lib.Version(); r.OK() {
		rep.Version = v.String()
	}

	for _, f := range p.features {
		if err := ctx.Err(); err != nil {
			rep.Duration = time.Since(start)
			return rep, err
		}
		rep.Features = append(rep.Features, p.check(f))
	}

	rep.Duration = time.Since(start)
	log.Printf("Probe %s: %d/%d features available", rep.ID, rep.Available(), len(rep.Features))
	return rep, nil
}

func (p *Prober) check(f nvar.Feature) FeatureStatus {
	st := FeatureStatus{Feature: f, Stage: StageReady, Result: nvar.Success}

	d, err := detector.New(p.lib, f, p.cfg)
	if err != nil {
		st.Stage = stageOf(err)
		st.Error = err.Error()
		if r, ok := nvar.ResultOf(err); ok {
			st.Result = r
		}
		return st
	}

	if err := d.Close(); err != nil {
		log.Printf("Probe %s: destroy failed: %v", f, err)
	}
	st.Available = true
	return st
}

// stageOf maps the failing entry point to a probe stage.
func stageOf(err error) string {
	var ce *nvar.CallError
	if !errors.As(err, &ce) {
		return StageCreate
	}
	switch ce.Func {
	case "NvAR_Create":
		return StageCreate
	case "NvAR_Load":
		return StageLoad
	default:
		return StageConfigure
	}
}
