package detector

import (
	"unsafe"

	"github.com/ayusman/nvar/internal/nvar"
)

// Mesh sizes used when the SDK does not report them.
const (
	DefaultVertices  = 6495
	DefaultTriangles = 12735
)

// FaceReconstructor runs Face3DReconstruction.
type FaceReconstructor struct {
	*runner
	vertices  []nvar.Vec3[float32]
	triangles []nvar.Vec3[uint16]
	mesh      nvar.FaceMesh
	rendering nvar.RenderingParams
}

// NewFaceReconstructor creates a 3D face reconstructor.
func NewFaceReconstructor(lib *nvar.Library, cfg Config) (*FaceReconstructor, error) {
	r, err := openRunner(lib, nvar.FeatureFaceReconstruction, cfg)
	if err != nil {
		return nil, err
	}

	nv := r.outputCount(nvar.ConfigVertexCount, DefaultVertices)
	nt := r.outputCount(nvar.ConfigTriangleCount, DefaultTriangles)
	d := &FaceReconstructor{
		runner:    r,
		vertices:  make([]nvar.Vec3[float32], nv),
		triangles: make([]nvar.Vec3[uint16], nt),
	}
	d.mesh = nvar.FaceMesh{
		Vertices:    &d.vertices[0],
		NumVertices: uintptr(nv),
		Indices:     &d.triangles[0],
		NumIndices:  uintptr(nt),
	}

	if err := d.bind(cfg); err != nil {
		r.Close()
		return nil, err
	}
	return d, nil
}

func (d *FaceReconstructor) bind(cfg Config) error {
	fh := d.fh
	if err := fh.Pin(&d.vertices[0]); err != nil {
		return err
	}
	if err := fh.Pin(&d.triangles[0]); err != nil {
		return err
	}
	if err := fh.SetObject(nvar.OutputFaceMesh, unsafe.Pointer(&d.mesh), uint32(unsafe.Sizeof(d.mesh))); err != nil {
		return err
	}
	if err := fh.SetObject(nvar.OutputRenderingParams, unsafe.Pointer(&d.rendering), uint32(unsafe.Sizeof(d.rendering))); err != nil {
		return err
	}
	return d.bindBoxes(cfg.MaxBoxes)
}

// Detect runs reconstruction and copies the mesh.
func (d *FaceReconstructor) Detect(img Image) (*Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.run(img); err != nil {
		return nil, err
	}

	rendering := d.rendering
	return &Result{
		Feature: nvar.FeatureFaceReconstruction,
		Boxes:   d.collectBoxes(),
		Mesh: &Mesh{
			Vertices:  append([]nvar.Vec3[float32](nil), d.mesh.VertexSlice()...),
			Triangles: append([]nvar.Vec3[uint16](nil), d.mesh.IndexSlice()...),
		},
		Rendering: &rendering,
	}, nil
}
