package nvar

import (
	"fmt"
	"unsafe"
)

// Handle is an opaque reference to SDK-managed feature state.
type Handle uintptr

// Object is a pointer handed to NvAR_SetObject / NvAR_GetObject. It may
// refer to Go memory, so it is kept pointer-typed rather than uintptr.
type Object unsafe.Pointer

// Stream is a CUDA stream handle (cudaStream_t).
type Stream uintptr

// Result is the status code returned by every SDK entry point.
// Values other than Success are defined by the SDK and passed through as-is.
type Result int32

// Success is the only status the binding gives meaning to.
const Success Result = 0

// OK reports whether r is Success.
func (r Result) OK() bool {
	return r == Success
}

func (r Result) String() string {
	return fmt.Sprintf("result(%d)", int32(r))
}

// Version is the packed SDK version reported by NvAR_GetVersion.
type Version uint32

// Major returns the most significant version byte.
func (v Version) Major() uint8 { return uint8(v >> 24) }

// Minor returns the second version byte.
func (v Version) Minor() uint8 { return uint8(v >> 16) }

// Build returns the third version byte.
func (v Version) Build() uint8 { return uint8(v >> 8) }

// Revision returns the least significant version byte.
func (v Version) Revision() uint8 { return uint8(v) }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major(), v.Minor(), v.Build(), v.Revision())
}

// Vec2 mirrors the SDK's two component vector.
type Vec2[T any] struct {
	X T `json:"x"`
	Y T `json:"y"`
}

// Vec3 extends Vec2 by one trailing component, matching the SDK layout.
type Vec3[T any] struct {
	Vec2[T]
	Z T `json:"z"`
}

// Vec4 extends Vec3 by one trailing component, matching the SDK layout.
type Vec4[T any] struct {
	Vec3[T]
	W T `json:"w"`
}

// Geometry aliases used by the SDK parameters.
type (
	Point      = Vec2[float32]
	Frustum    = Vec4[float32]
	Quaternion = Vec4[float32]
	Rect       = Vec4[float32]
)

// NewRect builds a Rect from x, y, width and height.
func NewRect(x, y, w, h float32) Rect {
	return Rect{Vec3: Vec3[float32]{Vec2: Vec2[float32]{X: x, Y: y}, Z: w}, W: h}
}

// Bounds is a view over an array of rectangles.
// Rects is not owned by Go code once handed to the SDK.
type Bounds struct {
	Rects   *Rect
	Current uint8
	Maximum uint8
}

// Slice returns the Current rectangles without copying.
func (b *Bounds) Slice() []Rect {
	if b == nil || b.Rects == nil || b.Current == 0 {
		return nil
	}
	return unsafe.Slice(b.Rects, b.Current)
}

// FaceMesh references vertex and triangle index arrays owned elsewhere.
type FaceMesh struct {
	Vertices    *Vec3[float32]
	NumVertices uintptr
	Indices     *Vec3[uint16]
	NumIndices  uintptr
}

// VertexSlice returns the vertices without copying.
func (m *FaceMesh) VertexSlice() []Vec3[float32] {
	if m == nil || m.Vertices == nil || m.NumVertices == 0 {
		return nil
	}
	return unsafe.Slice(m.Vertices, m.NumVertices)
}

// IndexSlice returns the triangle indices without copying.
func (m *FaceMesh) IndexSlice() []Vec3[uint16] {
	if m == nil || m.Indices == nil || m.NumIndices == 0 {
		return nil
	}
	return unsafe.Slice(m.Indices, m.NumIndices)
}

// RenderingParams is the camera frustum and head pose of a reconstructed face.
type RenderingParams struct {
	Frustum     Frustum       `json:"frustum"`
	Rotation    Quaternion    `json:"rotation"`
	Translation Vec3[float32] `json:"translation"`
}
