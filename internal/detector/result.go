package detector

import "github.com/ayusman/nvar/internal/nvar"

// Box is a detected bounding box with its confidence.
type Box struct {
	Rect       nvar.Rect `json:"rect"`
	Confidence float32   `json:"confidence"`
}

// Mesh is a copy of the reconstructed face mesh.
type Mesh struct {
	Vertices  []nvar.Vec3[float32] `json:"vertices"`
	Triangles []nvar.Vec3[uint16]  `json:"triangles"`
}

// Result holds the outputs of one Detect call. Only the fields produced by
// the feature are set. Slices are copies and stay valid after the next call.
type Result struct {
	Feature nvar.Feature `json:"feature"`
	Boxes   []Box        `json:"boxes,omitempty"`

	Landmarks          []nvar.Point     `json:"landmarks,omitempty"`
	LandmarkConfidence []float32        `json:"landmark_confidence,omitempty"`
	Pose               *nvar.Quaternion `json:"pose,omitempty"`

	KeyPoints          []nvar.Point         `json:"keypoints,omitempty"`
	KeyPoints3D        []nvar.Vec3[float32] `json:"keypoints_3d,omitempty"`
	JointAngles        []nvar.Quaternion    `json:"joint_angles,omitempty"`
	KeyPointConfidence []float32            `json:"keypoint_confidence,omitempty"`

	Mesh      *Mesh                 `json:"mesh,omitempty"`
	Rendering *nvar.RenderingParams `json:"rendering,omitempty"`
}
