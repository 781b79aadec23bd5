package nvar

import "strings"

// Feature names a capability created through NvAR_Create.
type Feature string

// Features exported by the SDK.
const (
	FeatureBodyDetection      Feature = "BodyDetection"
	FeatureBodyPoseEstimation Feature = "BodyPoseEstimation"
	FeatureFaceDetection      Feature = "FaceDetection"
	FeatureFaceBoxDetection   Feature = "FaceBoxDetection"
	FeatureFaceReconstruction Feature = "Face3DReconstruction"
	FeatureLandmarkDetection  Feature = "LandMarkDetection"
)

// Features returns every known feature in a fixed order.
func Features() []Feature {
	return []Feature{
		FeatureBodyDetection,
		FeatureBodyPoseEstimation,
		FeatureFaceDetection,
		FeatureFaceBoxDetection,
		FeatureFaceReconstruction,
		FeatureLandmarkDetection,
	}
}

// Parameter is a key string understood by the SDK's get/set entry points.
// Which keys a feature accepts is decided by the SDK at call time.
type Parameter string

// Key family prefixes.
const (
	PrefixConfig = "NvAR_Parameter_Config_"
	PrefixInput  = "NvAR_Parameter_Input_"
	PrefixOutput = "NvAR_Parameter_Output_"
)

// ConfigKey returns the configuration key with the given name.
func ConfigKey(name string) Parameter { return Parameter(PrefixConfig + name) }

// InputKey returns the input key with the given name.
func InputKey(name string) Parameter { return Parameter(PrefixInput + name) }

// OutputKey returns the output key with the given name.
func OutputKey(name string) Parameter { return Parameter(PrefixOutput + name) }

// Family returns the key prefix of p, or "" for keys outside the three families.
func (p Parameter) Family() string {
	for _, prefix := range []string{PrefixConfig, PrefixInput, PrefixOutput} {
		if strings.HasPrefix(string(p), prefix) {
			return prefix
		}
	}
	return ""
}

// Name returns p without its family prefix.
func (p Parameter) Name() string {
	return strings.TrimPrefix(string(p), p.Family())
}

// Configuration keys.
const (
	ConfigBatchSize               = Parameter(PrefixConfig + "BatchSize")
	ConfigUseCudaGraph            = Parameter(PrefixConfig + "UseCudaGraph")
	ConfigCUDAStream              = Parameter(PrefixConfig + "CUDAStream")
	ConfigExpressionCount         = Parameter(PrefixConfig + "ExpressionCount")
	ConfigFeatureDescription      = Parameter(PrefixConfig + "FeatureDescription")
	ConfigFocalLength             = Parameter(PrefixConfig + "FocalLength")
	ConfigGPU                     = Parameter(PrefixConfig + "GPU")
	ConfigLandmarksSize           = Parameter(PrefixConfig + "Landmarks_Size")
	ConfigLandmarksConfidenceSize = Parameter(PrefixConfig + "LandmarksConfidence_Size")
	ConfigMode                    = Parameter(PrefixConfig + "Mode")
	ConfigTRTModelDir             = Parameter(PrefixConfig + "TRTModelDir")
	ConfigModelDir                = Parameter(PrefixConfig + "ModelDir")
	ConfigModelName               = Parameter(PrefixConfig + "ModelName")
	ConfigNumKeyPoints            = Parameter(PrefixConfig + "NumKeyPoints")
	ConfigReferencePose           = Parameter(PrefixConfig + "ReferencePose")
	ConfigShapeEigenValueCount    = Parameter(PrefixConfig + "ShapeEigenValueCount")
	ConfigTemporal                = Parameter(PrefixConfig + "Temporal")
	ConfigTriangleCount           = Parameter(PrefixConfig + "TriangleCount")
	ConfigVertexCount             = Parameter(PrefixConfig + "VertexCount")
)

// Input keys.
const (
	InputImage                   = Parameter(PrefixInput + "Image")
	InputWidth                   = Parameter(PrefixInput + "Width")
	InputHeight                  = Parameter(PrefixInput + "Height")
	InputBoundingBoxes           = Parameter(PrefixInput + "BoundingBoxes")
	InputBoundingBoxesConfidence = Parameter(PrefixInput + "BoundingBoxesConfidence")
	InputLandmarks               = Parameter(PrefixInput + "Landmarks")
)

// Output keys.
const (
	OutputBoundingBoxes           = Parameter(PrefixOutput + "BoundingBoxes")
	OutputBoundingBoxesConfidence = Parameter(PrefixOutput + "BoundingBoxesConfidence")
	OutputExpressionCoefficients  = Parameter(PrefixOutput + "ExpressionCoefficients")
	OutputFaceMesh                = Parameter(PrefixOutput + "FaceMesh")
	OutputJointAngles             = Parameter(PrefixOutput + "JointAngles")
	OutputKeyPoints               = Parameter(PrefixOutput + "KeyPoints")
	OutputKeyPoints3D             = Parameter(PrefixOutput + "KeyPoints3D")
	OutputKeyPointsConfidence     = Parameter(PrefixOutput + "KeyPointsConfidence")
	OutputLandmarks               = Parameter(PrefixOutput + "Landmarks")
	OutputLandmarksConfidence     = Parameter(PrefixOutput + "LandmarksConfidence")
	OutputPose                    = Parameter(PrefixOutput + "Pose")
	OutputRenderingParams         = Parameter(PrefixOutput + "RenderingParams")
	OutputShapeEigenValues        = Parameter(PrefixOutput + "ShapeEigenValues")
)

// ConfigKeys returns the documented configuration keys.
func ConfigKeys() []Parameter {
	return []Parameter{
		ConfigBatchSize, ConfigUseCudaGraph, ConfigCUDAStream, ConfigExpressionCount,
		ConfigFeatureDescription, ConfigFocalLength, ConfigGPU, ConfigLandmarksSize,
		ConfigLandmarksConfidenceSize, ConfigMode, ConfigTRTModelDir, ConfigModelDir,
		ConfigModelName, ConfigNumKeyPoints, ConfigReferencePose, ConfigShapeEigenValueCount,
		ConfigTemporal, ConfigTriangleCount, ConfigVertexCount,
	}
}

// InputKeys returns the documented input keys.
func InputKeys() []Parameter {
	return []Parameter{
		InputImage, InputWidth, InputHeight,
		InputBoundingBoxes, InputBoundingBoxesConfidence, InputLandmarks,
	}
}

// OutputKeys returns the documented output keys.
func OutputKeys() []Parameter {
	return []Parameter{
		OutputBoundingBoxes, OutputBoundingBoxesConfidence, OutputExpressionCoefficients,
		OutputFaceMesh, OutputJointAngles, OutputKeyPoints, OutputKeyPoints3D,
		OutputKeyPointsConfidence, OutputLandmarks, OutputLandmarksConfidence,
		OutputPose, OutputRenderingParams, OutputShapeEigenValues,
	}
}
