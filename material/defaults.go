package material

import "github.com/j-cube/hdospray/types"

// Parameter defaults used when the network provides no value.
var (
	DefaultDiffuseColor         = types.Vec3{1, 1, 1}
	DefaultMetallic     float32 = 0.0
	DefaultRoughness    float32 = 0.0
	DefaultIOR          float32 = 1.0
	DefaultOpacity      float32 = 1.0
	DefaultNormal       float32 = 1.0
)

// Fixed specular response of the obj material family.
var (
	ObjSpecularColor            = types.Vec3{0.2, 0.2, 0.2}
	ObjSpecularExponent float32 = 10.0
)

// Scalars of textured channels are replaced by these values.
var (
	neutralMultiplier float32 = 1.0
	neutralColor              = types.Vec3{1, 1, 1}
)

// Scalar and vector parameters extracted from a preview surface node.
type Parameters struct {
	DiffuseColor types.Vec3
	Metallic     float32
	Roughness    float32
	IOR          float32
	Opacity      float32
	Normal       float32
}

// Get the default parameters.
func DefaultParameters() Parameters {
	return Parameters{
		DiffuseColor: DefaultDiffuseColor,
		Metallic:     DefaultMetallic,
		Roughness:    DefaultRoughness,
		IOR:          DefaultIOR,
		Opacity:      DefaultOpacity,
		Normal:       DefaultNormal,
	}
}
