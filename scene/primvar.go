package scene

// Well known primvar names.
const (
	PrimvarPoints         = "points"
	PrimvarNormals        = "normals"
	PrimvarWidths         = "widths"
	PrimvarDisplayColor   = "displayColor"
	PrimvarDisplayOpacity = "displayOpacity"
	PrimvarST             = "st"

	PrimvarInstanceTranslations = "instanceTranslations"
	PrimvarInstanceRotations    = "instanceRotations"
	PrimvarInstanceScales       = "instanceScales"
	PrimvarInstanceTransforms   = "instanceTransforms"
)

// Primvar roles.
const (
	RoleNone              = ""
	RolePoint             = "point"
	RoleNormal            = "normal"
	RoleColor             = "color"
	RoleTextureCoordinate = "textureCoordinate"
)

// Interpolation describes how a primvar value maps onto a prim.
type Interpolation int

const (
	InterpolationConstant Interpolation = iota
	InterpolationUniform
	InterpolationVarying
	InterpolationVertex
	InterpolationFaceVarying
	InterpolationInstance

	// The number of interpolation classes.
	InterpolationCount
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationConstant:
		return "constant"
	case InterpolationUniform:
		return "uniform"
	case InterpolationVarying:
		return "varying"
	case InterpolationVertex:
		return "vertex"
	case InterpolationFaceVarying:
		return "faceVarying"
	case InterpolationInstance:
		return "instance"
	}
	return "invalid"
}

// Parse an interpolation name. Unknown names map to vertex interpolation.
func ParseInterpolation(name string) Interpolation {
	for i := InterpolationConstant; i < InterpolationCount; i++ {
		if i.String() == name {
			return i
		}
	}
	return InterpolationVertex
}

// Describes a primvar authored on a prim.
type PrimvarDescriptor struct {
	Name          string
	Interpolation Interpolation
	Role          string
}
