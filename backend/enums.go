package backend

// The element type of a data buffer.
type DataType int

const (
	DataUnknown DataType = iota
	DataFloat
	DataVec2f
	DataVec3f
	DataVec4f
	DataUChar
	DataVec2UC
	DataVec3UC
	DataVec4UC
	DataUInt
	DataObject
)

// Number of scalar components per element.
func (t DataType) Components() int {
	switch t {
	case DataFloat, DataUChar, DataUInt, DataObject:
		return 1
	case DataVec2f, DataVec2UC:
		return 2
	case DataVec3f, DataVec3UC:
		return 3
	case DataVec4f, DataVec4UC:
		return 4
	}
	return 0
}

func (t DataType) String() string {
	switch t {
	case DataFloat:
		return "float"
	case DataVec2f:
		return "vec2f"
	case DataVec3f:
		return "vec3f"
	case DataVec4f:
		return "vec4f"
	case DataUChar:
		return "uchar"
	case DataVec2UC:
		return "vec2uc"
	case DataVec3UC:
		return "vec3uc"
	case DataVec4UC:
		return "vec4uc"
	case DataUInt:
		return "uint"
	case DataObject:
		return "object"
	}
	return "unknown"
}

// The cross-section shape of a curve geometry.
type CurveType int

const (
	CurveRound CurveType = iota
	CurveFlat
	CurveRibbon
)

func (t CurveType) String() string {
	switch t {
	case CurveRound:
		return "round"
	case CurveFlat:
		return "flat"
	case CurveRibbon:
		return "ribbon"
	}
	return "invalid"
}

// The basis used by the renderer to evaluate a curve from its control points.
type CurveBasis int

const (
	BasisLinear CurveBasis = iota
	BasisBezier
	BasisBSpline
	BasisHermite
	BasisCatmullRom
)

func (b CurveBasis) String() string {
	switch b {
	case BasisLinear:
		return "linear"
	case BasisBezier:
		return "bezier"
	case BasisBSpline:
		return "bspline"
	case BasisHermite:
		return "hermite"
	case BasisCatmullRom:
		return "catmullRom"
	}
	return "invalid"
}

// Pixel formats accepted by 2D textures.
type TextureFormat int

const (
	TextureFormatInvalid TextureFormat = iota
	TextureRGBA8
	TextureSRGBA
	TextureRGBA32F
	TextureRGB8
	TextureSRGB
	TextureRGB32F
	TextureR8
	TextureR32F
	TextureL8
	TextureRA8
	TextureLA8
)

func (f TextureFormat) String() string {
	switch f {
	case TextureRGBA8:
		return "rgba8"
	case TextureSRGBA:
		return "srgba"
	case TextureRGBA32F:
		return "rgba32f"
	case TextureRGB8:
		return "rgb8"
	case TextureSRGB:
		return "srgb"
	case TextureRGB32F:
		return "rgb32f"
	case TextureR8:
		return "r8"
	case TextureR32F:
		return "r32f"
	case TextureL8:
		return "l8"
	case TextureRA8:
		return "ra8"
	case TextureLA8:
		return "la8"
	}
	return "invalid"
}

// Texture sampling filter.
type TextureFilter int

const (
	FilterBilinear TextureFilter = iota
	FilterNearest
)
