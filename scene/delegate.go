package scene

import "github.com/j-cube/hdospray/types"

// Path identifies a prim.
type Path string

// Returns true for the empty path.
func (p Path) IsEmpty() bool {
	return p == ""
}

func (p Path) String() string {
	return string(p)
}

// Delegate answers queries about scene prims. Sync engines pull only the
// attributes whose dirty bits are set.
//
// Get returns primvar and attribute values as plain Go values:
// []types.Vec3, []types.Vec2, []types.Vec4, []float32, []types.Mat4,
// types.Vec3, float32 and so on. A nil value means the attribute is not
// authored.
type Delegate interface {
	GetBasisCurvesTopology(id Path) CurveTopology
	GetTransform(id Path) types.Mat4
	GetVisible(id Path) bool
	GetPrimvarDescriptors(id Path, interpolation Interpolation) []PrimvarDescriptor
	Get(id Path, name string) interface{}
	GetMaterialID(id Path) Path
	GetMaterialResource(id Path) (MaterialNetworkMap, bool)
	GetInstanceIndices(instancerID, prototypeID Path) []int
	GetInstancerID(id Path) Path
}
