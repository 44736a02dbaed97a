package scene

// DirtyBits track which attributes of a prim changed since its last sync.
type DirtyBits uint32

const (
	Clean DirtyBits = 0

	InitRepr DirtyBits = 1 << iota
	Varying
	DirtyPrimID
	DirtyExtent
	DirtyDisplayStyle
	DirtyPoints
	DirtyPrimvar
	DirtyMaterialID
	DirtyTopology
	DirtyTransform
	DirtyVisibility
	DirtyNormals
	DirtyDoubleSided
	DirtyCullStyle
	DirtyWidths
	DirtyInstancer
	DirtyInstanceIndex
	DirtyRepr
	DirtyRenderTag
	DirtyComputationPrimvarDesc
	DirtyCategories
)

// All bits describing scene data changes. Sync clears these once it has
// consumed them.
const AllSceneDirtyBits = DirtyPrimID | DirtyExtent | DirtyDisplayStyle |
	DirtyPoints | DirtyPrimvar | DirtyMaterialID | DirtyTopology |
	DirtyTransform | DirtyVisibility | DirtyNormals | DirtyDoubleSided |
	DirtyCullStyle | DirtyWidths | DirtyInstancer | DirtyInstanceIndex |
	DirtyRenderTag | DirtyComputationPrimvarDesc | DirtyCategories

// Dirty bits used by material prims. The whole network is re-read whenever
// any of them is set.
const (
	DirtyMaterialParams DirtyBits = 1 << 2
	DirtyResource       DirtyBits = 1 << 3
	AllMaterialDirty              = DirtyMaterialParams | DirtyResource
)

// Check whether any of the given bits is set.
func (b DirtyBits) Has(bits DirtyBits) bool {
	return b&bits != 0
}

// Check whether the primvar with the given name is dirty. Points, normals
// and widths have dedicated bits; all other primvars share DirtyPrimvar.
func (b DirtyBits) IsPrimvarDirty(name string) bool {
	switch name {
	case PrimvarPoints:
		return b.Has(DirtyPoints)
	case PrimvarNormals:
		return b.Has(DirtyNormals)
	case PrimvarWidths:
		return b.Has(DirtyWidths)
	}
	return b.Has(DirtyPrimvar)
}

// Check whether the instancer bound to a prim changed.
func (b DirtyBits) IsInstancerDirty() bool {
	return b.Has(DirtyInstancer | DirtyInstanceIndex)
}
