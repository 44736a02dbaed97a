package scene

import (
	"fmt"
	"sort"
	"sync"

	"github.com/j-cube/hdospray/types"
)

// Prim types understood by the stage.
const (
	PrimBasisCurves = "basisCurves"
	PrimMaterial    = "material"
	PrimInstancer   = "instancer"
)

// A primvar authored on a stage prim.
type Primvar struct {
	PrimvarDescriptor
	Value interface{}
}

// A prim stored in a Stage.
type Prim struct {
	Type string

	Topology    CurveTopology
	Transform   types.Mat4
	Visible     bool
	MaterialID  Path
	InstancerID Path
	Primvars    []Primvar

	// Material prims only.
	Network MaterialNetworkMap

	// Instancer prims only; instance indices per prototype.
	InstanceIndices map[Path][]int
}

// Stage is an in-memory Delegate that also tracks the dirty state of its
// prims. It is safe for concurrent use.
type Stage struct {
	mu    sync.RWMutex
	prims map[Path]*Prim
	dirty map[Path]DirtyBits
}

// Create an empty stage.
func NewStage() *Stage {
	return &Stage{
		prims: make(map[Path]*Prim),
		dirty: make(map[Path]DirtyBits),
	}
}

// Add a prim to the stage and mark it fully dirty.
func (s *Stage) AddPrim(id Path, prim *Prim) error {
	if id.IsEmpty() {
		return fmt.Errorf("scene: empty prim path")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.prims[id]; exists {
		return fmt.Errorf("scene: prim %q already added", id)
	}
	s.prims[id] = prim

	switch prim.Type {
	case PrimMaterial:
		s.dirty[id] = AllMaterialDirty
	default:
		s.dirty[id] = AllSceneDirtyBits | InitRepr
	}
	return nil
}

// Remove a prim from the stage.
func (s *Stage) RemovePrim(id Path) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.prims, id)
	delete(s.dirty, id)
}

// Lookup a prim.
func (s *Stage) Prim(id Path) (*Prim, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prim, ok := s.prims[id]
	return prim, ok
}

// Get the paths of all prims of a given type in lexical order.
func (s *Stage) PrimPaths(primType string) []Path {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Path, 0)
	for id, prim := range s.prims {
		if prim.Type == primType {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Set (or add) a primvar and mark it dirty.
func (s *Stage) SetPrimvar(id Path, pv Primvar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prim, ok := s.prims[id]
	if !ok {
		return fmt.Errorf("scene: unknown prim %q", id)
	}

	replaced := false
	for index := range prim.Primvars {
		if prim.Primvars[index].Name == pv.Name {
			prim.Primvars[index] = pv
			replaced = true
			break
		}
	}
	if !replaced {
		prim.Primvars = append(prim.Primvars, pv)
	}

	switch pv.Name {
	case PrimvarPoints:
		s.dirty[id] |= DirtyPoints
	case PrimvarNormals:
		s.dirty[id] |= DirtyNormals
	case PrimvarWidths:
		s.dirty[id] |= DirtyWidths
	default:
		s.dirty[id] |= DirtyPrimvar
	}
	if prim.Type == PrimInstancer {
		s.markInstancerDirty(id)
	}
	return nil
}

// Update the transform of a prim.
func (s *Stage) SetTransform(id Path, xfm types.Mat4) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prim, ok := s.prims[id]
	if !ok {
		return fmt.Errorf("scene: unknown prim %q", id)
	}
	prim.Transform = xfm
	s.dirty[id] |= DirtyTransform
	if prim.Type == PrimInstancer {
		s.markInstancerDirty(id)
	}
	return nil
}

// Update the topology of a curves prim.
func (s *Stage) SetTopology(id Path, topology CurveTopology) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prim, ok := s.prims[id]
	if !ok {
		return fmt.Errorf("scene: unknown prim %q", id)
	}
	prim.Topology = topology
	s.dirty[id] |= DirtyTopology
	return nil
}

// Replace the network of a material prim.
func (s *Stage) SetMaterialResource(id Path, network MaterialNetworkMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prim, ok := s.prims[id]
	if !ok || prim.Type != PrimMaterial {
		return fmt.Errorf("scene: unknown material %q", id)
	}
	prim.Network = network
	s.dirty[id] |= DirtyResource
	return nil
}

// Mark prims that use instancerID as instancer-dirty. Must be called while
// holding the write lock.
func (s *Stage) markInstancerDirty(instancerID Path) {
	for id, prim := range s.prims {
		if prim.InstancerID == instancerID {
			s.dirty[id] |= DirtyInstancer
		}
	}
}

// Set additional dirty bits on a prim.
func (s *Stage) MarkDirty(id Path, bits DirtyBits) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prims[id]; ok {
		s.dirty[id] |= bits
	}
}

// Get the current dirty bits of a prim.
func (s *Stage) DirtyBits(id Path) DirtyBits {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty[id]
}

// Store the dirty bits left over by a sync.
func (s *Stage) SetDirtyBits(id Path, bits DirtyBits) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prims[id]; ok {
		s.dirty[id] = bits
	}
}

func (s *Stage) GetBasisCurvesTopology(id Path) CurveTopology {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if prim, ok := s.prims[id]; ok {
		return prim.Topology
	}
	return CurveTopology{}
}

func (s *Stage) GetTransform(id Path) types.Mat4 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if prim, ok := s.prims[id]; ok {
		return prim.Transform
	}
	return types.Ident4()
}

func (s *Stage) GetVisible(id Path) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if prim, ok := s.prims[id]; ok {
		return prim.Visible
	}
	return false
}

func (s *Stage) GetPrimvarDescriptors(id Path, interpolation Interpolation) []PrimvarDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]PrimvarDescriptor, 0)
	prim, ok := s.prims[id]
	if !ok {
		return out
	}
	for _, pv := range prim.Primvars {
		if pv.Interpolation == interpolation {
			out = append(out, pv.PrimvarDescriptor)
		}
	}
	return out
}

func (s *Stage) Get(id Path, name string) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prim, ok := s.prims[id]
	if !ok {
		return nil
	}
	for _, pv := range prim.Primvars {
		if pv.Name == name {
			return pv.Value
		}
	}
	return nil
}

func (s *Stage) GetMaterialID(id Path) Path {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if prim, ok := s.prims[id]; ok {
		return prim.MaterialID
	}
	return ""
}

func (s *Stage) GetMaterialResource(id Path) (MaterialNetworkMap, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prim, ok := s.prims[id]
	if !ok || prim.Type != PrimMaterial {
		return MaterialNetworkMap{}, false
	}
	return prim.Network, true
}

func (s *Stage) GetInstanceIndices(instancerID, prototypeID Path) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prim, ok := s.prims[instancerID]
	if !ok {
		return nil
	}
	return prim.InstanceIndices[prototypeID]
}

func (s *Stage) GetInstancerID(id Path) Path {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if prim, ok := s.prims[id]; ok {
		return prim.InstancerID
	}
	return ""
}
