package instancer

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/j-cube/hdospray/log"
	"github.com/j-cube/hdospray/scene"
	"github.com/j-cube/hdospray/types"
)

// Instancer computes per-instance transforms for the prototypes bound to an
// instancer prim. Transforms are composed as
// instanceTransform * scale * rotate * translate * instancerTransform using
// the row-vector convention of types.Mat4.
//
// Rotations are quaternions stored as (i, j, k, real).
type Instancer struct {
	id       scene.Path
	delegate scene.Delegate
	logger   log.Logger

	mu           sync.RWMutex
	xfm          types.Mat4
	translations []types.Vec3
	rotations    []types.Vec4
	scales       []types.Vec3
	transforms   []types.Mat4
}

// Create an instancer prim that queries instance indices through d.
func New(id scene.Path, d scene.Delegate) *Instancer {
	return &Instancer{
		id:       id,
		delegate: d,
		logger:   log.New("instancer"),
		xfm:      types.Ident4(),
	}
}

// The path of this instancer prim.
func (in *Instancer) ID() scene.Path {
	return in.id
}

// Pull the instancer transform and instance primvars if dirty. The dirty
// bits are cleared on return.
func (in *Instancer) Sync(d scene.Delegate, dirty *scene.DirtyBits) {
	defer func() { *dirty = scene.Clean }()

	in.mu.Lock()
	defer in.mu.Unlock()

	if dirty.Has(scene.DirtyTransform) {
		in.xfm = d.GetTransform(in.id)
	}
	if !dirty.Has(scene.DirtyPrimvar) {
		return
	}

	for interp := scene.Interpolation(0); interp < scene.InterpolationCount; interp++ {
		for _, pv := range d.GetPrimvarDescriptors(in.id, interp) {
			value := d.Get(in.id, pv.Name)
			ok := true
			switch pv.Name {
			case scene.PrimvarInstanceTranslations:
				in.translations, ok = value.([]types.Vec3)
			case scene.PrimvarInstanceRotations:
				in.rotations, ok = value.([]types.Vec4)
			case scene.PrimvarInstanceScales:
				in.scales, ok = value.([]types.Vec3)
			case scene.PrimvarInstanceTransforms:
				in.transforms, ok = value.([]types.Mat4)
			}
			if !ok {
				in.logger.Warningf("%s: ignoring primvar %q with unexpected type %T", in.id, pv.Name, value)
			}
		}
	}
}

// The number of instances described by the instance primvars.
func (in *Instancer) NumInstances() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.numInstances()
}

func (in *Instancer) numInstances() int {
	return max(len(in.translations), len(in.rotations), len(in.scales), len(in.transforms))
}

// Compute the transforms of the instances of a prototype. When no instance
// indices are authored for the prototype every instance is used.
func (in *Instancer) ComputeInstanceTransforms(prototypeID scene.Path) []types.Mat4 {
	in.mu.RLock()
	defer in.mu.RUnlock()

	indices := in.delegate.GetInstanceIndices(in.id, prototypeID)
	if indices == nil {
		indices = make([]int, in.numInstances())
		for i := range indices {
			indices[i] = i
		}
	}

	instancerXfm := mgl32.Mat4(in.xfm)
	out := make([]types.Mat4, 0, len(indices))
	for _, index := range indices {
		if index < 0 || index >= in.numInstances() {
			in.logger.Warningf("%s: instance index %d out of range for %q", in.id, index, prototypeID)
			continue
		}
		m := instancerXfm.Mul4(in.instanceMatrix(index))
		out = append(out, types.Mat4(m))
	}
	return out
}

// Build the column-vector matrix translate * rotate * scale * transform for
// a single instance. Missing primvar entries leave their factor at identity.
func (in *Instancer) instanceMatrix(index int) mgl32.Mat4 {
	m := mgl32.Ident4()
	if index < len(in.translations) {
		t := in.translations[index]
		m = m.Mul4(mgl32.Translate3D(t[0], t[1], t[2]))
	}
	if index < len(in.rotations) {
		r := in.rotations[index]
		q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
		m = m.Mul4(q.Normalize().Mat4())
	}
	if index < len(in.scales) {
		s := in.scales[index]
		m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	if index < len(in.transforms) {
		m = m.Mul4(mgl32.Mat4(in.transforms[index]))
	}
	return m
}
