package renderer

import (
	"sync"
	"sync/atomic"

	"github.com/j-cube/hdospray/backend"
	"github.com/j-cube/hdospray/scene"
	"github.com/j-cube/hdospray/types"
)

// InstanceSource is implemented by prims that contribute renderer instances
// to the world.
type InstanceSource interface {
	AddInstances(list []backend.Object) []backend.Object
}

// MaterialSource is implemented by material prims.
type MaterialSource interface {
	// The committed renderer material or nil if none was built.
	Object() backend.Object
}

// InstancerSource computes instance transforms for a prototype prim.
type InstancerSource interface {
	ComputeInstanceTransforms(prototypeID scene.Path) []types.Mat4
}

// Param is the render state shared by all prims. Prims may sync
// concurrently so every method is safe for concurrent use.
type Param struct {
	device backend.Device
	opts   Options

	modelVersion atomic.Uint64

	mu         sync.RWMutex
	curves     []InstanceSource
	materials  map[scene.Path]MaterialSource
	instancers map[scene.Path]InstancerSource
}

// Create the shared render state.
func NewParam(dev backend.Device, opts Options) (*Param, error) {
	if dev == nil {
		return nil, ErrNoDevice
	}
	return &Param{
		device:     dev,
		opts:       opts,
		materials:  make(map[scene.Path]MaterialSource),
		instancers: make(map[scene.Path]InstancerSource),
	}, nil
}

// The device used to create renderer objects.
func (p *Param) Device() backend.Device {
	return p.device
}

// The process-wide options.
func (p *Param) Options() Options {
	return p.opts
}

// Get the current model version.
func (p *Param) ModelVersion() uint64 {
	return p.modelVersion.Load()
}

// Bump the model version so that the render pass rebuilds its world and
// resets accumulation.
func (p *Param) UpdateModelVersion() uint64 {
	return p.modelVersion.Add(1)
}

// Register a curves prim with the render pass. Registering the same prim
// twice is a no-op.
func (p *Param) AddCurves(src InstanceSource) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, existing := range p.curves {
		if existing == src {
			return
		}
	}
	p.curves = append(p.curves, src)
}

// Unregister a curves prim.
func (p *Param) RemoveCurves(src InstanceSource) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for index, existing := range p.curves {
		if existing == src {
			p.curves = append(p.curves[:index], p.curves[index+1:]...)
			return
		}
	}
}

// Get a snapshot of the registered curves prims.
func (p *Param) Curves() []InstanceSource {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return append([]InstanceSource(nil), p.curves...)
}

// Index a material prim by path.
func (p *Param) SetMaterial(id scene.Path, src MaterialSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.materials[id] = src
}

// Remove a material prim from the index.
func (p *Param) RemoveMaterial(id scene.Path) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.materials, id)
}

// Resolve a bound material path to its committed renderer material. Returns
// nil if the path is empty, unknown or the material has no renderer object.
func (p *Param) Material(id scene.Path) backend.Object {
	if id.IsEmpty() {
		return nil
	}

	p.mu.RLock()
	src, ok := p.materials[id]
	p.mu.RUnlock()

	if !ok || src == nil {
		return nil
	}
	return src.Object()
}

// Index an instancer prim by path.
func (p *Param) SetInstancer(id scene.Path, src InstancerSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.instancers[id] = src
}

// Remove an instancer prim from the index.
func (p *Param) RemoveInstancer(id scene.Path) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.instancers, id)
}

// Lookup an instancer prim.
func (p *Param) Instancer(id scene.Path) InstancerSource {
	if id.IsEmpty() {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.instancers[id]
}
