package delegate

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/j-cube/hdospray/asset/texture"
	"github.com/j-cube/hdospray/backend"
	"github.com/j-cube/hdospray/curves"
	"github.com/j-cube/hdospray/instancer"
	"github.com/j-cube/hdospray/log"
	"github.com/j-cube/hdospray/material"
	"github.com/j-cube/hdospray/renderer"
	"github.com/j-cube/hdospray/scene"
)

// The repr used when syncing curves prims.
const ReprHull = "hull"

// Delegate owns the prims created for a stage and drives their sync. Sync and
// the prim lifecycle methods must not be called concurrently.
type Delegate struct {
	logger log.Logger
	param  *renderer.Param
	loader texture.Loader
	pool   worker.DynamicWorkerPool

	curves     map[scene.Path]*curves.BasisCurves
	materials  map[scene.Path]*material.Material
	instancers map[scene.Path]*instancer.Instancer
}

// Create a render delegate for a device. If loader is nil, textures are
// decoded with texture.FileLoader.
func New(dev backend.Device, opts renderer.Options, loader texture.Loader) (*Delegate, error) {
	param, err := renderer.NewParam(dev, opts)
	if err != nil {
		return nil, err
	}
	if loader == nil {
		loader = texture.FileLoader{}
	}

	return &Delegate{
		logger:     log.New("render delegate"),
		param:      param,
		loader:     loader,
		pool:       worker.NewDynamicWorkerPool(max(opts.Workers, 1), 256, 1*time.Second),
		curves:     make(map[scene.Path]*curves.BasisCurves),
		materials:  make(map[scene.Path]*material.Material),
		instancers: make(map[scene.Path]*instancer.Instancer),
	}, nil
}

// The render state shared by all prims.
func (d *Delegate) Param() *renderer.Param {
	return d.param
}

// Lookup a curves prim.
func (d *Delegate) Curves(id scene.Path) *curves.BasisCurves {
	return d.curves[id]
}

// Lookup a material prim.
func (d *Delegate) Material(id scene.Path) *material.Material {
	return d.materials[id]
}

// Create prims for every prim in the stage that does not have one yet.
func (d *Delegate) Populate(st *scene.Stage) {
	for _, id := range st.PrimPaths(scene.PrimMaterial) {
		if d.materials[id] == nil {
			d.CreateMaterial(st, id)
		}
	}
	for _, id := range st.PrimPaths(scene.PrimInstancer) {
		if d.instancers[id] == nil {
			d.CreateInstancer(st, id)
		}
	}
	for _, id := range st.PrimPaths(scene.PrimBasisCurves) {
		if d.curves[id] == nil {
			d.CreateCurves(st, id)
		}
	}
}

// Create a curves prim and mark its initial dirty bits.
func (d *Delegate) CreateCurves(st *scene.Stage, id scene.Path) *curves.BasisCurves {
	c := curves.New(id, st.GetInstancerID(id))
	d.curves[id] = c
	st.MarkDirty(id, c.InitialDirtyBits())
	d.logger.Debugf("created curves prim %q", id)
	return c
}

// Create a material prim and index it by path.
func (d *Delegate) CreateMaterial(st *scene.Stage, id scene.Path) *material.Material {
	m := material.New(id, d.loader)
	d.materials[id] = m
	d.param.SetMaterial(id, m)
	st.MarkDirty(id, scene.AllMaterialDirty)
	d.logger.Debugf("created material prim %q", id)
	return m
}

// Create an instancer prim and index it by path.
func (d *Delegate) CreateInstancer(st *scene.Stage, id scene.Path) *instancer.Instancer {
	in := instancer.New(id, st)
	d.instancers[id] = in
	d.param.SetInstancer(id, in)
	st.MarkDirty(id, scene.DirtyTransform|scene.DirtyPrimvar)
	d.logger.Debugf("created instancer prim %q", id)
	return in
}

// Destroy the prim at id releasing all its renderer objects. Curves bound to
// a destroyed material or instancer are marked dirty so they rebind.
func (d *Delegate) Destroy(st *scene.Stage, id scene.Path) error {
	if c, ok := d.curves[id]; ok {
		c.Finalize(d.param)
		delete(d.curves, id)
		return nil
	}
	if m, ok := d.materials[id]; ok {
		d.param.RemoveMaterial(id)
		d.markBoundCurves(st, id, scene.DirtyMaterialID)
		m.Finalize()
		delete(d.materials, id)
		return nil
	}
	if _, ok := d.instancers[id]; ok {
		d.param.RemoveInstancer(id)
		delete(d.instancers, id)
		for cid, c := range d.curves {
			if c.InstancerID() == id {
				st.MarkDirty(cid, scene.DirtyInstancer)
			}
		}
		return nil
	}
	return fmt.Errorf("delegate: unknown prim %q", id)
}

// Destroy every prim.
func (d *Delegate) Finalize(st *scene.Stage) {
	for id := range d.curves {
		d.Destroy(st, id)
	}
	for id := range d.materials {
		d.Destroy(st, id)
	}
	for id := range d.instancers {
		d.Destroy(st, id)
	}
}

// Sync all dirty prims: materials first, then instancers and finally curves.
// Curves are synced in parallel; each prim owns disjoint state and the shared
// render param is safe for concurrent use.
func (d *Delegate) Sync(st *scene.Stage) {
	start := time.Now()

	for _, id := range sortedPaths(d.materials) {
		bits := st.DirtyBits(id)
		if bits&scene.AllMaterialDirty == 0 {
			continue
		}
		d.materials[id].Sync(st, d.param, &bits)
		st.SetDirtyBits(id, bits)

		// Geometric models referencing the previous material must be rebuilt
		d.markBoundCurves(st, id, scene.DirtyMaterialID)
	}

	for _, id := range sortedPaths(d.instancers) {
		bits := st.DirtyBits(id)
		if bits == scene.Clean {
			continue
		}
		d.instancers[id].Sync(st, &bits)
		st.SetDirtyBits(id, bits)
	}

	var wg sync.WaitGroup
	taskID := 0
	for _, id := range sortedPaths(d.curves) {
		bits := st.DirtyBits(id)
		if bits == scene.Clean {
			continue
		}

		wg.Add(1)
		c := d.curves[id]
		d.pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				c.Sync(st, d.param, &bits, ReprHull)
				st.SetDirtyBits(c.ID(), bits)
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()

	d.logger.Infof("synced %d curves prims in %d ms", taskID, time.Since(start).Nanoseconds()/1000000)
}

func (d *Delegate) markBoundCurves(st *scene.Stage, materialID scene.Path, bits scene.DirtyBits) {
	for id := range d.curves {
		if st.GetMaterialID(id) == materialID {
			st.MarkDirty(id, bits)
		}
	}
}

func sortedPaths[V any](m map[scene.Path]V) []scene.Path {
	out := make([]scene.Path, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
