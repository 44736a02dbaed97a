package delegate

import (
	"github.com/j-cube/hdospray/backend"
	"github.com/j-cube/hdospray/log"
	"github.com/j-cube/hdospray/renderer"
)

// RenderPass assembles the renderer world from the instances of all
// registered curves prims. The world is only rebuilt when the model version
// changes; a rebuild resets sample accumulation.
type RenderPass struct {
	logger log.Logger
	param  *renderer.Param

	world        backend.Handle
	instanceData backend.Handle
	numInstances int

	built        bool
	modelVersion uint64
	samples      uint32
}

// Create a render pass for the prims registered with param.
func NewRenderPass(param *renderer.Param) *RenderPass {
	return &RenderPass{
		logger: log.New("render pass"),
		param:  param,
	}
}

// Prepare the world for the next frame and account for its samples. Returns
// true if the world was rebuilt.
func (rp *RenderPass) Execute() (bool, error) {
	rebuilt := false
	if version := rp.param.ModelVersion(); !rp.built || version != rp.modelVersion {
		if err := rp.rebuildWorld(); err != nil {
			return false, err
		}
		rp.built = true
		rp.modelVersion = version
		rp.samples = 0
		rebuilt = true
	}

	rp.samples += rp.param.Options().SamplesPerFrame
	return rebuilt, nil
}

func (rp *RenderPass) rebuildWorld() error {
	dev := rp.param.Device()

	var instances []backend.Object
	for _, src := range rp.param.Curves() {
		instances = src.AddInstances(instances)
	}

	b := backend.Build(dev.NewWorld())
	var data backend.Object
	if len(instances) != 0 {
		var err error
		if data, err = dev.NewCopiedData(instances, backend.DataObject, len(instances)); err != nil {
			return err
		}
		b.Set("instance", data)
	}

	world, err := b.Commit()
	if err != nil {
		if data != nil {
			data.Release()
		}
		return err
	}

	rp.world.Set(world)
	rp.instanceData.Set(data)
	rp.numInstances = len(instances)
	rp.logger.Debugf("rebuilt world with %d instances (model version %d)", len(instances), rp.param.ModelVersion())
	return nil
}

// The committed world or nil if Execute was never called.
func (rp *RenderPass) World() backend.Object {
	return rp.world.Get()
}

// The number of instances in the current world.
func (rp *RenderPass) NumInstances() int {
	return rp.numInstances
}

// The number of samples accumulated since the last world rebuild.
func (rp *RenderPass) AccumulatedSamples() uint32 {
	return rp.samples
}

// Release the world.
func (rp *RenderPass) Finalize() {
	rp.world.Release()
	rp.instanceData.Release()
	rp.built = false
}
