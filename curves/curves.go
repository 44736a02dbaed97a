package curves

import (
	"fmt"

	"github.com/j-cube/hdospray/backend"
	"github.com/j-cube/hdospray/log"
	"github.com/j-cube/hdospray/material"
	"github.com/j-cube/hdospray/renderer"
	"github.com/j-cube/hdospray/scene"
	"github.com/j-cube/hdospray/types"
)

// Radius used for every point when widths are absent.
const DefaultRadius float32 = 1.0

// Dirty bits cleared at the end of every sync.
const consumedDirtyBits = scene.AllSceneDirtyBits | scene.InitRepr | scene.DirtyRepr

// Renderer objects built from the cached curve attributes. They are always
// replaced together.
type geometryState struct {
	data       backend.HandleList
	geometries backend.HandleList
	models     backend.HandleList

	// Set when no bound material produced a renderer object.
	defaultMaterial backend.Handle
}

func (s *geometryState) release() {
	s.models.Release()
	s.geometries.Release()
	s.data.Release()
	s.defaultMaterial.Release()
}

// Instances of the geometric models grouped into a single renderer group.
type instanceState struct {
	groupData backend.Handle
	group     backend.Handle
	instances backend.HandleList
}

func (s *instanceState) release() {
	s.instances.Release()
	s.group.Release()
	s.groupData.Release()
}

// BasisCurves translates a basis curves prim into renderer curve geometry.
// Each 4-point control window of a curve becomes its own geometry object.
type BasisCurves struct {
	id          scene.Path
	instancerID scene.Path
	logger      log.Logger

	topology    scene.CurveTopology
	xfm         types.Mat4
	visible     bool
	materialID  scene.Path
	points      []types.Vec3
	normals     []types.Vec3
	widths      []float32
	colors      []types.Vec4
	texcoords   []types.Vec2
	singleColor types.Vec4

	geometry  *geometryState
	instances *instanceState
	populated bool
	lastErr   error
}

// Create a curves prim. instancerID may be empty.
func New(id, instancerID scene.Path) *BasisCurves {
	return &BasisCurves{
		id:          id,
		instancerID: instancerID,
		logger:      log.New("basis curves"),
		xfm:         types.Ident4(),
		visible:     true,
		singleColor: types.XYZW(1, 1, 1, 1),
		geometry:    &geometryState{},
		instances:   &instanceState{},
	}
}

// The path of this curves prim.
func (c *BasisCurves) ID() scene.Path {
	return c.id
}

// The path of the instancer bound to this prim or an empty path.
func (c *BasisCurves) InstancerID() scene.Path {
	return c.instancerID
}

// The dirty bits this prim consumes on its first sync.
func (c *BasisCurves) InitialDirtyBits() scene.DirtyBits {
	mask := scene.InitRepr | scene.DirtyExtent | scene.DirtyNormals |
		scene.DirtyPoints | scene.DirtyPrimID | scene.DirtyPrimvar |
		scene.DirtyDisplayStyle | scene.DirtyRepr | scene.DirtyMaterialID |
		scene.DirtyTopology | scene.DirtyTransform | scene.DirtyVisibility |
		scene.DirtyWidths | scene.DirtyComputationPrimvarDesc
	if !c.instancerID.IsEmpty() {
		mask |= scene.DirtyInstancer
	}
	return mask
}

// The color used by the default material when no material is bound.
func (c *BasisCurves) SingleColor() types.Vec4 {
	return c.singleColor
}

// The geometric models built by the last successful geometry update.
func (c *BasisCurves) Models() []backend.Object {
	return c.geometry.models.Objects()
}

// The committed instances of this prim.
func (c *BasisCurves) Instances() []backend.Object {
	return c.instances.instances.Objects()
}

// The last error encountered while syncing or nil.
func (c *BasisCurves) LastError() error {
	return c.lastErr
}

// Append the instances of this prim to list if it is visible.
func (c *BasisCurves) AddInstances(list []backend.Object) []backend.Object {
	if !c.visible {
		return list
	}
	return append(list, c.instances.instances.Objects()...)
}

// Pull the dirty attributes from the delegate and rebuild the affected
// renderer objects. The consumed dirty bits are cleared on return.
func (c *BasisCurves) Sync(d scene.Delegate, rp *renderer.Param, dirty *scene.DirtyBits, reprToken string) {
	bits := *dirty
	defer func() { *dirty &^= consumedDirtyBits }()

	if bits.Has(scene.InitRepr) {
		c.logger.Debugf("%s: init repr %q", c.id, reprToken)
	}

	c.lastErr = nil
	updateGeometry := false
	xfmDirty := false

	if bits.Has(scene.DirtyTopology) {
		c.topology = d.GetBasisCurvesTopology(c.id)
		if c.topology.Wrap == scene.CurveWrapPeriodic || c.topology.Wrap == scene.CurveWrapPinned {
			c.logger.Warningf("%s: %s curves are built as nonperiodic", c.id, c.topology.Wrap)
		}
		updateGeometry = true
	}
	if bits.Has(scene.DirtyMaterialID) {
		c.materialID = d.GetMaterialID(c.id)
		if c.geometry.models.Len() != 0 {
			updateGeometry = true
		}
	}
	if bits.Has(scene.DirtyTransform) {
		c.xfm = d.GetTransform(c.id)
		xfmDirty = true
	}
	if bits.Has(scene.DirtyVisibility) {
		if visible := d.GetVisible(c.id); visible != c.visible {
			c.visible = visible
			rp.UpdateModelVersion()
		}
	}
	if bits.IsPrimvarDirty(scene.PrimvarPoints) ||
		bits.IsPrimvarDirty(scene.PrimvarNormals) ||
		bits.IsPrimvarDirty(scene.PrimvarWidths) ||
		bits.Has(scene.DirtyPrimvar) {
		c.updatePrimvars(d, bits)
		updateGeometry = true
	}

	rebuilt := false
	if updateGeometry {
		if err := c.updateGeometry(rp); err != nil {
			c.fail(err)
		} else {
			rebuilt = true
		}
	}

	if (bits.IsInstancerDirty() || xfmDirty || rebuilt) && c.geometry.models.Len() != 0 {
		if err := c.updateInstances(rp); err != nil {
			c.fail(err)
		}
	}
}

// Release every renderer object owned by this prim and unregister it from
// the render param.
func (c *BasisCurves) Finalize(rp *renderer.Param) {
	c.instances.release()
	c.geometry.release()
	if c.populated {
		rp.RemoveCurves(c)
		rp.UpdateModelVersion()
		c.populated = false
	}
}

func (c *BasisCurves) fail(err error) {
	c.lastErr = err
	c.logger.Errorf("%s: %v", c.id, err)
}

// Map the topology basis to the renderer basis.
func rendererBasis(basis string) (backend.CurveBasis, error) {
	switch basis {
	case scene.CurveBasisBSpline:
		return backend.BasisBSpline, nil
	case scene.CurveBasisCatmullRom:
		return backend.BasisCatmullRom, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedBasis, basis)
}

// Rebuild the geometry and geometric models from the cached attributes. The
// previous objects are only replaced when the rebuild succeeds.
func (c *BasisCurves) updateGeometry(rp *renderer.Param) error {
	if len(c.points) == 0 {
		return ErrNoPoints
	}
	if c.topology.CurveType != scene.CurveTypeCubic {
		return fmt.Errorf("%w: %q", ErrUnsupportedCurveType, c.topology.CurveType)
	}
	basis, err := rendererBasis(c.topology.Basis)
	if err != nil {
		return err
	}
	numVertices := c.topology.NumVertices()
	if c.topology.HasIndices() && len(c.topology.Indices) < numVertices {
		return fmt.Errorf("%w: %d indices for %d curve vertices", ErrIndexOutOfRange, len(c.topology.Indices), numVertices)
	}
	if !c.topology.HasIndices() && numVertices > len(c.points) {
		return fmt.Errorf("%w: %d curve vertices for %d points", ErrIndexOutOfRange, numVertices, len(c.points))
	}

	state := &geometryState{}
	if err = c.buildGeometry(rp, basis, state); err != nil {
		state.release()
		return err
	}

	c.geometry.release()
	c.geometry = state
	rp.UpdateModelVersion()

	if !c.populated {
		rp.AddCurves(c)
		c.populated = true
	}
	return nil
}

func (c *BasisCurves) buildGeometry(rp *renderer.Param, basis backend.CurveBasis, state *geometryState) error {
	dev := rp.Device()
	numPoints := len(c.points)
	hasWidths := len(c.widths) == numPoints
	hasNormals := len(c.normals) == numPoints

	positionRadius := make([]types.Vec4, numPoints)
	for i, p := range c.points {
		radius := DefaultRadius
		if hasWidths {
			radius = c.widths[i] / 2
		}
		positionRadius[i] = p.Vec4(radius)
	}

	vertices, err := dev.NewSharedData(positionRadius, backend.DataVec4f, numPoints)
	if err != nil {
		return err
	}
	state.data.Append(vertices)

	var normals, colors, texcoords backend.Object
	if hasNormals {
		if normals, err = dev.NewSharedData(c.normals, backend.DataVec3f, numPoints); err != nil {
			return err
		}
		state.data.Append(normals)
	}
	if len(c.colors) > 1 {
		if colors, err = dev.NewSharedData(c.colors, backend.DataVec4f, len(c.colors)); err != nil {
			return err
		}
		state.data.Append(colors)
	}
	if len(c.texcoords) > 1 {
		if texcoords, err = dev.NewSharedData(c.texcoords, backend.DataVec2f, len(c.texcoords)); err != nil {
			return err
		}
		state.data.Append(texcoords)
	}

	mat := rp.Material(c.materialID)
	if mat == nil {
		if mat, err = material.CreateDefaultMaterial(dev, rp.Options(), c.singleColor); err != nil {
			return err
		}
		state.defaultMaterial.Set(mat)
	}

	curveType := backend.CurveRound
	if hasNormals {
		curveType = backend.CurveRibbon
	}

	offset := 0
	for _, vertexCount := range c.topology.VertexCounts {
		for start := offset; start+3 < offset+vertexCount; start++ {
			index, err := c.windowIndices(start, numPoints)
			if err != nil {
				return err
			}
			indexData, err := dev.NewCopiedData(index[:], backend.DataUInt, len(index))
			if err != nil {
				return err
			}
			state.data.Append(indexData)

			b := backend.Build(dev.NewGeometry("curve")).
				Set("vertex.position_radius", vertices).
				Set("index", indexData).
				Set("type", curveType).
				Set("basis", basis)
			if normals != nil {
				b.Set("vertex.normal", normals)
			}
			if colors != nil {
				b.Set("vertex.color", colors)
			}
			if texcoords != nil {
				b.Set("vertex.texcoord", texcoords)
			}
			geom, err := b.Commit()
			if err != nil {
				return err
			}
			state.geometries.Append(geom)

			model, err := backend.Build(dev.NewGeometricModel(geom)).
				Set("material", mat).
				Commit()
			if err != nil {
				return err
			}
			state.models.Append(model)
		}
		offset += vertexCount
	}
	return nil
}

// Get the point indices of the control window starting at curve vertex
// start, mapped through the topology index buffer when present.
func (c *BasisCurves) windowIndices(start, numPoints int) ([4]uint32, error) {
	var out [4]uint32
	for k := range out {
		vertex := start + k
		point := vertex
		if c.topology.HasIndices() {
			if vertex >= len(c.topology.Indices) {
				return out, fmt.Errorf("%w: vertex %d", ErrIndexOutOfRange, vertex)
			}
			point = c.topology.Indices[vertex]
		}
		if point < 0 || point >= numPoints {
			return out, fmt.Errorf("%w: point %d", ErrIndexOutOfRange, point)
		}
		out[k] = uint32(point)
	}
	return out, nil
}

// Group the geometric models and commit one instance per instance transform.
func (c *BasisCurves) updateInstances(rp *renderer.Param) error {
	transforms := []types.Mat4{types.Ident4()}
	if !c.instancerID.IsEmpty() {
		src := rp.Instancer(c.instancerID)
		if src == nil {
			c.logger.Warningf("%s: instancer %q not found", c.id, c.instancerID)
			transforms = nil
		} else {
			transforms = src.ComputeInstanceTransforms(c.id)
		}
	}

	state := &instanceState{}
	if err := c.buildInstances(rp.Device(), transforms, state); err != nil {
		state.release()
		return err
	}

	c.instances.release()
	c.instances = state
	rp.UpdateModelVersion()
	return nil
}

func (c *BasisCurves) buildInstances(dev backend.Device, transforms []types.Mat4, state *instanceState) error {
	models := c.geometry.models.Objects()
	groupData, err := dev.NewCopiedData(models, backend.DataObject, len(models))
	if err != nil {
		return err
	}
	state.groupData.Set(groupData)

	group, err := backend.Build(dev.NewGroup()).
		Set("geometry", groupData).
		Commit()
	if err != nil {
		return err
	}
	state.group.Set(group)

	for _, xfm := range transforms {
		inst, err := backend.Build(dev.NewInstance(group)).
			Set("xfm", c.xfm.Mul(xfm).Affine()).
			Commit()
		if err != nil {
			return err
		}
		state.instances.Append(inst)
	}
	return nil
}
