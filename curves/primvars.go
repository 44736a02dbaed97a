package curves

import (
	"github.com/j-cube/hdospray/scene"
	"github.com/j-cube/hdospray/types"
)

// Refresh the cached attributes whose primvars are dirty. Descriptors are
// visited for every interpolation class; unrecognized names are ignored.
func (c *BasisCurves) updatePrimvars(d scene.Delegate, bits scene.DirtyBits) {
	for interp := scene.Interpolation(0); interp < scene.InterpolationCount; interp++ {
		for _, pv := range d.GetPrimvarDescriptors(c.id, interp) {
			c.updatePrimvar(d, pv, bits)
		}
	}
}

func (c *BasisCurves) updatePrimvar(d scene.Delegate, pv scene.PrimvarDescriptor, bits scene.DirtyBits) {
	switch {
	case pv.Name == scene.PrimvarPoints:
		if !bits.Has(scene.DirtyPoints) {
			return
		}
		if v, ok := d.Get(c.id, pv.Name).([]types.Vec3); ok {
			c.points = append([]types.Vec3(nil), v...)
		}
	case pv.Name == scene.PrimvarNormals:
		if !bits.Has(scene.DirtyNormals) {
			return
		}
		if v, ok := d.Get(c.id, pv.Name).([]types.Vec3); ok {
			c.normals = append([]types.Vec3(nil), v...)
		}
	case pv.Name == scene.PrimvarWidths:
		if !bits.Has(scene.DirtyWidths) {
			return
		}
		if v, ok := d.Get(c.id, pv.Name).([]float32); ok {
			c.widths = append([]float32(nil), v...)
		}
	case pv.Role == scene.RoleTextureCoordinate || pv.Name == scene.PrimvarST:
		if !bits.IsPrimvarDirty(scene.PrimvarST) {
			return
		}
		if v, ok := d.Get(c.id, pv.Name).([]types.Vec2); ok {
			c.texcoords = append([]types.Vec2(nil), v...)
		}
	case pv.Name == scene.PrimvarDisplayColor:
		if !bits.IsPrimvarDirty(scene.PrimvarDisplayColor) {
			return
		}
		if v, ok := d.Get(c.id, pv.Name).([]types.Vec3); ok {
			c.setDisplayColor(v)
		}
	case pv.Name == scene.PrimvarDisplayOpacity:
		if !bits.IsPrimvarDirty(scene.PrimvarDisplayOpacity) {
			return
		}
		if v, ok := d.Get(c.id, pv.Name).([]float32); ok {
			c.setDisplayOpacity(v)
		}
	}
}

// Overwrite the color cache. Alpha is reset to opaque so an opacity update
// must follow the color update within the same sync to survive.
func (c *BasisCurves) setDisplayColor(colors []types.Vec3) {
	c.colors = resizeColors(c.colors, len(colors))
	for i, col := range colors {
		c.colors[i] = col.Vec4(1)
	}

	switch {
	case len(c.colors) > 1:
		c.singleColor = types.XYZW(1, 1, 1, 1)
	case len(c.colors) == 1:
		c.singleColor = c.colors[0].Vec3().Vec4(1)
	}
}

// Fold opacities into the alpha channel of the color cache, growing it if
// needed. Grown entries keep zero color until a color update arrives.
func (c *BasisCurves) setDisplayOpacity(opacities []float32) {
	c.colors = resizeColors(c.colors, max(len(c.colors), len(opacities)))
	for i, alpha := range opacities {
		c.colors[i][3] = alpha
	}
	if len(c.colors) != 0 {
		c.singleColor[3] = c.colors[0][3]
	}
}

// Copy colors into a new buffer of length n. Cached buffers may be shared
// with committed renderer data and are never written in place.
func resizeColors(colors []types.Vec4, n int) []types.Vec4 {
	out := make([]types.Vec4, n)
	copy(out, colors)
	return out
}
