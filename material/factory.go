package material

import (
	"github.com/j-cube/hdospray/backend"
	"github.com/j-cube/hdospray/renderer"
	"github.com/j-cube/hdospray/types"
)

// Material families.
const (
	FamilyPrincipled = "principled"
	FamilyObj        = "obj"
)

// Get the material family used with the configured renderer.
func Family(opts renderer.Options) string {
	if opts.UsePathTracing {
		return FamilyPrincipled
	}
	return FamilyObj
}

// Start building a material of the configured family with its base color
// set. The alpha component of color drives the obj family's opacity.
func newBuilder(dev backend.Device, opts renderer.Options, color types.Vec4) *backend.Builder {
	family := Family(opts)
	b := backend.Build(dev.NewMaterial(opts.RendererType(), family))
	if family == FamilyPrincipled {
		return b.Set("baseColor", color.Vec3())
	}
	return b.
		Set("ns", ObjSpecularExponent).
		Set("ks", ObjSpecularColor).
		Set("kd", color.Vec3()).
		Set("d", color[3])
}

// Create a committed material of the configured family with the given color.
func CreateDefaultMaterial(dev backend.Device, opts renderer.Options, color types.Vec4) (backend.Object, error) {
	return newBuilder(dev, opts, color).Commit()
}
