package renderer

import "runtime"

// Renderer types. The type selects the material family used by all
// materials in the process.
const (
	PathTracer  = "pathtracer"
	Interactive = "scivis"
)

// Options are read once at startup and shared by every prim.
type Options struct {
	// Use the path tracer and its physically based "principled" material
	// family; otherwise use the interactive renderer with "obj" materials.
	UsePathTracing bool

	// Number of samples per pixel rendered per frame.
	SamplesPerFrame uint32

	// Prefer linear over sRGB/luminance formats for 8-bit textures.
	PreferLinearTextures bool

	// Sample textures with nearest filtering instead of bilinear.
	NearestTextureFilter bool

	// Number of prims synced in parallel.
	Workers int
}

// Get the default options.
func DefaultOptions() Options {
	return Options{
		UsePathTracing:  true,
		SamplesPerFrame: 1,
		Workers:         max(runtime.NumCPU()-1, 1),
	}
}

// The renderer type matching the selected material family.
func (o Options) RendererType() string {
	if o.UsePathTracing {
		return PathTracer
	}
	return Interactive
}
