package material

import (
	"errors"
	"fmt"

	"github.com/j-cube/hdospray/asset/texture"
	"github.com/j-cube/hdospray/backend"
	"github.com/j-cube/hdospray/log"
	"github.com/j-cube/hdospray/renderer"
	"github.com/j-cube/hdospray/scene"
	"github.com/j-cube/hdospray/types"
)

// Principled texture parameter names indexed by slot.
var principledMaps = [numSlots]string{
	SlotDiffuse:   "map_baseColor",
	SlotMetallic:  "map_metallic",
	SlotRoughness: "map_roughness",
	SlotNormal:    "map_normal",
}

// Obj texture parameter names indexed by slot. Empty names are not supported
// by the obj family.
var objMaps = [numSlots]string{
	SlotDiffuse: "map_kd",
	SlotNormal:  "map_bump",
}

// TextureBinding describes a texture node bound to a material slot.
type TextureBinding struct {
	File  string
	Scale types.Vec4
	Ptex  bool

	// Nil if the texture could not be loaded.
	Texture *texture.Texture
}

// Material translates a preview surface network into a committed renderer
// material.
type Material struct {
	id     scene.Path
	logger log.Logger
	loader texture.Loader

	params   Parameters
	bindings [numSlots]*TextureBinding
	hasPtex  bool

	obj     backend.Handle
	lastErr error
}

// Create a material prim. If loader is nil, textures are decoded with
// texture.FileLoader.
func New(id scene.Path, loader texture.Loader) *Material {
	if loader == nil {
		loader = texture.FileLoader{}
	}
	return &Material{
		id:     id,
		logger: log.New("material"),
		loader: loader,
		params: DefaultParameters(),
	}
}

// The path of this material prim.
func (m *Material) ID() scene.Path {
	return m.id
}

// The committed renderer material or nil if none was built.
func (m *Material) Object() backend.Object {
	return m.obj.Get()
}

// The parameters extracted during the last sync.
func (m *Material) Parameters() Parameters {
	return m.params
}

// The texture bound to a slot during the last sync or nil.
func (m *Material) Binding(slot Slot) *TextureBinding {
	if slot < 0 || slot >= numSlots {
		return nil
	}
	return m.bindings[slot]
}

// Returns true if the last synced network contained a ptex texture.
func (m *Material) HasPtex() bool {
	return m.hasPtex
}

// The last error encountered while syncing or nil.
func (m *Material) LastError() error {
	return m.lastErr
}

// Rebuild the renderer material if its network or parameters are dirty. The
// dirty bits are cleared on return.
func (m *Material) Sync(d scene.Delegate, p *renderer.Param, dirty *scene.DirtyBits) {
	defer func() { *dirty = scene.Clean }()
	if *dirty&scene.AllMaterialDirty == 0 {
		return
	}

	m.lastErr = nil
	m.reset()

	networkMap, ok := d.GetMaterialResource(m.id)
	if !ok || len(networkMap.Map) == 0 {
		m.logger.Infof("material %q: material network map was empty", m.id)
	} else if network, found := selectNetwork(networkMap); found {
		for _, pn := range parseNetwork(network) {
			m.processNode(p, pn)
		}
	} else {
		m.logger.Infof("material %q: no preview surface in network", m.id)
	}

	m.obj.Release()
	obj, err := m.build(p)
	if err != nil {
		m.fail(fmt.Errorf("material %q: could not commit: %w", m.id, err))
		return
	}
	m.obj.Set(obj)
}

// Release the renderer material and all loaded textures.
func (m *Material) Finalize() {
	m.releaseTextures()
	m.obj.Release()
}

// Restore default parameters and drop the textures of a previous sync.
func (m *Material) reset() {
	m.params = DefaultParameters()
	m.releaseTextures()
	m.hasPtex = false
}

func (m *Material) releaseTextures() {
	for slot, binding := range m.bindings {
		if binding != nil && binding.Texture != nil {
			binding.Texture.Release()
		}
		m.bindings[slot] = nil
	}
}

func (m *Material) fail(err error) {
	m.lastErr = err
	m.logger.Error(err)
}

func (m *Material) processNode(p *renderer.Param, pn parsedNode) {
	switch pn.kind {
	case nodePreviewSurface:
		m.processPreviewSurface(pn.node)
	case nodeUVTexture, nodePtexTexture:
		if !pn.connected {
			m.logger.Debugf("material %q: skipping unconnected texture node %q", m.id, pn.node.Path)
			return
		}
		m.processTexture(p, pn)
	default:
		m.logger.Debugf("material %q: skipping node %q (%s)", m.id, pn.node.Path, pn.node.Identifier)
	}
}

func (m *Material) processPreviewSurface(node scene.MaterialNode) {
	for _, name := range sortedKeys(node.Parameters) {
		value := node.Parameters[name]
		var ok bool
		switch name {
		case ParamDiffuseColor, ParamColor:
			m.params.DiffuseColor, ok = toVec3(value)
		case ParamMetallic:
			m.params.Metallic, ok = toFloat(value)
		case ParamRoughness:
			m.params.Roughness, ok = toFloat(value)
		case ParamIOR:
			m.params.IOR, ok = toFloat(value)
		case ParamOpacity:
			m.params.Opacity, ok = toFloat(value)
		case ParamNormal:
			m.params.Normal, ok = toFloat(value)
		case ParamSpecularColor, ParamEmissiveColor, ParamClearcoat, ParamClearcoatRoughness:
			ok = true
		default:
			m.logger.Debugf("material %q: unhandled surface parameter %q", m.id, name)
			ok = true
		}
		if !ok {
			m.logger.Warningf("material %q: ignoring parameter %q with unexpected value %v", m.id, name, value)
		}
	}
}

func (m *Material) processTexture(p *renderer.Param, pn parsedNode) {
	binding := &TextureBinding{
		Scale: types.XYZW(1, 1, 1, 1),
		Ptex:  pn.kind == nodePtexTexture,
	}

	for _, name := range sortedKeys(pn.node.Parameters) {
		value := pn.node.Parameters[name]
		switch name {
		case ParamFile, ParamFilename:
			path, ok := toAssetPath(value)
			if !ok {
				m.logger.Warningf("material %q: texture node %q has an invalid %s", m.id, pn.node.Path, name)
				continue
			}
			binding.File = path
			if name == ParamFilename {
				binding.Ptex = true
			}
		case ParamScale:
			if scale, ok := toVec4(value); ok {
				binding.Scale = scale
			}
		case ParamWrapS, ParamWrapT:
		default:
			m.logger.Debugf("material %q: unhandled texture parameter %q", m.id, name)
		}
	}

	if binding.Ptex {
		m.hasPtex = true
	}

	slot := slotFromInput(pn.output)
	if slot == slotInvalid {
		m.logger.Infof("material %q: unhandled texture slot %q", m.id, pn.output)
		return
	}
	if binding.File == "" {
		m.logger.Warningf("material %q: texture node %q has no file", m.id, pn.node.Path)
		return
	}

	m.loadTexture(p, binding)
	if prev := m.bindings[slot]; prev != nil && prev.Texture != nil {
		prev.Texture.Release()
	}
	m.bindings[slot] = binding
}

func (m *Material) loadTexture(p *renderer.Param, binding *TextureBinding) {
	var (
		tex *texture.Texture
		err error
	)
	if binding.Ptex {
		tex, err = texture.NewPtex(p.Device(), binding.File)
	} else {
		opts := p.Options()
		texOpts := texture.Options{PreferLinear: opts.PreferLinearTextures}
		if opts.NearestTextureFilter {
			texOpts.Filter = backend.FilterNearest
		}
		tex, err = texture.Load2D(p.Device(), m.loader, binding.File, texOpts)
	}
	if err != nil {
		if binding.Ptex && errors.Is(err, texture.ErrPtexUnsupported) {
			m.logger.Infof("material %q: ptex texture %q bound but not loaded: %v", m.id, binding.File, err)
			return
		}
		m.lastErr = fmt.Errorf("material %q: %w", m.id, err)
		m.logger.Warningf("material %q: texture %q left unbound: %v", m.id, binding.File, err)
		return
	}
	binding.Texture = tex
}

// Create and commit the renderer material from the extracted parameters.
func (m *Material) build(p *renderer.Param) (backend.Object, error) {
	opts := p.Options()
	params := m.params

	var loaded [numSlots]backend.Object
	for slot, binding := range m.bindings {
		if binding != nil && binding.Texture != nil {
			loaded[slot] = binding.Texture.Object()
		}
	}

	// Textured channels use a neutral multiplier
	if loaded[SlotDiffuse] != nil {
		params.DiffuseColor = neutralColor
	}
	if loaded[SlotMetallic] != nil {
		params.Metallic = neutralMultiplier
	}
	if loaded[SlotRoughness] != nil {
		params.Roughness = neutralMultiplier
	}
	if loaded[SlotNormal] != nil {
		params.Normal = neutralMultiplier
	}

	b := newBuilder(p.Device(), opts, params.DiffuseColor.Vec4(params.Opacity))
	maps := objMaps
	if Family(opts) == FamilyPrincipled {
		maps = principledMaps
		b.Set("ior", params.IOR).
			Set("metallic", params.Metallic).
			Set("roughness", params.Roughness).
			Set("opacity", params.Opacity).
			Set("normal", params.Normal)
	}

	for slot, obj := range loaded {
		if obj == nil {
			continue
		}
		if maps[slot] == "" {
			m.logger.Debugf("material %q: %s textures are not supported by the %s family", m.id, Slot(slot), Family(opts))
			continue
		}
		b.Set(maps[slot], obj)
	}
	return b.Commit()
}
