package reader

import (
	"fmt"
	"sort"
	"time"

	"github.com/j-cube/hdospray/asset"
	"github.com/j-cube/hdospray/log"
	"github.com/j-cube/hdospray/scene"
	"github.com/j-cube/hdospray/types"
	"gopkg.in/yaml.v3"
)

type yamlScene struct {
	Materials  map[string]yamlMaterial  `yaml:"materials"`
	Instancers map[string]yamlInstancer `yaml:"instancers"`
	Curves     map[string]yamlCurves    `yaml:"curves"`
}

type yamlMaterial struct {
	Networks map[string]yamlNetwork `yaml:"networks"`
}

type yamlNetwork struct {
	Nodes         []yamlNode         `yaml:"nodes"`
	Relationships []yamlRelationship `yaml:"relationships"`
}

type yamlNode struct {
	Path       string                 `yaml:"path"`
	Identifier string                 `yaml:"identifier"`
	Parameters map[string]interface{} `yaml:"parameters"`
}

type yamlRelationship struct {
	InputID    string `yaml:"inputId"`
	InputName  string `yaml:"inputName"`
	OutputID   string `yaml:"outputId"`
	OutputName string `yaml:"outputName"`
}

type yamlInstancer struct {
	Transform    []float32        `yaml:"transform"`
	Translations [][]float32      `yaml:"translations"`
	Rotations    [][]float32      `yaml:"rotations"`
	Scales       [][]float32      `yaml:"scales"`
	Transforms   [][]float32      `yaml:"transforms"`
	Indices      map[string][]int `yaml:"indices"`
}

type yamlCurves struct {
	Type         string      `yaml:"type"`
	Basis        string      `yaml:"basis"`
	Wrap         string      `yaml:"wrap"`
	VertexCounts []int       `yaml:"vertexCounts"`
	Indices      []int       `yaml:"indices"`
	Points       [][]float32 `yaml:"points"`
	Normals      [][]float32 `yaml:"normals"`
	Widths       []float32   `yaml:"widths"`
	DisplayColor [][]float32 `yaml:"displayColor"`
	Opacity      []float32   `yaml:"displayOpacity"`
	ST           [][]float32 `yaml:"st"`
	Transform    []float32   `yaml:"transform"`
	Visible      *bool       `yaml:"visible"`
	Material     string      `yaml:"material"`
	Instancer    string      `yaml:"instancer"`
}

// Parameters of texture nodes holding asset paths.
var assetParams = map[string]bool{
	"file":     true,
	"filename": true,
}

type yamlSceneReader struct {
	logger log.Logger

	// The file being parsed; asset paths are resolved relative to it.
	path string
}

// Create a new yaml scene reader.
func newYamlSceneReader() *yamlSceneReader {
	return &yamlSceneReader{
		logger: log.New("yaml scene reader"),
	}
}

// Read scene definition.
func (r *yamlSceneReader) Read(res *asset.Resource) (*scene.Stage, error) {
	r.logger.Noticef("parsing scene from %s", res.Path())
	start := time.Now()
	r.path = res.Path()

	var doc yamlScene
	if err := yaml.NewDecoder(res).Decode(&doc); err != nil {
		return nil, r.emitError("could not decode: %v", err)
	}

	stage := scene.NewStage()
	for _, id := range sortedKeys(doc.Materials) {
		if err := stage.AddPrim(scene.Path(id), r.material(doc.Materials[id])); err != nil {
			return nil, r.emitError("%v", err)
		}
	}
	for _, id := range sortedKeys(doc.Instancers) {
		prim, err := r.instancer(doc.Instancers[id])
		if err == nil {
			err = stage.AddPrim(scene.Path(id), prim)
		}
		if err != nil {
			return nil, r.emitError("instancer %q: %v", id, err)
		}
	}
	for _, id := range sortedKeys(doc.Curves) {
		prim, err := r.curves(doc.Curves[id])
		if err == nil {
			err = stage.AddPrim(scene.Path(id), prim)
		}
		if err != nil {
			return nil, r.emitError("curves %q: %v", id, err)
		}
	}

	r.logger.Noticef("parsed scene in %d ms", time.Since(start).Nanoseconds()/1000000)
	return stage, nil
}

// Generate an error message that includes the file being parsed.
func (r *yamlSceneReader) emitError(msg string, args ...interface{}) error {
	return fmt.Errorf("[%s] error: %s", r.path, fmt.Sprintf(msg, args...))
}

func (r *yamlSceneReader) material(def yamlMaterial) *scene.Prim {
	networkMap := scene.MaterialNetworkMap{Map: make(map[string]scene.MaterialNetwork)}
	for terminal, net := range def.Networks {
		network := scene.MaterialNetwork{}
		for _, node := range net.Nodes {
			params := make(map[string]interface{}, len(node.Parameters))
			for name, value := range node.Parameters {
				if file, isString := value.(string); isString && assetParams[name] {
					params[name] = asset.ResolvePath(file, r.path)
					continue
				}
				params[name] = value
			}
			network.Nodes = append(network.Nodes, scene.MaterialNode{
				Path:       scene.Path(node.Path),
				Identifier: node.Identifier,
				Parameters: params,
			})
		}
		for _, rel := range net.Relationships {
			network.Relationships = append(network.Relationships, scene.MaterialRelationship{
				InputID:    scene.Path(rel.InputID),
				InputName:  rel.InputName,
				OutputID:   scene.Path(rel.OutputID),
				OutputName: rel.OutputName,
			})
		}
		networkMap.Map[terminal] = network
	}
	return &scene.Prim{Type: scene.PrimMaterial, Network: networkMap}
}

func (r *yamlSceneReader) instancer(def yamlInstancer) (*scene.Prim, error) {
	xfm, err := parseMat4(def.Transform)
	if err != nil {
		return nil, err
	}
	prim := &scene.Prim{
		Type:            scene.PrimInstancer,
		Transform:       xfm,
		Visible:         true,
		InstanceIndices: make(map[scene.Path][]int, len(def.Indices)),
	}
	for proto, indices := range def.Indices {
		prim.InstanceIndices[scene.Path(proto)] = indices
	}

	if def.Translations != nil {
		v, err := parseVec3List(def.Translations)
		if err != nil {
			return nil, fmt.Errorf("translations: %w", err)
		}
		prim.Primvars = append(prim.Primvars, primvar(scene.PrimvarInstanceTranslations, scene.InterpolationInstance, v))
	}
	if def.Rotations != nil {
		v, err := parseVec4List(def.Rotations)
		if err != nil {
			return nil, fmt.Errorf("rotations: %w", err)
		}
		prim.Primvars = append(prim.Primvars, primvar(scene.PrimvarInstanceRotations, scene.InterpolationInstance, v))
	}
	if def.Scales != nil {
		v, err := parseVec3List(def.Scales)
		if err != nil {
			return nil, fmt.Errorf("scales: %w", err)
		}
		prim.Primvars = append(prim.Primvars, primvar(scene.PrimvarInstanceScales, scene.InterpolationInstance, v))
	}
	if def.Transforms != nil {
		list := make([]types.Mat4, len(def.Transforms))
		for i, elems := range def.Transforms {
			if list[i], err = parseMat4(elems); err != nil {
				return nil, fmt.Errorf("transforms: %w", err)
			}
		}
		prim.Primvars = append(prim.Primvars, primvar(scene.PrimvarInstanceTransforms, scene.InterpolationInstance, list))
	}
	return prim, nil
}

func (r *yamlSceneReader) curves(def yamlCurves) (*scene.Prim, error) {
	xfm, err := parseMat4(def.Transform)
	if err != nil {
		return nil, err
	}

	prim := &scene.Prim{
		Type: scene.PrimBasisCurves,
		Topology: scene.CurveTopology{
			CurveType:    def.Type,
			Basis:        def.Basis,
			Wrap:         def.Wrap,
			VertexCounts: def.VertexCounts,
			Indices:      def.Indices,
		},
		Transform:   xfm,
		Visible:     def.Visible == nil || *def.Visible,
		MaterialID:  scene.Path(def.Material),
		InstancerID: scene.Path(def.Instancer),
	}
	if prim.Topology.CurveType == "" {
		prim.Topology.CurveType = scene.CurveTypeCubic
	}
	switch prim.Topology.Wrap {
	case "":
		prim.Topology.Wrap = scene.CurveWrapNonPeriodic
	case scene.CurveWrapNonPeriodic, scene.CurveWrapPeriodic, scene.CurveWrapPinned:
	default:
		return nil, fmt.Errorf("unsupported wrap %q", prim.Topology.Wrap)
	}

	points, err := parseVec3List(def.Points)
	if err != nil {
		return nil, fmt.Errorf("points: %w", err)
	}
	prim.Primvars = append(prim.Primvars, primvar(scene.PrimvarPoints, scene.InterpolationVertex, points))

	if def.Normals != nil {
		v, err := parseVec3List(def.Normals)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		prim.Primvars = append(prim.Primvars, primvar(scene.PrimvarNormals, scene.InterpolationVertex, v))
	}
	if def.Widths != nil {
		prim.Primvars = append(prim.Primvars, primvar(scene.PrimvarWidths, interpolationFor(len(def.Widths)), def.Widths))
	}
	if def.DisplayColor != nil {
		v, err := parseVec3List(def.DisplayColor)
		if err != nil {
			return nil, fmt.Errorf("displayColor: %w", err)
		}
		prim.Primvars = append(prim.Primvars, primvar(scene.PrimvarDisplayColor, interpolationFor(len(v)), v))
	}
	if def.Opacity != nil {
		prim.Primvars = append(prim.Primvars, primvar(scene.PrimvarDisplayOpacity, interpolationFor(len(def.Opacity)), def.Opacity))
	}
	if def.ST != nil {
		v, err := parseVec2List(def.ST)
		if err != nil {
			return nil, fmt.Errorf("st: %w", err)
		}
		pv := primvar(scene.PrimvarST, scene.InterpolationVertex, v)
		pv.Role = scene.RoleTextureCoordinate
		prim.Primvars = append(prim.Primvars, pv)
	}
	return prim, nil
}

func primvar(name string, interpolation scene.Interpolation, value interface{}) scene.Primvar {
	return scene.Primvar{
		PrimvarDescriptor: scene.PrimvarDescriptor{Name: name, Interpolation: interpolation},
		Value:             value,
	}
}

// Single values are constant, everything else is per vertex.
func interpolationFor(n int) scene.Interpolation {
	if n == 1 {
		return scene.InterpolationConstant
	}
	return scene.InterpolationVertex
}

// Parse a row-major 4x4 matrix. An empty list yields the identity matrix.
func parseMat4(elems []float32) (types.Mat4, error) {
	if len(elems) == 0 {
		return types.Ident4(), nil
	}
	if len(elems) != 16 {
		return types.Mat4{}, fmt.Errorf("expected 16 matrix elements; got %d", len(elems))
	}
	var m types.Mat4
	copy(m[:], elems)
	return m, nil
}

func parseVec2List(list [][]float32) ([]types.Vec2, error) {
	out := make([]types.Vec2, len(list))
	for i, v := range list {
		if len(v) != 2 {
			return nil, fmt.Errorf("expected 2 components at index %d; got %d", i, len(v))
		}
		out[i] = types.XY(v[0], v[1])
	}
	return out, nil
}

func parseVec3List(list [][]float32) ([]types.Vec3, error) {
	out := make([]types.Vec3, len(list))
	for i, v := range list {
		if len(v) != 3 {
			return nil, fmt.Errorf("expected 3 components at index %d; got %d", i, len(v))
		}
		out[i] = types.XYZ(v[0], v[1], v[2])
	}
	return out, nil
}

func parseVec4List(list [][]float32) ([]types.Vec4, error) {
	out := make([]types.Vec4, len(list))
	for i, v := range list {
		if len(v) != 4 {
			return nil, fmt.Errorf("expected 4 components at index %d; got %d", i, len(v))
		}
		out[i] = types.XYZW(v[0], v[1], v[2], v[3])
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
