package material

import (
	"github.com/j-cube/hdospray/scene"
)

// Preview surface parameter names.
const (
	ParamDiffuseColor       = "diffuseColor"
	ParamSpecularColor      = "specularColor"
	ParamEmissiveColor      = "emissiveColor"
	ParamMetallic           = "metallic"
	ParamRoughness          = "roughness"
	ParamClearcoat          = "clearcoat"
	ParamClearcoatRoughness = "clearcoatRoughness"
	ParamIOR                = "ior"
	ParamColor              = "color"
	ParamOpacity            = "opacity"
	ParamNormal             = "normal"
)

// Texture node parameter names.
const (
	ParamFile     = "file"
	ParamFilename = "filename"
	ParamScale    = "scale"
	ParamWrapS    = "wrapS"
	ParamWrapT    = "wrapT"
)

// The kind of a material network node.
type nodeKind int

const (
	nodeUnknown nodeKind = iota
	nodePreviewSurface
	nodeUVTexture
	nodePtexTexture
)

// Lookup node kind by its identifier.
func nodeKindFromIdentifier(identifier string) nodeKind {
	switch identifier {
	case scene.NodePreviewSurface:
		return nodePreviewSurface
	case scene.NodeUVTexture:
		return nodeUVTexture
	case scene.NodePtexTexture:
		return nodePtexTexture
	}
	return nodeUnknown
}

func (k nodeKind) String() string {
	switch k {
	case nodePreviewSurface:
		return "previewSurface"
	case nodeUVTexture:
		return "uvTexture"
	case nodePtexTexture:
		return "ptexTexture"
	}
	return "unknown"
}

// Slot identifies which material channel a texture drives.
type Slot int

const (
	SlotDiffuse Slot = iota
	SlotMetallic
	SlotRoughness
	SlotNormal
	//
	numSlots
	slotInvalid Slot = -1
)

// Lookup the texture slot fed through a preview surface input.
func slotFromInput(name string) Slot {
	switch name {
	case ParamDiffuseColor:
		return SlotDiffuse
	case ParamMetallic:
		return SlotMetallic
	case ParamRoughness:
		return SlotRoughness
	case ParamNormal:
		return SlotNormal
	}
	return slotInvalid
}

func (s Slot) String() string {
	switch s {
	case SlotDiffuse:
		return ParamDiffuseColor
	case SlotMetallic:
		return ParamMetallic
	case SlotRoughness:
		return ParamRoughness
	case SlotNormal:
		return ParamNormal
	}
	return "invalid"
}

// A network node whose kind and texture slot were resolved once while
// parsing the network.
type parsedNode struct {
	kind nodeKind
	node scene.MaterialNode

	// Texture nodes only. The input name of the node's outgoing relationship
	// and whether it has one at all.
	output    string
	connected bool
}

// Select the network that contains a preview surface. Networks are visited
// in terminal name order and the last match wins.
func selectNetwork(networkMap scene.MaterialNetworkMap) (scene.MaterialNetwork, bool) {
	var (
		selected scene.MaterialNetwork
		found    bool
	)
	for _, terminal := range sortedKeys(networkMap.Map) {
		network := networkMap.Map[terminal]
		if network.HasNode(scene.NodePreviewSurface) {
			selected, found = network, true
		}
	}
	return selected, found
}

// Resolve node kinds and texture outputs.
func parseNetwork(network scene.MaterialNetwork) []parsedNode {
	out := make([]parsedNode, 0, len(network.Nodes))
	for _, node := range network.Nodes {
		pn := parsedNode{
			kind: nodeKindFromIdentifier(node.Identifier),
			node: node,
		}
		if pn.kind == nodeUVTexture || pn.kind == nodePtexTexture {
			if rel, found := network.OutgoingRelationship(node.Path); found {
				pn.output = rel.OutputName
				pn.connected = true
			}
		}
		out = append(out, pn)
	}
	return out
}
