package scene

// Material node identifiers.
const (
	NodePreviewSurface = "UsdPreviewSurface"
	NodeUVTexture      = "UsdUVTexture"
	NodePtexTexture    = "HwPtexTexture_1"
)

// A shading node inside a material network.
type MaterialNode struct {
	Path       Path
	Identifier string
	Parameters map[string]interface{}
}

// A connection from an output of the InputID node to the OutputName input
// of the OutputID node.
type MaterialRelationship struct {
	InputID    Path
	InputName  string
	OutputID   Path
	OutputName string
}

// A set of nodes and the relationships between them.
type MaterialNetwork struct {
	Nodes         []MaterialNode
	Relationships []MaterialRelationship
}

// Material networks keyed by terminal name (e.g. "surface", "displacement").
type MaterialNetworkMap struct {
	Map map[string]MaterialNetwork
}

// Check whether the network contains a node with the given identifier.
func (n MaterialNetwork) HasNode(identifier string) bool {
	for _, node := range n.Nodes {
		if node.Identifier == identifier {
			return true
		}
	}
	return false
}

// Find the first relationship whose upstream node is nodePath.
func (n MaterialNetwork) OutgoingRelationship(nodePath Path) (MaterialRelationship, bool) {
	for _, rel := range n.Relationships {
		if rel.InputID == nodePath {
			return rel, true
		}
	}
	return MaterialRelationship{}, false
}
