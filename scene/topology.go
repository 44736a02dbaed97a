package scene

// Curve types.
const (
	CurveTypeCubic  = "cubic"
	CurveTypeLinear = "linear"
)

// Curve bases.
const (
	CurveBasisBezier     = "bezier"
	CurveBasisBSpline    = "bSpline"
	CurveBasisCatmullRom = "catmullRom"
)

// Curve wrap modes.
const (
	CurveWrapNonPeriodic = "nonperiodic"
	CurveWrapPeriodic    = "periodic"
	CurveWrapPinned      = "pinned"
)

// The topology of a basis curves prim.
type CurveTopology struct {
	CurveType string
	Basis     string
	Wrap      string

	// The number of vertices of each curve.
	VertexCounts []int

	// An optional flattened index buffer mapping curve vertices to points.
	Indices []int
}

// Returns true if the topology carries an index buffer.
func (t CurveTopology) HasIndices() bool {
	return len(t.Indices) != 0
}

// The total number of curve vertices.
func (t CurveTopology) NumVertices() int {
	total := 0
	for _, vc := range t.VertexCounts {
		total += vc
	}
	return total
}
