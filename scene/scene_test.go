package scene

import (
	"testing"

	"github.com/j-cube/hdospray/types"
)

func TestPrimvarDirtyBits(t *testing.T) {
	type spec struct {
		bits  DirtyBits
		name  string
		dirty bool
	}
	specs := []spec{
		{DirtyPoints, PrimvarPoints, true},
		{DirtyPoints, PrimvarNormals, false},
		{DirtyNormals, PrimvarNormals, true},
		{DirtyWidths, PrimvarWidths, true},
		{DirtyPrimvar, PrimvarWidths, false},
		{DirtyPrimvar, PrimvarDisplayColor, true},
		{DirtyPrimvar, PrimvarST, true},
		{DirtyTopology, PrimvarDisplayOpacity, false},
	}

	for index, s := range specs {
		if got := s.bits.IsPrimvarDirty(s.name); got != s.dirty {
			t.Fatalf("[spec %d] expected IsPrimvarDirty(%q) to be %t", index, s.name, s.dirty)
		}
	}
}

func TestStageDirtyTracking(t *testing.T) {
	st := NewStage()
	id := Path("/curves")
	err := st.AddPrim(id, &Prim{Type: PrimBasisCurves, Transform: types.Ident4()})
	if err != nil {
		t.Fatal(err)
	}
	if err = st.AddPrim(id, &Prim{Type: PrimBasisCurves}); err == nil {
		t.Fatal("expected an error when adding a duplicate prim")
	}

	if bits := st.DirtyBits(id); bits&AllSceneDirtyBits != AllSceneDirtyBits {
		t.Fatalf("expected new prim to be fully dirty; got %b", bits)
	}

	st.SetDirtyBits(id, Clean)
	st.SetPrimvar(id, Primvar{
		PrimvarDescriptor: PrimvarDescriptor{Name: PrimvarWidths, Interpolation: InterpolationVertex},
		Value:             []float32{1, 2},
	})
	st.SetPrimvar(id, Primvar{
		PrimvarDescriptor: PrimvarDescriptor{Name: PrimvarDisplayColor, Interpolation: InterpolationConstant},
		Value:             []types.Vec3{{1, 0, 0}},
	})

	if exp := DirtyWidths | DirtyPrimvar; st.DirtyBits(id) != exp {
		t.Fatalf("expected dirty bits %b; got %b", exp, st.DirtyBits(id))
	}

	if got := st.GetPrimvarDescriptors(id, InterpolationConstant); len(got) != 1 || got[0].Name != PrimvarDisplayColor {
		t.Fatalf("expected one constant primvar; got %v", got)
	}
}

func TestStageInstancerDirtyPropagation(t *testing.T) {
	st := NewStage()
	st.AddPrim("/instancer", &Prim{Type: PrimInstancer})
	st.AddPrim("/proto", &Prim{Type: PrimBasisCurves, InstancerID: "/instancer"})
	st.AddPrim("/other", &Prim{Type: PrimBasisCurves})
	st.SetDirtyBits("/proto", Clean)
	st.SetDirtyBits("/other", Clean)

	st.SetTransform("/instancer", types.Translate4(types.XYZ(1, 0, 0)))

	if !st.DirtyBits("/proto").IsInstancerDirty() {
		t.Fatal("expected prototype to be instancer-dirty")
	}
	if st.DirtyBits("/other") != Clean {
		t.Fatal("expected unrelated prim to stay clean")
	}
}

func TestNetworkLookups(t *testing.T) {
	net := MaterialNetwork{
		Nodes: []MaterialNode{
			{Path: "/mat/surface", Identifier: NodePreviewSurface},
			{Path: "/mat/tex", Identifier: NodeUVTexture},
		},
		Relationships: []MaterialRelationship{
			{InputID: "/mat/tex", InputName: "rgb", OutputID: "/mat/surface", OutputName: "diffuseColor"},
		},
	}

	if !net.HasNode(NodePreviewSurface) || net.HasNode(NodePtexTexture) {
		t.Fatal("HasNode mismatch")
	}
	rel, found := net.OutgoingRelationship("/mat/tex")
	if !found || rel.OutputName != "diffuseColor" {
		t.Fatalf("expected relationship to diffuseColor; got %v", rel)
	}
	if _, found = net.OutgoingRelationship("/mat/surface"); found {
		t.Fatal("expected no outgoing relationship for the surface node")
	}
}
