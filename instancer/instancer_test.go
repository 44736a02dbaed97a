package instancer

import (
	"math"
	"testing"

	"github.com/j-cube/hdospray/scene"
	"github.com/j-cube/hdospray/types"
)

func newStage(t *testing.T, indices map[scene.Path][]int, primvars ...scene.Primvar) *scene.Stage {
	t.Helper()
	st := scene.NewStage()
	err := st.AddPrim("/instancer", &scene.Prim{
		Type:            scene.PrimInstancer,
		Transform:       types.Ident4(),
		Primvars:        primvars,
		InstanceIndices: indices,
	})
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func instancePrimvar(name string, value interface{}) scene.Primvar {
	return scene.Primvar{
		PrimvarDescriptor: scene.PrimvarDescriptor{Name: name, Interpolation: scene.InterpolationInstance},
		Value:             value,
	}
}

func syncInstancer(st *scene.Stage) *Instancer {
	in := New("/instancer", st)
	bits := st.DirtyBits("/instancer")
	in.Sync(st, &bits)
	return in
}

func TestComputeInstanceTransforms(t *testing.T) {
	sin45 := float32(math.Sqrt2 / 2)
	type spec struct {
		primvars []scene.Primvar
		point    types.Vec3
		exp      []types.Vec3
	}
	specs := []spec{
		// Translations only
		{
			[]scene.Primvar{instancePrimvar(scene.PrimvarInstanceTranslations, []types.Vec3{{1, 0, 0}, {0, 2, 0}})},
			types.XYZ(0, 0, 0),
			[]types.Vec3{{1, 0, 0}, {0, 2, 0}},
		},
		// Scale is applied before translation
		{
			[]scene.Primvar{
				instancePrimvar(scene.PrimvarInstanceTranslations, []types.Vec3{{1, 0, 0}}),
				instancePrimvar(scene.PrimvarInstanceScales, []types.Vec3{{2, 2, 2}}),
			},
			types.XYZ(1, 1, 1),
			[]types.Vec3{{3, 2, 2}},
		},
		// 90 degree rotation around Z
		{
			[]scene.Primvar{instancePrimvar(scene.PrimvarInstanceRotations, []types.Vec4{{0, 0, sin45, sin45}})},
			types.XYZ(1, 0, 0),
			[]types.Vec3{{0, 1, 0}},
		},
		// Instance transforms come first
		{
			[]scene.Primvar{
				instancePrimvar(scene.PrimvarInstanceScales, []types.Vec3{{3, 3, 3}}),
				instancePrimvar(scene.PrimvarInstanceTransforms, []types.Mat4{types.Translate4(types.XYZ(1, 0, 0))}),
			},
			types.XYZ(0, 0, 0),
			[]types.Vec3{{3, 0, 0}},
		},
	}

	for index, s := range specs {
		in := syncInstancer(newStage(t, nil, s.primvars...))
		got := in.ComputeInstanceTransforms("/proto")
		if len(got) != len(s.exp) {
			t.Fatalf("[spec %d] expected %d transforms; got %d", index, len(s.exp), len(got))
		}
		for i, xfm := range got {
			if p := xfm.MulPoint(s.point); !p.ApproxEqual(s.exp[i]) {
				t.Fatalf("[spec %d] instance %d: expected %v; got %v", index, i, s.exp[i], p)
			}
		}
	}
}

func TestInstanceIndices(t *testing.T) {
	st := newStage(t,
		map[scene.Path][]int{"/proto": {2, 0, 7}},
		instancePrimvar(scene.PrimvarInstanceTranslations, []types.Vec3{{1, 0, 0}, {2, 0, 0}, {3, 0, 0}}),
	)
	in := syncInstancer(st)

	got := in.ComputeInstanceTransforms("/proto")
	if len(got) != 2 {
		t.Fatalf("expected out of range indices to be skipped; got %d transforms", len(got))
	}
	if got[0].Affine().P != types.XYZ(3, 0, 0) || got[1].Affine().P != types.XYZ(1, 0, 0) {
		t.Fatalf("expected instances 2 and 0; got %v", got)
	}
	if n := in.NumInstances(); n != 3 {
		t.Fatalf("expected 3 instances; got %d", n)
	}
}

func TestInstancerTransformIsAppliedLast(t *testing.T) {
	st := newStage(t, nil, instancePrimvar(scene.PrimvarInstanceTranslations, []types.Vec3{{1, 0, 0}}))
	st.SetTransform("/instancer", types.Scale4(types.XYZ(2, 2, 2)))
	in := syncInstancer(st)

	got := in.ComputeInstanceTransforms("/proto")
	if p := got[0].MulPoint(types.XYZ(0, 0, 0)); !p.ApproxEqual(types.XYZ(2, 0, 0)) {
		t.Fatalf("expected (2, 0, 0); got %v", p)
	}

	// Transform-only updates keep the instance primvars
	st.SetTransform("/instancer", types.Ident4())
	bits := st.DirtyBits("/instancer") &^ scene.DirtyPrimvar
	in.Sync(st, &bits)
	got = in.ComputeInstanceTransforms("/proto")
	if p := got[0].MulPoint(types.XYZ(0, 0, 0)); !p.ApproxEqual(types.XYZ(1, 0, 0)) {
		t.Fatalf("expected (1, 0, 0); got %v", p)
	}
}
