package types

import "testing"

func TestMat4Mul(t *testing.T) {
	type spec struct {
		a, b Mat4
		exp  Mat4
	}
	specs := []spec{
		{Ident4(), Ident4(), Ident4()},
		{Translate4(XYZ(1, 2, 3)), Ident4(), Translate4(XYZ(1, 2, 3))},
		{Translate4(XYZ(1, 2, 3)), Translate4(XYZ(1, 1, 1)), Translate4(XYZ(2, 3, 4))},
		{Scale4(XYZ(2, 2, 2)), Translate4(XYZ(1, 0, 0)), Mat4{
			2, 0, 0, 0,
			0, 2, 0, 0,
			0, 0, 2, 0,
			1, 0, 0, 1,
		}},
	}

	for index, s := range specs {
		got := s.a.Mul(s.b)
		if !got.ApproxEqual(s.exp) {
			t.Fatalf("[spec %d] expected %v; got %v", index, s.exp, got)
		}
	}
}

func TestMat4CompositionOrder(t *testing.T) {
	// Scale first, then translate.
	m := Scale4(XYZ(2, 2, 2)).Mul(Translate4(XYZ(10, 0, 0)))
	got := m.MulPoint(XYZ(1, 1, 1))
	exp := XYZ(12, 2, 2)
	if !got.ApproxEqual(exp) {
		t.Fatalf("expected %v; got %v", exp, got)
	}
}

func TestMat4Affine(t *testing.T) {
	m := Mat4{
		1, 2, 3, 0,
		4, 5, 6, 0,
		7, 8, 9, 0,
		10, 11, 12, 1,
	}
	exp := Affine3{
		Vx: XYZ(1, 2, 3),
		Vy: XYZ(4, 5, 6),
		Vz: XYZ(7, 8, 9),
		P:  XYZ(10, 11, 12),
	}
	if got := m.Affine(); !got.ApproxEqual(exp) {
		t.Fatalf("expected %v; got %v", exp, got)
	}
}
