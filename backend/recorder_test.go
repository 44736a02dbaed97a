package backend

import (
	"errors"
	"testing"

	"github.com/j-cube/hdospray/types"
)

func TestCommitOnce(t *testing.T) {
	rec := NewRecorder()
	geom := rec.NewGeometry("curve")

	if err := geom.SetParam("basis", BasisBSpline); err != nil {
		t.Fatal(err)
	}
	if err := geom.Commit(); err != nil {
		t.Fatal(err)
	}

	if err := geom.SetParam("basis", BasisCatmullRom); !errors.Is(err, ErrCommitted) {
		t.Fatalf("expected ErrCommitted when mutating a committed object; got %v", err)
	}
	if err := geom.Commit(); !errors.Is(err, ErrCommitted) {
		t.Fatalf("expected ErrCommitted on second commit; got %v", err)
	}

	v, _ := geom.(*RecordedObject).Param("basis")
	if v != BasisBSpline {
		t.Fatalf("expected committed basis to be preserved; got %v", v)
	}
}

func TestReleasedObject(t *testing.T) {
	rec := NewRecorder()
	mat := rec.NewMaterial("pathtracer", "principled")
	mat.Release()

	if err := mat.SetParam("roughness", float32(0.5)); !errors.Is(err, ErrReleased) {
		t.Fatalf("expected ErrReleased; got %v", err)
	}
	if err := mat.Commit(); !errors.Is(err, ErrReleased) {
		t.Fatalf("expected ErrReleased; got %v", err)
	}
	if got := rec.LiveCounts()[KindMaterial]; got != 0 {
		t.Fatalf("expected no live materials; got %d", got)
	}
}

func TestUncommittedReference(t *testing.T) {
	rec := NewRecorder()
	geom := rec.NewGeometry("curve")
	model := rec.NewGeometricModel(geom)
	mat := rec.NewMaterial("pathtracer", "principled")

	if err := model.SetParam("material", mat); !errors.Is(err, ErrNotCommitted) {
		t.Fatalf("expected ErrNotCommitted; got %v", err)
	}
}

func TestSharedAndCopiedData(t *testing.T) {
	rec := NewRecorder()
	buf := []types.Vec4{{1, 2, 3, 4}, {5, 6, 7, 8}}

	shared, err := rec.NewSharedData(buf, DataVec4f, len(buf))
	if err != nil {
		t.Fatal(err)
	}
	copied, err := rec.NewCopiedData(buf, DataVec4f, len(buf))
	if err != nil {
		t.Fatal(err)
	}

	buf[0][0] = 42
	if got := shared.(*RecordedObject).Data().([]types.Vec4)[0][0]; got != 42 {
		t.Fatalf("expected shared data to alias the caller buffer; got %f", got)
	}
	if got := copied.(*RecordedObject).Data().([]types.Vec4)[0][0]; got != 1 {
		t.Fatalf("expected copied data to be independent of the caller buffer; got %f", got)
	}
	if !shared.(*RecordedObject).Shared() || copied.(*RecordedObject).Shared() {
		t.Fatal("shared flag mismatch")
	}
}

func TestCheckData(t *testing.T) {
	type spec struct {
		data     interface{}
		dataType DataType
		dims     []int
		valid    bool
	}
	specs := []spec{
		{[]byte{1, 2, 3, 4, 5, 6}, DataVec3UC, []int{2, 1}, true},
		{[]byte{1, 2, 3, 4, 5}, DataVec3UC, []int{2, 1}, false},
		{[]float32{1, 2, 3, 4}, DataVec4f, []int{1, 1}, true},
		{[]float32{1, 2, 3, 4, 5}, DataVec4f, []int{1, 1}, false},
		{[]uint32{0, 1, 2, 3}, DataUInt, []int{4}, true},
		{[]uint32{0, 1, 2, 3}, DataFloat, []int{4}, false},
		{[]types.Vec3{{}, {}}, DataVec3f, []int{3}, false},
		{[]Object{}, DataObject, []int{0}, true},
	}

	for index, s := range specs {
		err := CheckData(s.data, s.dataType, s.dims...)
		if s.valid && err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if !s.valid && !errors.Is(err, ErrDataMismatch) {
			t.Fatalf("[spec %d] expected ErrDataMismatch; got %v", index, err)
		}
	}
}

func TestHandleReleasesOnReplace(t *testing.T) {
	rec := NewRecorder()
	first := rec.NewMaterial("pathtracer", "principled")
	second := rec.NewMaterial("pathtracer", "principled")

	var h Handle
	h.Set(first)
	h.Set(second)

	if !first.(*RecordedObject).Released() {
		t.Fatal("expected replaced object to be released")
	}
	if second.(*RecordedObject).Released() {
		t.Fatal("expected current object to stay live")
	}

	h.Release()
	if !second.(*RecordedObject).Released() || h.Get() != nil {
		t.Fatal("expected handle release to drop the object")
	}
}

func TestBuilderReleasesOnError(t *testing.T) {
	rec := NewRecorder()
	geom := rec.NewGeometry("curve")
	uncommitted := rec.NewMaterial("pathtracer", "principled")

	_, err := Build(geom).
		Set("type", CurveRound).
		Set("material", uncommitted).
		Set("basis", BasisBSpline).
		Commit()
	if !errors.Is(err, ErrNotCommitted) {
		t.Fatalf("expected ErrNotCommitted; got %v", err)
	}
	if !geom.(*RecordedObject).Released() {
		t.Fatal("expected failed build to release the object")
	}
	if _, set := geom.(*RecordedObject).Param("basis"); set {
		t.Fatal("expected builder to stop at the first error")
	}
}
