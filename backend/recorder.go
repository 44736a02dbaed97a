package backend

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/j-cube/hdospray/types"
)

// Recorder is an in-memory Device that records every object it creates and
// enforces the commit-once discipline. It backs the CLI dry runs and the
// test suites.
type Recorder struct {
	mu      sync.Mutex
	nextID  uint64
	objects []*RecordedObject
}

// Create a new recording device.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// A renderer object created by a Recorder.
type RecordedObject struct {
	rec *Recorder

	ID       uint64
	kind     Kind
	subtype  string
	Renderer string

	params    map[string]interface{}
	committed bool
	released  bool

	// Data buffer state
	data     interface{}
	dataType DataType
	dims     []int
	shared   bool
}

func (r *Recorder) newObject(kind Kind, subtype string) *RecordedObject {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	obj := &RecordedObject{
		rec:     r,
		ID:      r.nextID,
		kind:    kind,
		subtype: subtype,
		params:  make(map[string]interface{}),
	}
	r.objects = append(r.objects, obj)
	return obj
}

func (r *Recorder) NewGeometry(subtype string) Object {
	return r.newObject(KindGeometry, subtype)
}

func (r *Recorder) NewGeometricModel(geometry Object) Object {
	obj := r.newObject(KindGeometricModel, "")
	obj.params["geometry"] = geometry
	return obj
}

func (r *Recorder) NewGroup() Object {
	return r.newObject(KindGroup, "")
}

func (r *Recorder) NewInstance(group Object) Object {
	obj := r.newObject(KindInstance, "")
	obj.params["group"] = group
	return obj
}

func (r *Recorder) NewWorld() Object {
	return r.newObject(KindWorld, "")
}

func (r *Recorder) NewMaterial(rendererType, subtype string) Object {
	obj := r.newObject(KindMaterial, subtype)
	obj.Renderer = rendererType
	return obj
}

func (r *Recorder) NewTexture(subtype string) Object {
	return r.newObject(KindTexture, subtype)
}

func (r *Recorder) NewSharedData(data interface{}, dataType DataType, dims ...int) (Object, error) {
	return r.newData(data, dataType, dims, true)
}

func (r *Recorder) NewCopiedData(data interface{}, dataType DataType, dims ...int) (Object, error) {
	return r.newData(data, dataType, dims, false)
}

func (r *Recorder) newData(data interface{}, dataType DataType, dims []int, shared bool) (Object, error) {
	if err := CheckData(data, dataType, dims...); err != nil {
		return nil, err
	}

	if !shared {
		v := reflect.ValueOf(data)
		cp := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(cp, v)
		data = cp.Interface()
	}

	obj := r.newObject(KindData, dataType.String())
	obj.data = data
	obj.dataType = dataType
	obj.dims = append([]int(nil), dims...)
	obj.shared = shared
	obj.committed = true
	return obj, nil
}

// Get all objects of a particular kind in creation order, including released ones.
func (r *Recorder) Objects(kind Kind) []*RecordedObject {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*RecordedObject, 0)
	for _, obj := range r.objects {
		if obj.kind == kind {
			out = append(out, obj)
		}
	}
	return out
}

// Get all live objects of a particular kind in creation order.
func (r *Recorder) Live(kind Kind) []*RecordedObject {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*RecordedObject, 0)
	for _, obj := range r.objects {
		if obj.kind == kind && !obj.released {
			out = append(out, obj)
		}
	}
	return out
}

// The number of live objects grouped by kind.
func (r *Recorder) LiveCounts() map[Kind]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[Kind]int)
	for _, obj := range r.objects {
		if !obj.released {
			out[obj.kind]++
		}
	}
	return out
}

func (o *RecordedObject) Kind() Kind {
	return o.kind
}

func (o *RecordedObject) Subtype() string {
	return o.subtype
}

func (o *RecordedObject) SetParam(name string, value interface{}) error {
	o.rec.mu.Lock()
	defer o.rec.mu.Unlock()

	if o.released {
		return ErrReleased
	}
	if o.committed {
		return fmt.Errorf("%w: set %q on %s", ErrCommitted, name, o.kind)
	}
	if ref, isObj := value.(*RecordedObject); isObj && !ref.committed {
		return fmt.Errorf("%w: %q on %s", ErrNotCommitted, name, o.kind)
	}
	o.params[name] = value
	return nil
}

func (o *RecordedObject) Commit() error {
	o.rec.mu.Lock()
	defer o.rec.mu.Unlock()

	if o.released {
		return ErrReleased
	}
	if o.committed {
		return ErrCommitted
	}
	o.committed = true
	return nil
}

func (o *RecordedObject) Release() {
	o.rec.mu.Lock()
	o.released = true
	o.rec.mu.Unlock()
}

// Lookup a parameter value.
func (o *RecordedObject) Param(name string) (interface{}, bool) {
	o.rec.mu.Lock()
	defer o.rec.mu.Unlock()
	v, ok := o.params[name]
	return v, ok
}

// Returns true if the object was committed.
func (o *RecordedObject) Committed() bool {
	o.rec.mu.Lock()
	defer o.rec.mu.Unlock()
	return o.committed
}

// Returns true if the object was released.
func (o *RecordedObject) Released() bool {
	o.rec.mu.Lock()
	defer o.rec.mu.Unlock()
	return o.released
}

// The buffer wrapped by a data object.
func (o *RecordedObject) Data() interface{} {
	return o.data
}

// The element type of a data object.
func (o *RecordedObject) DataType() DataType {
	return o.dataType
}

// The dimensions of a data object.
func (o *RecordedObject) Dims() []int {
	return o.dims
}

// Returns true if the data object shares its buffer with the caller.
func (o *RecordedObject) Shared() bool {
	return o.shared
}

// Validate that a buffer matches a data type and element dimensions.
func CheckData(data interface{}, dataType DataType, dims ...int) error {
	count := 1
	for _, d := range dims {
		if d < 0 {
			return fmt.Errorf("%w: negative dimension %d", ErrDataMismatch, d)
		}
		count *= d
	}

	var length int
	var ok bool
	switch t := data.(type) {
	case []float32:
		ok = dataType == DataFloat || dataType == DataVec2f || dataType == DataVec3f || dataType == DataVec4f
		length, ok = scalarElements(len(t), dataType, ok)
	case []byte:
		ok = dataType == DataUChar || dataType == DataVec2UC || dataType == DataVec3UC || dataType == DataVec4UC
		length, ok = scalarElements(len(t), dataType, ok)
	case []uint32:
		length, ok = len(t), dataType == DataUInt
	case []types.Vec2:
		length, ok = len(t), dataType == DataVec2f
	case []types.Vec3:
		length, ok = len(t), dataType == DataVec3f
	case []types.Vec4:
		length, ok = len(t), dataType == DataVec4f
	case []Object:
		length, ok = len(t), dataType == DataObject
	}

	if !ok {
		return fmt.Errorf("%w: %T as %s", ErrDataMismatch, data, dataType)
	}
	if length != count {
		return fmt.Errorf("%w: %d elements for dims %v", ErrDataMismatch, length, dims)
	}
	return nil
}

// Convert a scalar buffer length into an element count.
func scalarElements(n int, dataType DataType, ok bool) (int, bool) {
	comps := dataType.Components()
	if !ok || comps == 0 || n%comps != 0 {
		return 0, false
	}
	return n / comps, true
}
