// Package backend defines the commit-object protocol used to hand geometry,
// materials and textures over to the ray tracer.
//
// Every object is created by a Device, configured with SetParam and then
// finalized with a single call to Commit. Committed objects are immutable;
// changing them means creating a replacement and releasing the original.
package backend

// The kind of a renderer object.
type Kind string

const (
	KindData           Kind = "data"
	KindGeometry       Kind = "geometry"
	KindGeometricModel Kind = "geometricModel"
	KindGroup          Kind = "group"
	KindInstance       Kind = "instance"
	KindWorld          Kind = "world"
	KindMaterial       Kind = "material"
	KindTexture        Kind = "texture"
)

// Object is a handle to a renderer-side object.
type Object interface {
	// The object kind.
	Kind() Kind

	// The object subtype (e.g. "curve" for geometries or "principled" for materials).
	Subtype() string

	// Set a named parameter. Returns ErrCommitted if the object has already
	// been committed.
	SetParam(name string, value interface{}) error

	// Finalize the object.
	Commit() error

	// Release the renderer-side resources held by the object.
	Release()
}

// Device creates renderer objects.
type Device interface {
	NewGeometry(subtype string) Object
	NewGeometricModel(geometry Object) Object
	NewGroup() Object
	NewInstance(group Object) Object
	NewWorld() Object
	NewMaterial(rendererType, subtype string) Object
	NewTexture(subtype string) Object

	// Wrap a caller-owned buffer without copying. The caller must keep the
	// buffer unchanged for the lifetime of the returned object. Data objects
	// are returned committed.
	NewSharedData(data interface{}, dataType DataType, dims ...int) (Object, error)

	// Copy a buffer into a device-owned data object. Data objects are
	// returned committed.
	NewCopiedData(data interface{}, dataType DataType, dims ...int) (Object, error)
}

// Inspector is implemented by devices that can report their live objects.
type Inspector interface {
	// The number of live (not released) objects grouped by kind.
	LiveCounts() map[Kind]int
}
