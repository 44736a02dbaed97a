package backend

// Handle owns a single renderer object. Installing a replacement releases the
// previously held object.
type Handle struct {
	obj Object
}

// Replace the held object, releasing the previous one.
func (h *Handle) Set(obj Object) {
	if h.obj != nil && h.obj != obj {
		h.obj.Release()
	}
	h.obj = obj
}

// Get the held object or nil.
func (h *Handle) Get() Object {
	return h.obj
}

// Release the held object.
func (h *Handle) Release() {
	h.Set(nil)
}

// HandleList owns an ordered list of renderer objects that are always
// replaced together.
type HandleList struct {
	objs []Object
}

// Take ownership of obj.
func (l *HandleList) Append(obj Object) {
	l.objs = append(l.objs, obj)
}

// The owned objects. The returned slice must not be modified.
func (l *HandleList) Objects() []Object {
	return l.objs
}

func (l *HandleList) Len() int {
	return len(l.objs)
}

// Release all owned objects and empty the list.
func (l *HandleList) Release() {
	for _, obj := range l.objs {
		obj.Release()
	}
	l.objs = l.objs[:0]
}

// Builder applies a sequence of parameters to an object and commits it,
// remembering the first error encountered.
type Builder struct {
	obj Object
	err error
}

// Start building obj.
func Build(obj Object) *Builder {
	return &Builder{obj: obj}
}

// Set a parameter unless a previous step failed.
func (b *Builder) Set(name string, value interface{}) *Builder {
	if b.err == nil {
		b.err = b.obj.SetParam(name, value)
	}
	return b
}

// Commit the object. On failure the object is released and the first error
// is returned.
func (b *Builder) Commit() (Object, error) {
	if b.err == nil {
		b.err = b.obj.Commit()
	}
	if b.err != nil {
		b.obj.Release()
		return nil, b.err
	}
	return b.obj, nil
}
