package texture

import "errors"

var (
	ErrUnsupportedFormat = errors.New("texture: unsupported format")
	ErrPtexUnsupported   = errors.New("texture: ptex support not compiled in")
	ErrEmptyImage        = errors.New("texture: image has no pixels")
)
