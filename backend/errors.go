package backend

import "errors"

var (
	ErrCommitted    = errors.New("backend: object already committed")
	ErrReleased     = errors.New("backend: object already released")
	ErrNotCommitted = errors.New("backend: parameter references an uncommitted object")
	ErrDataMismatch = errors.New("backend: buffer does not match data type and dimensions")
)
