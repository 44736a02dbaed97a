package curves

import "errors"

var (
	ErrNoPoints             = errors.New("curves: points empty")
	ErrUnsupportedCurveType = errors.New("curves: curve type not supported")
	ErrUnsupportedBasis     = errors.New("curves: unsupported curve basis")
	ErrIndexOutOfRange      = errors.New("curves: curve index out of range")
)
