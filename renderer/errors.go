package renderer

import "errors"

var (
	ErrNoDevice = errors.New("renderer: no device attached")
)
