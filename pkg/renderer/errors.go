package renderer

import "errors"

var (
	ErrInvalidCamera   = errors.New("renderer: invalid camera")
	ErrInvalidSampling = errors.New("renderer: invalid sampling config")
)
