package core

import "errors"

var (
	ErrDegenerateVector = errors.New("core: degenerate vector")
)
