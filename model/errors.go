package model

import "errors"

var (
	ErrInvalidGeometry  = errors.New("invalid geometry")
	ErrMissingAttribute = errors.New("attribute not present")
	ErrNegativeRadius   = errors.New("negative radius")
	ErrUnknownUnit      = errors.New("unknown distance unit")
)
