package world

import "errors"

var (
	ErrInvalidCityCount = errors.New("invalid city count")
	ErrNoSuchCity       = errors.New("no such city")
	ErrSelfLoop         = errors.New("road must join two distinct cities")
	ErrNegativeLength   = errors.New("road length must not be negative")
	ErrSyntax           = errors.New("map syntax error")
	ErrGenConfig        = errors.New("invalid generation config")
)
