package agents

import "errors"

var (
	ErrNilMap          = errors.New("agent needs a map")
	ErrInvalidStart    = errors.New("starting city is invalid")
	ErrInvalidStamina  = errors.New("stamina must not be negative")
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrNilRand         = errors.New("random strategy needs a random source")
	ErrIllegalMove     = errors.New("illegal move")
	ErrNoPath          = errors.New("no path to target")
)
