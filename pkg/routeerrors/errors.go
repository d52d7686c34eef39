package routeerrors

import "errors"

var (
	ErrInvalidConfig       = errors.New("chash: invalid config")
	ErrInvalidArgument     = errors.New("chash: invalid argument")
	ErrUnknownStrategy     = errors.New("chash: unknown strategy")
	ErrUnknownHash         = errors.New("chash: unknown hash")
	ErrUnknownDistribution = errors.New("chash: unknown distribution")
)
