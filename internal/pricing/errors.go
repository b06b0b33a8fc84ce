package pricing

import "errors"

var (
	ErrUnsupportedDuration = errors.New("duration is not offered by this teacher")
	ErrInvalidQuantity     = errors.New("lesson quantity out of package range")
	ErrNoGroupRate         = errors.New("no group rate configured for this size")
)
