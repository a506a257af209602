package shared

import "errors"

var (
	ErrInvalidID = errors.New("invalid ID")
)
