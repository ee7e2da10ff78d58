package config

import "errors"

// ErrInvalidRank is returned when rank is negative or >= size.
var ErrInvalidRank = errors.New("config: rank out of range")

// ErrInvalidSize is returned when size is not positive.
var ErrInvalidSize = errors.New("config: size must be positive")
