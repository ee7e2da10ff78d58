// errors.go — sentinel errors for the builder package.
//
// Error policy (matches the rest of this module): only sentinel
// variables are exposed; callers branch with errors.Is; implementations
// attach call-site context via fmt.Errorf's %w rather than stringifying
// parameters into the sentinel itself.
package builder

import "errors"

// ErrTooFewNodes indicates a requested node or degree count falls below
// the minimum a constructor requires.
var ErrTooFewNodes = errors.New("builder: parameter too small")

// ErrInvalidProbability indicates a rewire probability outside [0,1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNeedRandSource indicates a stochastic builder was constructed
// without a *rand.Rand.
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrDegreeTooLarge indicates a requested degree K is not strictly less
// than the node count it must be drawn from.
var ErrDegreeTooLarge = errors.New("builder: degree must be smaller than node count")
