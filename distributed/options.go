package distributed

import "log/slog"

// Option configures a Graph at construction time via the standard
// functional-options shape.
type Option[T any] func(*Graph[T])

// WithLogger overrides the package-level default (slog.Default()) for
// this graph's construction and migration diagnostics.
// No component's correctness depends on a log call succeeding.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(dg *Graph[T]) {
		if logger != nil {
			dg.log = logger
		}
	}
}
