package checks

import (
	"cmp"

	api "github.com/hsrv/checkhttp/lib-check"
)

type boundsKind int8

const (
	boundsNone boundsKind = iota
	boundsLower
	boundsLowerUpper
)

// Bounds is an acceptable range for a measured count: no constraint at all,
// a lower bound only, or a lower and an upper bound.
// The zero value means "no constraint configured", which is not the same as
// a configured lower bound of zero.
type Bounds[T cmp.Ordered] struct {
	kind  boundsKind
	lower T
	upper T
}

// NoBounds makes a Bounds without any constraint.
func NoBounds[T cmp.Ordered]() Bounds[T] {
	return Bounds[T]{}
}

// LowerBounds makes a Bounds with a lower bound only.
func LowerBounds[T cmp.Ordered](min T) Bounds[T] {
	return Bounds[T]{kind: boundsLower, lower: min}
}

// LowerUpperBounds makes a Bounds with a lower and an upper bound.
func LowerUpperBounds[T cmp.Ordered](min, max T) Bounds[T] {
	return Bounds[T]{kind: boundsLowerUpper, lower: min, upper: max}
}

// Check classifies a measured value against the bounds.
// A value outside the configured range is a warning condition, never more.
// The bounds themselves are inclusive on both ends.
func (b Bounds[T]) Check(v T) api.State {
	switch b.kind {
	case boundsLower:
		if v < b.lower {
			return api.StateWarning
		}
	case boundsLowerUpper:
		if v < b.lower || v > b.upper {
			return api.StateWarning
		}
	}
	return api.StateOK
}

// Lower returns the configured lower bound, if any.
func (b Bounds[T]) Lower() (T, bool) {
	if b.kind == boundsNone {
		var zero T
		return zero, false
	}
	return b.lower, true
}

// Upper returns the configured upper bound, if any.
func (b Bounds[T]) Upper() (T, bool) {
	if b.kind != boundsLowerUpper {
		var zero T
		return zero, false
	}
	return b.upper, true
}
