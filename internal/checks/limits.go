package checks

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	api "github.com/hsrv/checkhttp/lib-check"
)

type limitsKind int8

const (
	limitsNone limitsKind = iota
	limitsWarn
	limitsWarnCrit
)

// Limits are escalating upper thresholds for a measured quantity: none, a
// warning threshold, or a warning and a critical threshold.
// The zero value means no thresholds.
//
// Limits do not require warn <= crit; that is the configuration layer's
// concern.
type Limits[T cmp.Ordered] struct {
	kind limitsKind
	warn T
	crit T
}

// NoLimits makes a Limits without any threshold.
func NoLimits[T cmp.Ordered]() Limits[T] {
	return Limits[T]{}
}

// WarnLimits makes a Limits with a warning threshold only.
func WarnLimits[T cmp.Ordered](warn T) Limits[T] {
	return Limits[T]{kind: limitsWarn, warn: warn}
}

// WarnCritLimits makes a Limits with a warning and a critical threshold.
func WarnCritLimits[T cmp.Ordered](warn, crit T) Limits[T] {
	return Limits[T]{kind: limitsWarnCrit, warn: warn, crit: crit}
}

// Check classifies a measured value against the thresholds.
// Comparison is inclusive: a value exactly on a threshold already triggers
// the corresponding state.
func (l Limits[T]) Check(v T) api.State {
	switch l.kind {
	case limitsWarn:
		if v >= l.warn {
			return api.StateWarning
		}
	case limitsWarnCrit:
		if v >= l.crit {
			return api.StateCritical
		}
		if v >= l.warn {
			return api.StateWarning
		}
	}
	return api.StateOK
}

// IsNone reports whether no threshold is configured.
func (l Limits[T]) IsNone() bool {
	return l.kind == limitsNone
}

// Warn returns the configured warning threshold, if any.
func (l Limits[T]) Warn() (T, bool) {
	if l.kind == limitsNone {
		var zero T
		return zero, false
	}
	return l.warn, true
}

// Crit returns the configured critical threshold, if any.
func (l Limits[T]) Crit() (T, bool) {
	if l.kind != limitsWarnCrit {
		var zero T
		return zero, false
	}
	return l.crit, true
}

// fmtDuration renders d without the zero tail units that
// time.Duration.String produces, so "1h0m0s" reads "1h".
func fmtDuration(d time.Duration) string {
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}

// limitsSuffix renders the threshold part of a summary, appended when a
// time-like check is outside its limits.
func limitsSuffix(l Limits[time.Duration]) string {
	if crit, ok := l.Crit(); ok {
		warn, _ := l.Warn()
		return fmt.Sprintf(" (warn/crit at %s/%s)", fmtDuration(warn), fmtDuration(crit))
	}
	if warn, ok := l.Warn(); ok {
		return fmt.Sprintf(" (warn at %s)", fmtDuration(warn))
	}
	return ""
}
