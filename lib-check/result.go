package check

import (
	"fmt"
)

// Result is the outcome of a single check dimension, for example the HTTP
// status check or the response time check of one probe run.
// A probe run produces an ordered sequence of Results; the caller owns the
// sequence and aggregates it with WorstState.
type Result struct {
	State State

	// Summary is a one-line human readable explanation of the state.
	Summary string
}

// Statusf makes a Result with the given state and a printf style summary.
func Statusf(state State, format string, args ...interface{}) Result {
	return Result{
		State:   state,
		Summary: fmt.Sprintf(format, args...),
	}
}

// OK makes an OK Result.
func OK(format string, args ...interface{}) Result {
	return Statusf(StateOK, format, args...)
}

// Warning makes a WARNING Result.
func Warning(format string, args ...interface{}) Result {
	return Statusf(StateWarning, format, args...)
}

// Critical makes a CRITICAL Result.
func Critical(format string, args ...interface{}) Result {
	return Statusf(StateCritical, format, args...)
}

// Unknown makes an UNKNOWN Result.
func Unknown(format string, args ...interface{}) Result {
	return Statusf(StateUnknown, format, args...)
}

// String renders the Result the way it appears in plugin text output:
// the summary followed by the state marker, e.g. "Response time: 2.5s (!)".
func (r Result) String() string {
	return r.Summary + r.State.Marker()
}
