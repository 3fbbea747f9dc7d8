package check

const (
	// StateUnknown means the check could not determine the target status.
	// This is reported when the probe itself failed in a way that says
	// nothing about the target, for example a request that could not be built.
	StateUnknown State = iota

	// StateOK means the check ran and the target looks fine.
	StateOK

	// StateWarning means the check ran and the target works, but some
	// measured value is outside its configured warning threshold.
	StateWarning

	// StateCritical means the check ran and the target is broken, or a
	// measured value is outside its configured critical threshold.
	StateCritical
)

// State is the severity of a check result, using the monitoring plugin
// vocabulary of OK, WARNING, CRITICAL, and UNKNOWN.
type State int8

// ParseState parses a state string.
//
// If passed an unsupported state, it returns StateUnknown.
func ParseState(raw string) State {
	switch raw {
	case "OK":
		return StateOK
	case "WARNING":
		return StateWarning
	case "CRITICAL":
		return StateCritical
	default:
		return StateUnknown
	}
}

// UnmarshalText unmarshals text as a State.
//
// This function always returns nil.
// Unsupported values parse as StateUnknown instead of returning an error.
func (s *State) UnmarshalText(text []byte) error {
	*s = ParseState(string(text))
	return nil
}

// String makes State a string.
func (s State) String() string {
	switch s {
	case StateOK:
		return "OK"
	case StateWarning:
		return "WARNING"
	case StateCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText marshals State as text.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ExitCode returns the process exit code for this state, following the
// plugin convention: 0=OK, 1=WARNING, 2=CRITICAL, 3=UNKNOWN.
func (s State) ExitCode() int {
	switch s {
	case StateOK:
		return 0
	case StateWarning:
		return 1
	case StateCritical:
		return 2
	default:
		return 3
	}
}

// Marker returns the marker appended to a result summary in plugin text
// output: nothing for OK, " (!)" for WARNING, " (!!)" for CRITICAL, and
// " (?)" for UNKNOWN.
func (s State) Marker() string {
	switch s {
	case StateWarning:
		return " (!)"
	case StateCritical:
		return " (!!)"
	case StateUnknown:
		return " (?)"
	default:
		return ""
	}
}

// severity is the aggregation order of states.
// A confirmed CRITICAL outranks UNKNOWN, which outranks WARNING.
func (s State) severity() int {
	switch s {
	case StateOK:
		return 0
	case StateWarning:
		return 1
	case StateUnknown:
		return 2
	default:
		return 3
	}
}

// WorstState returns the most severe of the given states, in the order
// OK < WARNING < UNKNOWN < CRITICAL.
//
// It returns StateUnknown if no state is given, because a check that
// produced no result at all did not determine anything.
func WorstState(states ...State) State {
	if len(states) == 0 {
		return StateUnknown
	}

	worst := states[0]
	for _, s := range states[1:] {
		if s.severity() > worst.severity() {
			worst = s
		}
	}
	return worst
}
