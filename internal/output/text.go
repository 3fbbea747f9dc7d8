// Package output renders a probe report for the outside world, either as
// the classic one line plugin format or as JSON.
package output

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/hsrv/checkhttp/internal/probe"
	api "github.com/hsrv/checkhttp/lib-check"
)

var stateColors = map[api.State]string{
	api.StateOK:       "\x1b[32m",
	api.StateWarning:  "\x1b[33m",
	api.StateCritical: "\x1b[31m",
	api.StateUnknown:  "\x1b[35m",
}

// Text renders the one line status report.
//
// The format is "HTTP STATE: summary, summary | perfdata perfdata". Only the
// state word gets colored, so the line stays grep friendly even on a
// terminal.
func Text(report probe.Report, color bool) string {
	var b strings.Builder

	state := report.State()

	b.WriteString("HTTP ")
	if color {
		b.WriteString(stateColors[state])
		b.WriteString(state.String())
		b.WriteString("\x1b[0m")
	} else {
		b.WriteString(state.String())
	}
	b.WriteString(": ")

	for i, r := range report.Results {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.String())
	}

	if len(report.Perfdata) > 0 {
		b.WriteString(" | ")
		for i, p := range report.Perfdata {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(p.String())
		}
	}

	return b.String()
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
