package checks

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	api "github.com/hsrv/checkhttp/lib-check"
)

// DocumentAge evaluates how old the served document is, measured as now
// minus the Last-Modified header, falling back to Date. The measured age is
// returned alongside the result so callers can report it as performance
// data.
//
// This is the one check that may report nothing: it stays silent when no
// age limits are configured, and also when the header is absent or does not
// parse as an HTTP date. A document the server refuses to date is dropped
// from the result sequence rather than failing the probe.
func DocumentAge(header http.Header, limits Limits[time.Duration], now time.Time) (api.Result, time.Duration, bool) {
	if limits.IsNone() {
		return api.Result{}, 0, false
	}

	raw := header.Get("Last-Modified")
	if raw == "" {
		raw = header.Get("Date")
	}
	if raw == "" {
		return api.Result{}, 0, false
	}

	modified, err := http.ParseTime(raw)
	if err != nil {
		return api.Result{}, 0, false
	}

	age := now.Sub(modified)
	state := limits.Check(age)

	summary := fmt.Sprintf("Document age: %s", humanize.RelTime(modified, now, "old", "in the future"))
	if state != api.StateOK {
		summary += limitsSuffix(limits)
	}

	return api.Statusf(state, "%s", summary), age, true
}
