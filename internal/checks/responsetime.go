package checks

import (
	"fmt"
	"time"

	api "github.com/hsrv/checkhttp/lib-check"
)

// ResponseTime evaluates the measured request duration against the limits.
// The raw duration is compared; the display value is rounded to whole
// microseconds to keep the summary readable.
func ResponseTime(elapsed time.Duration, limits Limits[time.Duration]) api.Result {
	state := limits.Check(elapsed)

	summary := fmt.Sprintf("Response time: %s", fmtDuration(elapsed.Round(time.Microsecond)))
	if state != api.StateOK {
		summary += limitsSuffix(limits)
	}

	return api.Statusf(state, "%s", summary)
}
