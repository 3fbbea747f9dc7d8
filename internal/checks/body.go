package checks

import (
	"fmt"

	"github.com/dustin/go-humanize"

	api "github.com/hsrv/checkhttp/lib-check"
)

// Body evaluates the response body size against the configured bounds.
// It always reports something: without bounds it reports the measured size
// at OK, and when the body fetch was skipped on purpose it reports a
// neutral OK instead of treating the missing body as size zero.
func Body(body []byte, fetched bool, bounds Bounds[uint64]) api.Result {
	if !fetched {
		return api.OK("No body fetched")
	}

	size := uint64(len(body))
	state := bounds.Check(size)

	summary := fmt.Sprintf("Page size: %s", humanize.IBytes(size))
	if state != api.StateOK {
		if min, ok := bounds.Lower(); ok && size < min {
			summary += fmt.Sprintf(" (warn below %s)", humanize.IBytes(min))
		} else if max, ok := bounds.Upper(); ok && size > max {
			summary += fmt.Sprintf(" (warn above %s)", humanize.IBytes(max))
		}
	}

	return api.Statusf(state, "%s", summary)
}
