package checks

import (
	"fmt"
	"net/http"

	"github.com/hsrv/checkhttp/internal/transport"
	api "github.com/hsrv/checkhttp/lib-check"
)

// StatusPolicy is the severity table of the status check. Which status class
// maps to which state is policy, not a law of the plugin, so it is kept as
// data that the configuration layer may override.
type StatusPolicy struct {
	// ClientError is the state reported for 4xx responses.
	ClientError api.State

	// ServerError is the state reported for 5xx responses.
	ServerError api.State

	// StrayRedirect is the state reported for a redirect response that
	// survived a following redirect policy, meaning the transport could not
	// or would not follow it.
	StrayRedirect api.State
}

// DefaultStatusPolicy returns the severity table used when the
// configuration does not override it: client errors warn, server errors are
// critical, and a redirect the transport failed to follow warns.
func DefaultStatusPolicy() StatusPolicy {
	return StatusPolicy{
		ClientError:   api.StateWarning,
		ServerError:   api.StateCritical,
		StrayRedirect: api.StateWarning,
	}
}

// Status evaluates the HTTP status code in light of the redirect policy.
//
// A redirect response under a non-following policy is classified by that
// policy alone: expected with "ok", warning with "warning", critical with
// "critical". Under a following policy a redirect response means the
// transport gave up on following it, which is judged by the severity table.
func Status(code int, proto string, onRedirect transport.RedirectPolicy, policy StatusPolicy) api.Result {
	state := api.StateOK
	switch {
	case 500 <= code && code <= 599:
		state = policy.ServerError
	case 400 <= code && code <= 499:
		state = policy.ClientError
	case 300 <= code && code <= 399:
		switch onRedirect {
		case transport.RedirectWarning:
			state = api.StateWarning
		case transport.RedirectCritical:
			state = api.StateCritical
		case transport.RedirectOK:
			state = api.StateOK
		default:
			state = policy.StrayRedirect
		}
	}

	return api.Statusf(state, "%s", statusLine(proto, code))
}

func statusLine(proto string, code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%s %d %s", proto, code, text)
	}
	return fmt.Sprintf("%s %d", proto, code)
}
