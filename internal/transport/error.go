package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
)

// The errors reported by Perform can be checked with the errors.Is function.
// Every failure maps to exactly one of these kinds; failures that fit no
// kind are returned as-is so the caller can treat them as a generic send
// failure.
var (
	// ErrTimeout is reported when the configured deadline passed before the
	// response was fully received.
	ErrTimeout = errors.New("request timed out")

	// ErrConnect is reported when the connection could not be established,
	// including name resolution and TLS setup failures.
	ErrConnect = errors.New("failed to connect")

	// ErrRedirectPolicy is reported when the redirect policy stopped the
	// request, because of too many hops or a forbidden target.
	ErrRedirectPolicy = errors.New("redirect policy violation")
)

// Sentinels returned by the redirect hook. They surface wrapped in
// *url.Error and classify as ErrRedirectPolicy.
var (
	errTooManyRedirects = errors.New("too many redirects")
	errStickyHost       = errors.New("redirect to a different host is not allowed")
	errStickyPort       = errors.New("redirect to a different port is not allowed")
)

// requestError tags an underlying failure with its kind.
//
// Error() returns the underlying error's text unchanged, so the text can be
// used verbatim in a check summary.
type requestError struct {
	kind error
	from error
}

func (e *requestError) Error() string {
	return e.from.Error()
}

func (e *requestError) Unwrap() error {
	return e.from
}

func (e *requestError) Is(err error) bool {
	return e.kind == err
}

// classifyError maps err to one of the error kinds above.
// The match order is fixed: timeout, redirect policy, connect.
func classifyError(ctx context.Context, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return &requestError{kind: ErrTimeout, from: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &requestError{kind: ErrTimeout, from: err}
	}

	if errors.Is(err, errTooManyRedirects) || errors.Is(err, errStickyHost) || errors.Is(err, errStickyPort) {
		return &requestError{kind: ErrRedirectPolicy, from: err}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return &requestError{kind: ErrConnect, from: err}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &requestError{kind: ErrConnect, from: err}
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return &requestError{kind: ErrConnect, from: err}
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return &requestError{kind: ErrConnect, from: err}
	}

	return err
}
