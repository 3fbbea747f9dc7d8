package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// DefaultUserAgent is sent when the request spec does not name one.
	// The command entry point replaces this with a versioned string.
	DefaultUserAgent = "check_http"

	ErrMissingURL        = errors.New("missing target URL")
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
)

// RedirectPolicy decides what the transport does with HTTP redirect
// responses. The first three policies do not follow the redirect and leave
// the 3xx response to the status check; the remaining ones follow it,
// possibly with restrictions on the target.
type RedirectPolicy int8

const (
	// RedirectOK does not follow redirects; a redirect response is fine.
	RedirectOK RedirectPolicy = iota

	// RedirectWarning does not follow redirects; a redirect response is a
	// warning condition for the status check.
	RedirectWarning

	// RedirectCritical does not follow redirects; a redirect response is a
	// critical condition for the status check.
	RedirectCritical

	// RedirectFollow follows redirects up to the configured maximum.
	RedirectFollow

	// RedirectSticky follows redirects, but only to the same host.
	RedirectSticky

	// RedirectStickyPort follows redirects, but only to the same host and
	// the same port.
	RedirectStickyPort
)

// ParseRedirectPolicy parses the onredirect option value.
func ParseRedirectPolicy(raw string) (RedirectPolicy, error) {
	switch raw {
	case "ok":
		return RedirectOK, nil
	case "warning":
		return RedirectWarning, nil
	case "critical":
		return RedirectCritical, nil
	case "follow":
		return RedirectFollow, nil
	case "sticky":
		return RedirectSticky, nil
	case "stickyport":
		return RedirectStickyPort, nil
	default:
		return RedirectOK, fmt.Errorf("invalid onredirect value: %q", raw)
	}
}

// String makes RedirectPolicy a string.
func (p RedirectPolicy) String() string {
	switch p {
	case RedirectWarning:
		return "warning"
	case RedirectCritical:
		return "critical"
	case RedirectFollow:
		return "follow"
	case RedirectSticky:
		return "sticky"
	case RedirectStickyPort:
		return "stickyport"
	default:
		return "ok"
	}
}

// Follows reports whether the policy makes the transport follow redirects.
func (p RedirectPolicy) Follows() bool {
	switch p {
	case RedirectFollow, RedirectSticky, RedirectStickyPort:
		return true
	default:
		return false
	}
}

// IPVersion forces the transport onto one IP protocol version.
type IPVersion int8

const (
	IPAny IPVersion = iota
	IPv4
	IPv6
)

// ParseIPVersion parses the force-ip option value.
func ParseIPVersion(raw string) (IPVersion, error) {
	switch raw {
	case "", "any":
		return IPAny, nil
	case "4":
		return IPv4, nil
	case "6":
		return IPv6, nil
	default:
		return IPAny, fmt.Errorf("invalid IP version: %q", raw)
	}
}

// Network returns the dialer network name for this version.
func (v IPVersion) Network() string {
	switch v {
	case IPv4:
		return "tcp4"
	case IPv6:
		return "tcp6"
	default:
		return "tcp"
	}
}

// RequestSpec is a fully resolved description of the request to perform.
// Resolution of relative URLs, secrets, and option defaults happens before
// a RequestSpec reaches this package.
type RequestSpec struct {
	URL          *url.URL
	Method       string
	UserAgent    string
	Header       http.Header
	Timeout      time.Duration
	AuthUser     string
	AuthPassword string
	OnRedirect   RedirectPolicy
	MaxRedirects int
	ForceIP      IPVersion

	// WithoutBody makes Perform drop the response body unread.
	WithoutBody bool
}

// Response is what the check evaluators see of the HTTP response.
type Response struct {
	StatusCode int
	Proto      string
	Header     http.Header

	// Body is the full response body. It stays nil and BodyFetched stays
	// false when the request asked to skip the body.
	Body        []byte
	BodyFetched bool
}

// Request is a prepared request together with the client configured for it.
// The client follows the configured redirect policy and keep-alives are off:
// every invocation stands alone.
type Request struct {
	spec   RequestSpec
	req    *http.Request
	client *http.Client
}

// NewRequest validates spec and builds the request and its client.
// An error here means the request could not even be constructed; no network
// activity has happened yet.
func NewRequest(spec RequestSpec) (*Request, error) {
	if spec.URL == nil {
		return nil, ErrMissingURL
	}
	if spec.URL.Scheme != "http" && spec.URL.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, spec.URL.Scheme)
	}
	if spec.URL.Hostname() == "" {
		return nil, ErrMissingURL
	}

	method := strings.ToUpper(spec.Method)
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequest(method, spec.URL.String(), nil)
	if err != nil {
		return nil, err
	}

	for name, values := range spec.Header {
		if http.CanonicalHeaderKey(name) == "Host" {
			// The Host header is not carried in Header by net/http.
			if len(values) > 0 {
				req.Host = values[0]
			}
			continue
		}
		req.Header[http.CanonicalHeaderKey(name)] = values
	}

	if req.Header.Get("User-Agent") == "" {
		ua := spec.UserAgent
		if ua == "" {
			ua = DefaultUserAgent
		}
		req.Header.Set("User-Agent", ua)
	}

	if spec.AuthUser != "" {
		req.SetBasicAuth(spec.AuthUser, spec.AuthPassword)
	}

	return &Request{
		spec: spec,
		req:  req,
		client: &http.Client{
			Transport: &http.Transport{
				DisableKeepAlives: true,
				Proxy:             http.ProxyFromEnvironment,
				DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
					var d net.Dialer
					return d.DialContext(ctx, spec.ForceIP.Network(), addr)
				},
				ForceAttemptHTTP2: true,
			},
			CheckRedirect: checkRedirect(spec),
		},
	}, nil
}

func checkRedirect(spec RequestSpec) func(req *http.Request, via []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if !spec.OnRedirect.Follows() {
			return http.ErrUseLastResponse
		}
		if len(via) > spec.MaxRedirects {
			return fmt.Errorf("%w (max %d)", errTooManyRedirects, spec.MaxRedirects)
		}

		origin := via[0].URL
		switch spec.OnRedirect {
		case RedirectSticky:
			if !strings.EqualFold(req.URL.Hostname(), origin.Hostname()) {
				return errStickyHost
			}
		case RedirectStickyPort:
			if !strings.EqualFold(req.URL.Hostname(), origin.Hostname()) {
				return errStickyHost
			}
			if portOf(req.URL) != portOf(origin) {
				return errStickyPort
			}
		}
		return nil
	}
}

func portOf(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	if u.Scheme == "https" {
		return "443"
	}
	return "80"
}

// Perform does the single network round trip for this request.
//
// The returned error is classified: check it against ErrTimeout, ErrConnect,
// and ErrRedirectPolicy with errors.Is. Reading the body counts as part of
// the round trip, so body read failures classify the same way.
func (r *Request) Perform(ctx context.Context) (Response, error) {
	if r.spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.spec.Timeout)
		defer cancel()
	}

	resp, err := r.client.Do(r.req.Clone(ctx))
	if err != nil {
		return Response{}, classifyError(ctx, err)
	}
	defer resp.Body.Close()

	response := Response{
		StatusCode: resp.StatusCode,
		Proto:      resp.Proto,
		Header:     resp.Header,
	}

	if r.spec.WithoutBody {
		return response, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, classifyError(ctx, err)
	}
	response.Body = body
	response.BodyFetched = true

	return response, nil
}
