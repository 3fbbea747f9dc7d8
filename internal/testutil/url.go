package testutil

import (
	"net/url"
	"testing"
)

// ParseURL parses a URL or stops the test.
func ParseURL(t testing.TB, raw string) *url.URL {
	t.Helper()

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse URL: %s", err)
	}
	return u
}
