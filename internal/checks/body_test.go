package checks_test

import (
	"bytes"
	"testing"

	"github.com/hsrv/checkhttp/internal/checks"
	api "github.com/hsrv/checkhttp/lib-check"
)

func TestBody(t *testing.T) {
	tests := []struct {
		Name    string
		Body    []byte
		Fetched bool
		Bounds  checks.Bounds[uint64]
		State   api.State
		Summary string
	}{
		{
			"not-fetched",
			nil, false, checks.LowerBounds[uint64](1024),
			api.StateOK, "No body fetched",
		},
		{
			"no-bounds",
			bytes.Repeat([]byte("x"), 512), true, checks.NoBounds[uint64](),
			api.StateOK, "Page size: 512 B",
		},
		{
			"empty-body",
			[]byte{}, true, checks.NoBounds[uint64](),
			api.StateOK, "Page size: 0 B",
		},
		{
			"above-lower-bound",
			bytes.Repeat([]byte("x"), 2048), true, checks.LowerBounds[uint64](1024),
			api.StateOK, "Page size: 2.0 KiB",
		},
		{
			"below-lower-bound",
			bytes.Repeat([]byte("x"), 512), true, checks.LowerBounds[uint64](1024),
			api.StateWarning, "Page size: 512 B (warn below 1.0 KiB)",
		},
		{
			"inside-range",
			bytes.Repeat([]byte("x"), 512), true, checks.LowerUpperBounds[uint64](100, 2048),
			api.StateOK, "Page size: 512 B",
		},
		{
			"above-upper-bound",
			bytes.Repeat([]byte("x"), 4096), true, checks.LowerUpperBounds[uint64](100, 2048),
			api.StateWarning, "Page size: 4.0 KiB (warn above 2.0 KiB)",
		},
		{
			"below-range",
			bytes.Repeat([]byte("x"), 50), true, checks.LowerUpperBounds[uint64](100, 2048),
			api.StateWarning, "Page size: 50 B (warn below 100 B)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			result := checks.Body(tt.Body, tt.Fetched, tt.Bounds)

			if result.State != tt.State {
				t.Errorf("unexpected state: %s", result.State)
			}

			if result.Summary != tt.Summary {
				t.Errorf("unexpected summary: %q", result.Summary)
			}
		})
	}
}
