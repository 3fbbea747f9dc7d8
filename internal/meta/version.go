// Package meta carries build information injected via ldflags.
package meta

var (
	// Version is the release version of the plugin, or HEAD for
	// development builds.
	Version = "HEAD"

	// Commit is the git commit hash of the build.
	Commit = "UNKNOWN"
)
