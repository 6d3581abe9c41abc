// Package version provides build-time version information for hwinv.
// Version, Commit, and BuildTime are populated via ldflags:
//
//	go build -ldflags "-X github.com/doughall/hwinv/internal/version.Version=1.0.0 \
//	                   -X github.com/doughall/hwinv/internal/version.Commit=abc123 \
//	                   -X github.com/doughall/hwinv/internal/version.BuildTime=2026-01-29T12:00:00Z"
package version

import "runtime"

var (
	// Version is the semantic version (e.g., "1.0.0", "dev").
	Version = "dev"

	// Commit is the git commit hash from which the binary was built.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built (RFC3339 format).
	BuildTime = "unknown"
)

// Platform is the GOOS/GOARCH pair the binary was built for.
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// Info returns a formatted string with all version information.
func Info() string {
	return "hwinv " + Version + " (" + Platform() + ", commit: " + Commit + ", built: " + BuildTime + ")"
}
