// Package version exposes build information set at link time.
package version

import "github.com/Masterminds/semver/v3"

// Set with -ldflags "-X github.com/rshade/contactdeck/pkg/version.version=...".
var (
	version = "0.1.0-dev" //nolint:gochecknoglobals // Overridden by ldflags.
	commit  = "unknown"   //nolint:gochecknoglobals // Overridden by ldflags.
)

// GetVersion returns the release version.
func GetVersion() string {
	return version
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	return commit
}

// String returns "version (commit)".
func String() string {
	return version + " (" + commit + ")"
}

// IsRelease reports whether the version is a valid semantic version without
// a prerelease suffix.
func IsRelease() bool {
	v, err := semver.NewVersion(version)
	return err == nil && v.Prerelease() == ""
}
