package version

import (
	"sync"

	"github.com/Masterminds/semver/v3"
)

var (
	parseMu       sync.Mutex
	parsedVersion *semver.Version
	parsedFrom    string
	parsedOnce    bool
)

// Parsed returns Version as a semantic version, or nil if it does not
// parse. The result is cached until Version changes.
func Parsed() *semver.Version {
	parseMu.Lock()
	defer parseMu.Unlock()

	if parsedOnce && parsedFrom == Version {
		return parsedVersion
	}
	parsedOnce = true
	parsedFrom = Version
	parsedVersion = nil

	if v, err := semver.NewVersion(Version); err == nil {
		parsedVersion = v
	}
	return parsedVersion
}

// IsDevBuild reports whether this binary carries no release version.
// Development builds always compute content fingerprints.
func IsDevBuild() bool {
	return Parsed() == nil
}

// IsPrerelease reports whether the release version has a prerelease tag.
func IsPrerelease() bool {
	v := Parsed()
	return v != nil && v.Prerelease() != ""
}
