package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Channel classifies a build by its version string.
type Channel string

const (
	ChannelRelease     Channel = "release"
	ChannelPrerelease  Channel = "prerelease"
	ChannelDevelopment Channel = "development"
)

// Info is the build information injected via ldflags.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Semver parses Version, tolerating a leading "v".
func (i Info) Semver() (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(i.Version, "v"))
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", i.Version, err)
	}
	return v, nil
}

// Channel reports whether this is a release, a prerelease, or an untagged
// development build ("dev", or anything that is not semver).
func (i Info) Channel() Channel {
	v, err := i.Semver()
	if err != nil {
		return ChannelDevelopment
	}
	if v.Prerelease() != "" {
		return ChannelPrerelease
	}
	return ChannelRelease
}

// Short returns the normalized version ("1.2.3") or the raw string for
// development builds.
func (i Info) Short() string {
	v, err := i.Semver()
	if err != nil {
		return i.Version
	}
	return v.String()
}

// Format returns the full version line for the named program.
func (i Info) Format(name string) string {
	line := fmt.Sprintf("%s version %s (commit: %s, built: %s)", name, i.Short(), i.Commit, i.Date)
	if c := i.Channel(); c != ChannelRelease {
		line += " [" + string(c) + "]"
	}
	return line
}
