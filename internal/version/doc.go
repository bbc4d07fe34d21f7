// Package version describes the running build: version, commit, build date
// and whether the version is a tagged release.
package version
