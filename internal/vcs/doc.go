// Package vcs initializes version-control repositories for new projects.
package vcs
