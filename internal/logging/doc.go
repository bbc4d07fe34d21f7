// Package logging installs the process-wide, append-only event log.
package logging
