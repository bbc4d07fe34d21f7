// Package config manages user-level settings stored at ~/.adaptmax/config.yaml.
// Settings can be overridden with ADAPTMAX_* environment variables; they control
// where templates are looked up, where the event log is written, and whether new
// projects get a git repository.
package config
