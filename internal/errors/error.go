package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// Unknown is the kind of errors that did not originate in this package.
	Unknown Kind = iota
	TargetAlreadyExists
	TemplateNotFound
	TemplateMalformed
	FolderCreationFailed
	FileCreationFailed
	TreeReadFailed
	RepoInitFailed
	EnvSeedFailed
)

type kindInfo struct {
	slug     string
	message  string
	exitCode int
	fatal    bool
}

var kinds = map[Kind]kindInfo{
	Unknown:              {"error", "unexpected error", 1, true},
	TargetAlreadyExists:  {"target-exists", "target already exists", 3, true},
	TemplateNotFound:     {"template-not-found", "template not found", 4, true},
	TemplateMalformed:    {"template-malformed", "template is malformed", 5, true},
	FolderCreationFailed: {"folder-creation-failed", "could not create folder", 6, true},
	FileCreationFailed:   {"file-creation-failed", "could not create file", 7, true},
	TreeReadFailed:       {"tree-read-failed", "could not read directory tree", 1, false},
	RepoInitFailed:       {"repo-init-failed", "could not initialize git repository", 1, false},
	EnvSeedFailed:        {"env-seed-failed", "could not create .env from .env.example", 1, false},
}

func (k Kind) info() kindInfo {
	if i, ok := kinds[k]; ok {
		return i
	}
	return kinds[Unknown]
}

// String returns the short slug of the kind (e.g., "template-not-found").
func (k Kind) String() string { return k.info().slug }

// ExitCode returns the process exit code for the kind.
func (k Kind) ExitCode() int { return k.info().exitCode }

// Fatal reports whether the kind aborts a bootstrap.
func (k Kind) Fatal() bool { return k.info().fatal }

// Error is a structured failure with the path it concerns and a fix hint.
type Error struct {
	// Kind classifies the error.
	Kind Kind

	// Path is the template name or filesystem path the error concerns.
	Path string

	// Detail is a longer explanation of what went wrong.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// New creates an Error of the given kind.
func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.info().message
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is matches another *Error of the same kind, so New(kind) can serve as a
// target for errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Path == "" && t.Detail == "" && t.Wrapped == nil
}

// WithPath sets the template name or filesystem path the error concerns.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detailed explanation to the error.
func (e *Error) WithDetailf(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return Unknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ExitCode returns the process exit code for err: 0 for nil, the kind's code
// otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).ExitCode()
}
